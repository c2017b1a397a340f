package stores

import (
	"context"
	"testing"

	"github.com/explorenow/backend/internal/docstore"
	"github.com/explorenow/backend/internal/models"
	"go.uber.org/zap"
)

// testEnv wires all stores over a shared in-memory backend, the same
// construction order the router uses.
type testEnv struct {
	client        *docstore.MemoryClient
	users         UserStore
	blocks        BlockStore
	notifications NotificationStore
	relationships RelationshipStore
	posts         PostStore
	messages      MessageStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	client := docstore.NewMemoryClient()
	log := zap.NewNop()

	users := NewUserStore(client, log)
	notifications := NewNotificationStore(client, users, log)
	blocks := NewBlockStore(client, log)

	return &testEnv{
		client:        client,
		users:         users,
		blocks:        blocks,
		notifications: notifications,
		relationships: NewRelationshipStore(client, notifications, users, log),
		posts:         NewPostStore(client, notifications, log),
		messages:      NewMessageStore(client, blocks, log),
	}
}

func (e *testEnv) seedUser(t *testing.T, uid, name, username string) {
	t.Helper()
	err := e.users.CreateUser(context.Background(), &models.User{
		UID:      uid,
		Name:     name,
		Username: username,
		Email:    username + "@example.com",
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", uid, err)
	}
}
