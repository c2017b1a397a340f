package stores

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/explorenow/backend/internal/docstore"
	"github.com/explorenow/backend/internal/models"
	"go.uber.org/zap"
)

// MessageStore defines the interface for direct messaging. Sends consult the
// block store and refuse delivery between blocked parties.
type MessageStore interface {
	Send(ctx context.Context, senderID, receiverID, text string) (*models.Message, error)
	Conversation(ctx context.Context, uid, otherID string) ([]models.Message, error)
}

type messageStore struct {
	client docstore.Client
	blocks BlockStore
	log    *zap.Logger
}

// NewMessageStore creates a MessageStore over the given client.
func NewMessageStore(client docstore.Client, blocks BlockStore, log *zap.Logger) MessageStore {
	return &messageStore{client: client, blocks: blocks, log: log}
}

// Send stores a message after checking the block relation in both directions.
// Both directions are read from the sender's own document, so a one-sided
// relation left by an interrupted block still gates delivery.
func (s *messageStore) Send(ctx context.Context, senderID, receiverID, text string) (*models.Message, error) {
	list, err := s.blocks.BlockList(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if models.Contains(list.BlockedUserIDs, receiverID) || models.Contains(list.BlockedByIDs, receiverID) {
		return nil, ErrBlocked
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Timestamp:  time.Now(),
	}
	id, err := s.client.Add(ctx, CollectionMessages, message.Doc())
	if err != nil {
		return nil, fmt.Errorf("send message %s -> %s: %w", senderID, receiverID, err)
	}
	message.ID = id
	return message, nil
}

// Conversation returns both directions of a thread merged in timestamp order.
// Equality-only queries force one read per direction.
func (s *messageStore) Conversation(ctx context.Context, uid, otherID string) ([]models.Message, error) {
	var out []models.Message
	for _, pair := range [][2]string{{uid, otherID}, {otherID, uid}} {
		snaps, err := s.client.Query(ctx, CollectionMessages, docstore.Query{
			Filters: []docstore.Filter{
				{Field: "senderId", Value: pair[0]},
				{Field: "receiverId", Value: pair[1]},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("conversation %s/%s: %w", uid, otherID, err)
		}
		for _, snap := range snaps {
			out = append(out, *models.MessageFromDoc(snap.ID, snap.Data))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}
