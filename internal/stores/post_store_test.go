package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/explorenow/backend/internal/models"
)

func createTestPost(t *testing.T, env *testEnv, userID string) *models.Post {
	t.Helper()
	post, err := env.posts.CreatePost(context.Background(), userID, &models.CreatePostRequest{
		Caption:      "golden gate at dusk",
		ImageURLs:    []string{"https://img.example.com/gg.jpg"},
		LocationName: "Golden Gate Bridge",
		Latitude:     37.82,
		Longitude:    -122.48,
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	return post
}

func TestCreatePostWritesLocation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")

	post := createTestPost(t, env, "u1")
	if post.ID == "" || post.LocationID == "" {
		t.Fatalf("post missing ids: %+v", post)
	}

	location, err := env.posts.GetLocation(ctx, post.LocationID)
	if err != nil {
		t.Fatalf("GetLocation failed: %v", err)
	}
	if location.Name != "Golden Gate Bridge" || location.Latitude != 37.82 {
		t.Errorf("unexpected location: %+v", location)
	}

	stored, err := env.posts.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if stored.UserID != "u1" || stored.LocationID != post.LocationID {
		t.Errorf("unexpected post: %+v", stored)
	}
}

func TestLikePostNotifiesAuthor(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")

	post := createTestPost(t, env, "u1")
	if err := env.posts.LikePost(ctx, "u2", post.ID); err != nil {
		t.Fatalf("LikePost failed: %v", err)
	}

	notifs, _ := env.notifications.ListForReceiver(ctx, "u1")
	if len(notifs) != 1 {
		t.Fatalf("author has %d notifications, want 1", len(notifs))
	}
	n := notifs[0]
	if n.Type != models.NotificationLike || n.SenderID != "u2" || n.PostID != post.ID {
		t.Errorf("unexpected notification: %+v", n)
	}
}

func TestSelfLikeCreatesNoNotification(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")

	post := createTestPost(t, env, "u1")
	if err := env.posts.LikePost(ctx, "u1", post.ID); err != nil {
		t.Fatalf("LikePost failed: %v", err)
	}

	notifs, _ := env.notifications.ListForReceiver(ctx, "u1")
	if len(notifs) != 0 {
		t.Errorf("self-like produced %d notifications", len(notifs))
	}
}

func TestLikeMissingPost(t *testing.T) {
	env := newTestEnv(t)
	if err := env.posts.LikePost(context.Background(), "u1", "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCommentPostAndList(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")

	post := createTestPost(t, env, "u1")
	first, err := env.posts.CommentPost(ctx, "u2", post.ID, "stunning")
	if err != nil {
		t.Fatalf("CommentPost failed: %v", err)
	}
	if _, err := env.posts.CommentPost(ctx, "u1", post.ID, "thanks!"); err != nil {
		t.Fatalf("second comment failed: %v", err)
	}

	comments, err := env.posts.Comments(ctx, post.ID)
	if err != nil {
		t.Fatalf("Comments failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
	// Oldest first
	if comments[0].ID != first.ID || comments[0].Text != "stunning" {
		t.Errorf("comments out of order: %+v", comments)
	}

	// Only the non-author comment notified the author
	notifs, _ := env.notifications.ListForReceiver(ctx, "u1")
	if len(notifs) != 1 || notifs[0].Type != models.NotificationComment {
		t.Errorf("author notifications = %+v, want one comment notification", notifs)
	}
}

func TestLikeCommentNotifiesCommentAuthor(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")

	post := createTestPost(t, env, "u1")
	comment, err := env.posts.CommentPost(ctx, "u2", post.ID, "stunning")
	if err != nil {
		t.Fatalf("CommentPost failed: %v", err)
	}

	if err := env.posts.LikeComment(ctx, "u1", comment.ID); err != nil {
		t.Fatalf("LikeComment failed: %v", err)
	}

	notifs, _ := env.notifications.ListForReceiver(ctx, "u2")
	if len(notifs) != 1 {
		t.Fatalf("comment author has %d notifications, want 1", len(notifs))
	}
	n := notifs[0]
	if n.Type != models.NotificationCommentLike || n.PostID != post.ID {
		t.Errorf("unexpected notification: %+v", n)
	}

	// Liking your own comment stays silent
	if err := env.posts.LikeComment(ctx, "u2", comment.ID); err != nil {
		t.Fatalf("self comment like failed: %v", err)
	}
	notifs, _ = env.notifications.ListForReceiver(ctx, "u2")
	if len(notifs) != 1 {
		t.Errorf("self comment like produced a notification")
	}
}

func TestPostsByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")

	first := createTestPost(t, env, "u1")
	second := createTestPost(t, env, "u1")
	createTestPost(t, env, "u2")

	posts, err := env.posts.PostsByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("PostsByUser failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	if posts[0].ID != second.ID || posts[1].ID != first.ID {
		t.Errorf("posts not newest first: %v then %v", posts[0].ID, posts[1].ID)
	}
}
