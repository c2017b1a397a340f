package stores

import (
	"context"
	"testing"
	"time"

	"github.com/explorenow/backend/internal/models"
)

func TestListForReceiverNewestFirst(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// Created out of order on purpose
	for _, offset := range []time.Duration{time.Minute, 3 * time.Minute, 2 * time.Minute} {
		_, err := env.notifications.Create(ctx, &models.Notification{
			ReceiverID: "u1",
			SenderID:   "u2",
			Type:       models.NotificationLike,
			Message:    models.MsgPostLiked,
			Timestamp:  base.Add(offset),
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	env.notifications.Create(ctx, &models.Notification{
		ReceiverID: "someone-else",
		SenderID:   "u2",
		Type:       models.NotificationLike,
		Message:    models.MsgPostLiked,
	})

	notifs, err := env.notifications.ListForReceiver(ctx, "u1")
	if err != nil {
		t.Fatalf("ListForReceiver failed: %v", err)
	}
	if len(notifs) != 3 {
		t.Fatalf("got %d notifications, want 3", len(notifs))
	}
	for i := 1; i < len(notifs); i++ {
		if notifs[i].Timestamp.After(notifs[i-1].Timestamp) {
			t.Errorf("notifications out of order at index %d", i)
		}
	}
}

func TestCreateDefaultsTimestamp(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	n := &models.Notification{ReceiverID: "u1", SenderID: "u2", Type: models.NotificationLike}
	if _, err := env.notifications.Create(ctx, n); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	notifs, _ := env.notifications.ListForReceiver(ctx, "u1")
	if len(notifs) != 1 || notifs[0].Timestamp.IsZero() {
		t.Errorf("stored notification has zero timestamp")
	}
}

func TestHasUnreadAndMarkAllRead(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	unread, err := env.notifications.HasUnread(ctx, "u1")
	if err != nil {
		t.Fatalf("HasUnread failed: %v", err)
	}
	if unread {
		t.Error("empty inbox reported unread")
	}

	for i := 0; i < 3; i++ {
		env.notifications.Create(ctx, &models.Notification{
			ReceiverID: "u1",
			SenderID:   "u2",
			Type:       models.NotificationLike,
			Message:    models.MsgPostLiked,
		})
	}
	if unread, _ = env.notifications.HasUnread(ctx, "u1"); !unread {
		t.Fatal("unread notifications not reported")
	}

	if err := env.notifications.MarkAllRead(ctx, "u1"); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if unread, _ = env.notifications.HasUnread(ctx, "u1"); unread {
		t.Error("notifications still unread after MarkAllRead")
	}
	notifs, _ := env.notifications.ListForReceiver(ctx, "u1")
	for _, n := range notifs {
		if !n.IsRead {
			t.Errorf("notification %s left unread", n.ID)
		}
	}

	// Idempotent on an already-read inbox
	if err := env.notifications.MarkAllRead(ctx, "u1"); err != nil {
		t.Errorf("repeated MarkAllRead failed: %v", err)
	}
}

func TestResolveDisplayName(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u2", "Bob", "bob")

	withPlaceholder := &models.Notification{SenderID: "u2", Message: models.MsgFriendRequestSent}
	got := env.notifications.ResolveDisplayName(ctx, withPlaceholder)
	if want := "Bob (@bob) sent you a friend request."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	withoutPlaceholder := &models.Notification{SenderID: "u2", Message: "wants to meet up."}
	got = env.notifications.ResolveDisplayName(ctx, withoutPlaceholder)
	if want := "Bob (@bob) wants to meet up."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Unknown sender falls back to the raw template
	orphan := &models.Notification{SenderID: "ghost", Message: models.MsgFriendRequestSent}
	got = env.notifications.ResolveDisplayName(ctx, orphan)
	if got != models.MsgFriendRequestSent {
		t.Errorf("got %q, want raw template", got)
	}
}

func TestAttachPostPreview(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")

	post, err := env.posts.CreatePost(ctx, "u1", &models.CreatePostRequest{
		Caption:      "sunset",
		ImageURLs:    []string{"https://img.example.com/1.jpg", "https://img.example.com/2.jpg"},
		LocationName: "Pier 39",
		Latitude:     37.8,
		Longitude:    -122.4,
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	n := &models.Notification{SenderID: "u2", ReceiverID: "u1", PostID: post.ID}
	preview := env.notifications.AttachPostPreview(ctx, n)
	if preview == nil {
		t.Fatal("expected a preview for an intact chain")
	}
	if preview.Post.ID != post.ID || preview.Location.Name != "Pier 39" || preview.Author.UID != "u1" {
		t.Errorf("unexpected preview: %+v", preview)
	}
	if preview.ImageURL != "https://img.example.com/1.jpg" {
		t.Errorf("imageUrl = %q, want the first image", preview.ImageURL)
	}
}

func TestAttachPostPreviewBrokenChain(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")

	post, err := env.posts.CreatePost(ctx, "u1", &models.CreatePostRequest{
		ImageURLs:    []string{"https://img.example.com/1.jpg"},
		LocationName: "Pier 39",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	// No post_id at all
	if preview := env.notifications.AttachPostPreview(ctx, &models.Notification{}); preview != nil {
		t.Error("notification without post_id got a preview")
	}

	// Dangling post reference
	n := &models.Notification{PostID: "gone"}
	if preview := env.notifications.AttachPostPreview(ctx, n); preview != nil {
		t.Error("dangling post reference got a preview")
	}

	// Post exists but its location was deleted: the whole preview is dropped
	if err := env.client.Delete(ctx, CollectionLocations, post.LocationID); err != nil {
		t.Fatalf("delete location: %v", err)
	}
	n = &models.Notification{PostID: post.ID}
	if preview := env.notifications.AttachPostPreview(ctx, n); preview != nil {
		t.Error("broken location link still produced a preview")
	}
}

func TestEnrichBatch(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "u1", "Alice", "alice")
	env.seedUser(t, "u2", "Bob", "bob")

	post, _ := env.posts.CreatePost(ctx, "u1", &models.CreatePostRequest{
		ImageURLs:    []string{"https://img.example.com/1.jpg"},
		LocationName: "Pier 39",
	})
	env.posts.LikePost(ctx, "u2", post.ID)
	env.notifications.Create(ctx, &models.Notification{
		ReceiverID: "u1",
		SenderID:   "ghost",
		Type:       models.NotificationComment,
		Message:    models.MsgPostCommented,
	})

	notifs, _ := env.notifications.ListForReceiver(ctx, "u1")
	enriched := env.notifications.Enrich(ctx, notifs)
	if len(enriched) != 2 {
		t.Fatalf("got %d enriched notifications, want 2", len(enriched))
	}
	for _, e := range enriched {
		switch e.SenderID {
		case "u2":
			if e.DisplayMessage != "Bob (@bob) liked your post." {
				t.Errorf("display message = %q", e.DisplayMessage)
			}
			if e.Preview == nil || e.Preview.Post.ID != post.ID {
				t.Errorf("like notification missing post preview")
			}
		case "ghost":
			if e.DisplayMessage != models.MsgPostCommented {
				t.Errorf("unknown sender display message = %q, want raw template", e.DisplayMessage)
			}
			if e.Preview != nil {
				t.Errorf("notification without post_id got a preview")
			}
		default:
			t.Errorf("unexpected sender %q", e.SenderID)
		}
	}
}

func TestWatchForReceiver(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	var deliveries [][]models.Notification
	stop, err := env.notifications.WatchForReceiver(ctx, "u1", func(ns []models.Notification) {
		deliveries = append(deliveries, ns)
	})
	if err != nil {
		t.Fatalf("WatchForReceiver failed: %v", err)
	}
	defer stop()

	env.notifications.Create(ctx, &models.Notification{
		ReceiverID: "u1",
		SenderID:   "u2",
		Type:       models.NotificationLike,
		Message:    models.MsgPostLiked,
	})

	if len(deliveries) < 2 {
		t.Fatalf("got %d deliveries, want initial plus update", len(deliveries))
	}
	last := deliveries[len(deliveries)-1]
	if len(last) != 1 || last[0].SenderID != "u2" {
		t.Errorf("unexpected final delivery: %+v", last)
	}
}
