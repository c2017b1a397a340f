package stores

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/explorenow/backend/internal/docstore"
	"github.com/explorenow/backend/internal/models"
	"go.uber.org/zap"
)

// NotificationStore defines the interface for notification operations
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) (string, error)
	ListForReceiver(ctx context.Context, uid string) ([]models.Notification, error)
	HasUnread(ctx context.Context, uid string) (bool, error)
	MarkAllRead(ctx context.Context, uid string) error
	MarkFriendRequestAccepted(ctx context.Context, receiverID, senderID string) error
	DeleteFriendRequestNotifications(ctx context.Context, receiverID, senderID string) error
	ResolveDisplayName(ctx context.Context, n *models.Notification) string
	AttachPostPreview(ctx context.Context, n *models.Notification) *models.PostPreview
	Enrich(ctx context.Context, notifications []models.Notification) []models.EnrichedNotification
	WatchForReceiver(ctx context.Context, uid string, fn func([]models.Notification)) (func(), error)
}

type notificationStore struct {
	client docstore.Client
	users  UserStore
	log    *zap.Logger
}

// NewNotificationStore creates a NotificationStore over the given client.
func NewNotificationStore(client docstore.Client, users UserStore, log *zap.Logger) NotificationStore {
	return &notificationStore{client: client, users: users, log: log}
}

// Create appends a notification under a store-generated id.
func (s *notificationStore) Create(ctx context.Context, n *models.Notification) (string, error) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	id, err := s.client.Add(ctx, CollectionNotifications, n.Doc())
	if err != nil {
		return "", fmt.Errorf("create notification for %s: %w", n.ReceiverID, err)
	}
	n.ID = id
	return id, nil
}

// ListForReceiver returns the receiver's notifications ordered by timestamp
// descending. Re-issuing the call re-reads current state; there is no cursor.
func (s *notificationStore) ListForReceiver(ctx context.Context, uid string) ([]models.Notification, error) {
	snaps, err := s.client.Query(ctx, CollectionNotifications, docstore.Query{
		Filters: []docstore.Filter{{Field: "receiverId", Value: uid}},
		OrderBy: "timestamp",
		Desc:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications for %s: %w", uid, err)
	}
	out := make([]models.Notification, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, *models.NotificationFromDoc(snap.ID, snap.Data))
	}
	return out, nil
}

// HasUnread reports whether any notification for uid is unread.
func (s *notificationStore) HasUnread(ctx context.Context, uid string) (bool, error) {
	snaps, err := s.client.Query(ctx, CollectionNotifications, docstore.Query{
		Filters: []docstore.Filter{
			{Field: "receiverId", Value: uid},
			{Field: "isRead", Value: false},
		},
		Limit: 1,
	})
	if err != nil {
		return false, fmt.Errorf("unread check for %s: %w", uid, err)
	}
	return len(snaps) > 0, nil
}

// MarkAllRead flips isRead on each unread notification individually, one write
// per document. A failed write is logged and the sweep continues.
func (s *notificationStore) MarkAllRead(ctx context.Context, uid string) error {
	snaps, err := s.client.Query(ctx, CollectionNotifications, docstore.Query{
		Filters: []docstore.Filter{
			{Field: "receiverId", Value: uid},
			{Field: "isRead", Value: false},
		},
	})
	if err != nil {
		return fmt.Errorf("mark all read for %s: %w", uid, err)
	}
	for _, snap := range snaps {
		if err := s.client.Merge(ctx, CollectionNotifications, snap.ID, docstore.Document{"isRead": true}); err != nil {
			s.log.Error("mark read failed",
				zap.String("notification", snap.ID), zap.Error(err))
		}
	}
	return nil
}

// MarkFriendRequestAccepted rewrites the receiver's pending friendRequest
// notification from senderID in place: status, message and timestamp all
// change, turning the original event record into an update about it.
func (s *notificationStore) MarkFriendRequestAccepted(ctx context.Context, receiverID, senderID string) error {
	snaps, err := s.client.Query(ctx, CollectionNotifications, docstore.Query{
		Filters: []docstore.Filter{
			{Field: "receiverId", Value: receiverID},
			{Field: "senderId", Value: senderID},
			{Field: "type", Value: models.NotificationFriendRequest},
		},
	})
	if err != nil {
		return fmt.Errorf("find friend request notifications %s<-%s: %w", receiverID, senderID, err)
	}
	for _, snap := range snaps {
		err := s.client.Merge(ctx, CollectionNotifications, snap.ID, docstore.Document{
			"status":    models.FriendRequestAccepted,
			"message":   models.MsgNowFriends,
			"timestamp": time.Now(),
		})
		if err != nil {
			s.log.Error("friend request notification rewrite failed",
				zap.String("notification", snap.ID), zap.Error(err))
		}
	}
	return nil
}

// DeleteFriendRequestNotifications removes the companion notifications of a
// deleted friend request.
func (s *notificationStore) DeleteFriendRequestNotifications(ctx context.Context, receiverID, senderID string) error {
	snaps, err := s.client.Query(ctx, CollectionNotifications, docstore.Query{
		Filters: []docstore.Filter{
			{Field: "receiverId", Value: receiverID},
			{Field: "senderId", Value: senderID},
			{Field: "type", Value: models.NotificationFriendRequest},
		},
	})
	if err != nil {
		return fmt.Errorf("find friend request notifications %s<-%s: %w", receiverID, senderID, err)
	}
	for _, snap := range snaps {
		if err := s.client.Delete(ctx, CollectionNotifications, snap.ID); err != nil {
			s.log.Error("friend request notification delete failed",
				zap.String("notification", snap.ID), zap.Error(err))
		}
	}
	return nil
}

// ResolveDisplayName substitutes the sender's current profile into the message
// template at read time. Sender renames therefore alter historical text. When
// the sender cannot be fetched the raw template is returned.
func (s *notificationStore) ResolveDisplayName(ctx context.Context, n *models.Notification) string {
	sender, err := s.users.GetUser(ctx, n.SenderID)
	if err != nil {
		s.log.Warn("sender lookup failed for notification message",
			zap.String("notification", n.ID), zap.String("sender", n.SenderID), zap.Error(err))
		return n.Message
	}
	if strings.Contains(n.Message, models.NamePlaceholder) {
		return strings.ReplaceAll(n.Message, models.NamePlaceholder, sender.DisplayName())
	}
	return sender.DisplayName() + " " + n.Message
}

// AttachPostPreview materializes the post → location → author chain for a
// notification carrying a post_id. The three lookups are sequential and
// dependent; if any link fails the notification gets no preview at all.
func (s *notificationStore) AttachPostPreview(ctx context.Context, n *models.Notification) *models.PostPreview {
	if n.PostID == "" {
		return nil
	}
	postDoc, err := s.client.Get(ctx, CollectionPosts, n.PostID)
	if err != nil {
		s.log.Warn("post lookup failed for notification preview",
			zap.String("notification", n.ID), zap.String("post", n.PostID), zap.Error(err))
		return nil
	}
	post := models.PostFromDoc(n.PostID, postDoc)

	locationDoc, err := s.client.Get(ctx, CollectionLocations, post.LocationID)
	if err != nil {
		s.log.Warn("location lookup failed for notification preview",
			zap.String("notification", n.ID), zap.String("location", post.LocationID), zap.Error(err))
		return nil
	}
	location := models.LocationFromDoc(post.LocationID, locationDoc)

	author, err := s.users.GetUser(ctx, post.UserID)
	if err != nil {
		s.log.Warn("author lookup failed for notification preview",
			zap.String("notification", n.ID), zap.String("author", post.UserID), zap.Error(err))
		return nil
	}

	preview := &models.PostPreview{Post: post, Location: location, Author: author}
	if len(post.ImageURLs) > 0 {
		preview.ImageURL = post.ImageURLs[0]
	}
	return preview
}

// Enrich resolves messages and previews for a notification page, caching
// sender lookups across the batch.
func (s *notificationStore) Enrich(ctx context.Context, notifications []models.Notification) []models.EnrichedNotification {
	enriched := make([]models.EnrichedNotification, len(notifications))
	senderCache := make(map[string]*models.User)

	for i, n := range notifications {
		enriched[i] = models.EnrichedNotification{Notification: n}

		sender, cached := senderCache[n.SenderID]
		if !cached {
			var err error
			sender, err = s.users.GetUser(ctx, n.SenderID)
			if err != nil {
				sender = nil
			}
			senderCache[n.SenderID] = sender
		}
		if sender == nil {
			enriched[i].DisplayMessage = n.Message
		} else if strings.Contains(n.Message, models.NamePlaceholder) {
			enriched[i].DisplayMessage = strings.ReplaceAll(n.Message, models.NamePlaceholder, sender.DisplayName())
		} else {
			enriched[i].DisplayMessage = sender.DisplayName() + " " + n.Message
		}

		enriched[i].Preview = s.AttachPostPreview(ctx, &notifications[i])
	}
	return enriched
}

// WatchForReceiver streams the receiver's full notification list after every
// change, server-ordered by timestamp descending.
func (s *notificationStore) WatchForReceiver(ctx context.Context, uid string, fn func([]models.Notification)) (func(), error) {
	return s.client.Watch(ctx, CollectionNotifications, docstore.Query{
		Filters: []docstore.Filter{{Field: "receiverId", Value: uid}},
		OrderBy: "timestamp",
		Desc:    true,
	}, func(snaps []docstore.Snapshot) {
		out := make([]models.Notification, 0, len(snaps))
		for _, snap := range snaps {
			out = append(out, *models.NotificationFromDoc(snap.ID, snap.Data))
		}
		fn(out)
	})
}
