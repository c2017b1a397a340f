package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/explorenow/backend/internal/docstore"
	"github.com/explorenow/backend/internal/models"
	"go.uber.org/zap"
)

// RelationshipStore defines the interface for the friend request lifecycle and
// the mutual friend lists it maintains.
type RelationshipStore interface {
	SendFriendRequest(ctx context.Context, senderID, receiverID string) error
	AcceptFriendRequest(ctx context.Context, receiverID, senderID string) error
	DeleteFriendRequest(ctx context.Context, senderID, receiverID string) error
	RemoveFriend(ctx context.Context, currentUID, friendUID string) error
	Request(ctx context.Context, senderID, receiverID string) (*models.FriendRequest, error)
	PendingRequestsFor(ctx context.Context, receiverID string) ([]models.FriendRequest, error)
	FriendIDs(ctx context.Context, uid string) ([]string, error)
	Friends(ctx context.Context, uid string) ([]models.User, error)
}

type relationshipStore struct {
	client        docstore.Client
	notifications NotificationStore
	users         UserStore
	log           *zap.Logger
}

// NewRelationshipStore creates a RelationshipStore over the given client.
func NewRelationshipStore(client docstore.Client, notifications NotificationStore, users UserStore, log *zap.Logger) RelationshipStore {
	return &relationshipStore{
		client:        client,
		notifications: notifications,
		users:         users,
		log:           log,
	}
}

// SendFriendRequest writes a pending request under the deterministic
// senderId_receiverId key and creates the companion notification for the
// receiver. Re-sending over an existing pending request overwrites it
// silently; there is no create-if-absent guard. A failed notification write is
// logged and given up on, the request itself stands.
func (s *relationshipStore) SendFriendRequest(ctx context.Context, senderID, receiverID string) error {
	request := &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.FriendRequestPending,
		Timestamp:  time.Now(),
	}
	requestID := models.FriendRequestID(senderID, receiverID)
	if err := s.client.Set(ctx, CollectionFriendRequests, requestID, request.Doc()); err != nil {
		return fmt.Errorf("send friend request %s: %w", requestID, err)
	}

	notification := &models.Notification{
		ReceiverID: receiverID,
		SenderID:   senderID,
		Type:       models.NotificationFriendRequest,
		Status:     models.FriendRequestPending,
		Message:    models.MsgFriendRequestSent,
		IsRead:     false,
	}
	if _, err := s.notifications.Create(ctx, notification); err != nil {
		s.log.Error("friend request notification create failed",
			zap.String("request", requestID), zap.Error(err))
	}
	return nil
}

// AcceptFriendRequest flips the request to accepted, unions each uid into the
// other's friend list and updates the notifications on both sides.
//
// Only the status flip is load-bearing: the follow-up writes are independent,
// non-transactional, and a failure among them is logged without rollback, so a
// partially-accepted state is possible. That asymmetry with RemoveFriend
// (which is transactional) matches the system being reimplemented and is
// deliberate; see DESIGN.md.
func (s *relationshipStore) AcceptFriendRequest(ctx context.Context, receiverID, senderID string) error {
	requestID := models.FriendRequestID(senderID, receiverID)
	doc, err := s.client.Get(ctx, CollectionFriendRequests, requestID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrRequestNotPending
		}
		return fmt.Errorf("get friend request %s: %w", requestID, err)
	}
	if docstore.String(doc, "status") != models.FriendRequestPending {
		return ErrRequestNotPending
	}

	if err := s.client.Update(ctx, CollectionFriendRequests, requestID, docstore.Document{
		"status": models.FriendRequestAccepted,
	}); err != nil {
		return fmt.Errorf("accept friend request %s: %w", requestID, err)
	}

	if err := s.client.ArrayUnion(ctx, CollectionFriends, receiverID, "friends", senderID); err != nil {
		s.log.Error("friend list union failed after accept",
			zap.String("list", receiverID), zap.String("friend", senderID), zap.Error(err))
	}
	if err := s.client.ArrayUnion(ctx, CollectionFriends, senderID, "friends", receiverID); err != nil {
		s.log.Error("friend list union failed after accept",
			zap.String("list", senderID), zap.String("friend", receiverID), zap.Error(err))
	}

	notification := &models.Notification{
		ReceiverID: senderID,
		SenderID:   receiverID,
		Type:       models.NotificationFriendRequest,
		Status:     models.FriendRequestAccepted,
		Message:    models.MsgFriendRequestAccepted,
		IsRead:     false,
	}
	if _, err := s.notifications.Create(ctx, notification); err != nil {
		s.log.Error("accept notification create failed",
			zap.String("request", requestID), zap.Error(err))
	}
	if err := s.notifications.MarkFriendRequestAccepted(ctx, receiverID, senderID); err != nil {
		s.log.Error("original notification rewrite failed",
			zap.String("request", requestID), zap.Error(err))
	}
	return nil
}

// DeleteFriendRequest removes the request for the explicit (sender, receiver)
// pair along with its companion notifications. Callers pick the direction, so
// cancelling an outbound request and declining an inbound one both work.
func (s *relationshipStore) DeleteFriendRequest(ctx context.Context, senderID, receiverID string) error {
	requestID := models.FriendRequestID(senderID, receiverID)
	if err := s.client.Delete(ctx, CollectionFriendRequests, requestID); err != nil {
		return fmt.Errorf("delete friend request %s: %w", requestID, err)
	}
	if err := s.notifications.DeleteFriendRequestNotifications(ctx, receiverID, senderID); err != nil {
		s.log.Error("companion notification delete failed",
			zap.String("request", requestID), zap.Error(err))
	}
	return nil
}

// RemoveFriend drops each uid from the other's friend list inside a single
// transaction: either both lists update or neither does. A friends field that
// is missing or not an array of ids aborts the transaction as a hard failure
// rather than being treated as "already not friends".
func (s *relationshipStore) RemoveFriend(ctx context.Context, currentUID, friendUID string) error {
	err := s.client.RunTransaction(ctx, func(tx docstore.Tx) error {
		currentDoc, err := tx.Get(CollectionFriends, currentUID)
		if err != nil {
			return fmt.Errorf("%w: friends/%s", ErrMalformedFriendList, currentUID)
		}
		friendDoc, err := tx.Get(CollectionFriends, friendUID)
		if err != nil {
			return fmt.Errorf("%w: friends/%s", ErrMalformedFriendList, friendUID)
		}

		currentList, err := docstore.StringsStrict(currentDoc, "friends")
		if err != nil {
			return fmt.Errorf("%w: friends/%s", ErrMalformedFriendList, currentUID)
		}
		friendList, err := docstore.StringsStrict(friendDoc, "friends")
		if err != nil {
			return fmt.Errorf("%w: friends/%s", ErrMalformedFriendList, friendUID)
		}

		currentDoc["friends"] = remove(currentList, friendUID)
		friendDoc["friends"] = remove(friendList, currentUID)

		if err := tx.Set(CollectionFriends, currentUID, currentDoc); err != nil {
			return err
		}
		return tx.Set(CollectionFriends, friendUID, friendDoc)
	})
	if err != nil {
		return fmt.Errorf("remove friend %s/%s: %w", currentUID, friendUID, err)
	}
	return nil
}

// Request fetches the friend request for the ordered (sender, receiver) pair.
func (s *relationshipStore) Request(ctx context.Context, senderID, receiverID string) (*models.FriendRequest, error) {
	requestID := models.FriendRequestID(senderID, receiverID)
	doc, err := s.client.Get(ctx, CollectionFriendRequests, requestID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get friend request %s: %w", requestID, err)
	}
	return models.FriendRequestFromDoc(requestID, doc), nil
}

// PendingRequestsFor lists inbound pending requests, newest first.
func (s *relationshipStore) PendingRequestsFor(ctx context.Context, receiverID string) ([]models.FriendRequest, error) {
	snaps, err := s.client.Query(ctx, CollectionFriendRequests, docstore.Query{
		Filters: []docstore.Filter{
			{Field: "receiverId", Value: receiverID},
			{Field: "status", Value: models.FriendRequestPending},
		},
		OrderBy: "timestamp",
		Desc:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("pending requests for %s: %w", receiverID, err)
	}
	out := make([]models.FriendRequest, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, *models.FriendRequestFromDoc(snap.ID, snap.Data))
	}
	return out, nil
}

// FriendIDs reads friends/{uid}; a missing document means no friends yet.
func (s *relationshipStore) FriendIDs(ctx context.Context, uid string) ([]string, error) {
	doc, err := s.client.Get(ctx, CollectionFriends, uid)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get friend list %s: %w", uid, err)
	}
	return docstore.Strings(doc, "friends"), nil
}

// Friends resolves the friend list into user records with one lookup per uid,
// fanned out concurrently. Result order is unspecified.
func (s *relationshipStore) Friends(ctx context.Context, uid string) ([]models.User, error) {
	ids, err := s.FriendIDs(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.users.UsersByIDs(ctx, ids)
}

func remove(ids []string, uid string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != uid {
			out = append(out, id)
		}
	}
	return out
}
