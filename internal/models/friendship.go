package models

import (
	"time"

	"github.com/explorenow/backend/internal/docstore"
)

const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
)

// FriendRequest represents a relationship offer stored at
// friendRequests/{senderId_receiverId}. The key is directional: the reverse
// request has a different key.
type FriendRequest struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// FriendRequestID builds the deterministic composite key for an ordered
// (sender, receiver) pair.
func FriendRequestID(senderID, receiverID string) string {
	return senderID + "_" + receiverID
}

// Doc encodes the request for the document store.
func (r *FriendRequest) Doc() docstore.Document {
	return docstore.Document{
		"senderId":   r.SenderID,
		"receiverId": r.ReceiverID,
		"status":     r.Status,
		"timestamp":  r.Timestamp,
	}
}

// FriendRequestFromDoc decodes a friendRequests document.
func FriendRequestFromDoc(id string, d docstore.Document) *FriendRequest {
	return &FriendRequest{
		ID:         id,
		SenderID:   docstore.String(d, "senderId"),
		ReceiverID: docstore.String(d, "receiverId"),
		Status:     docstore.String(d, "status"),
		Timestamp:  docstore.Time(d, "timestamp"),
	}
}

// CreateFriendRequest defines the request body for sending a friend request
type CreateFriendRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
}
