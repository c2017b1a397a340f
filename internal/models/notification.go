package models

import (
	"time"

	"github.com/explorenow/backend/internal/docstore"
)

// Notification types. The friendRequest type carries a pending→accepted status
// transition; the others are created once and only ever toggle isRead.
const (
	NotificationFriendRequest = "friendRequest"
	NotificationLike          = "Like"
	NotificationComment       = "Comment"
	NotificationCommentLike   = "commentLike"
)

// NamePlaceholder is substituted with the sender's current display name when a
// notification is rendered. The join happens at read time, so sender renames
// retroactively change historical notification text.
const NamePlaceholder = "$NAME"

// Message templates.
const (
	MsgFriendRequestSent     = "$NAME sent you a friend request."
	MsgFriendRequestAccepted = "$NAME accepted your friend request."
	MsgNowFriends            = "You are now friends with $NAME."
	MsgPostLiked             = "$NAME liked your post."
	MsgPostCommented         = "$NAME commented on your post."
	MsgCommentLiked          = "$NAME liked your comment."
)

// Notification is an event record at notifications/{autoId}.
type Notification struct {
	ID         string    `json:"id"`
	ReceiverID string    `json:"receiverId"`
	SenderID   string    `json:"senderId"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	IsRead     bool      `json:"isRead"`
	PostID     string    `json:"post_id,omitempty"`
}

// Doc encodes the notification for the document store.
func (n *Notification) Doc() docstore.Document {
	return docstore.Document{
		"receiverId": n.ReceiverID,
		"senderId":   n.SenderID,
		"type":       n.Type,
		"status":     n.Status,
		"message":    n.Message,
		"timestamp":  n.Timestamp,
		"isRead":     n.IsRead,
		"post_id":    n.PostID,
	}
}

// NotificationFromDoc decodes a notifications document.
func NotificationFromDoc(id string, d docstore.Document) *Notification {
	return &Notification{
		ID:         id,
		ReceiverID: docstore.String(d, "receiverId"),
		SenderID:   docstore.String(d, "senderId"),
		Type:       docstore.String(d, "type"),
		Status:     docstore.String(d, "status"),
		Message:    docstore.String(d, "message"),
		Timestamp:  docstore.Time(d, "timestamp"),
		IsRead:     docstore.Bool(d, "isRead"),
		PostID:     docstore.String(d, "post_id"),
	}
}

// PostPreview is the view-ready materialization of a notification's post
// reference: the post, its location and its author, resolved in that order.
// A notification carries either the whole preview or none of it.
type PostPreview struct {
	Post     *Post     `json:"post"`
	Location *Location `json:"location"`
	Author   *User     `json:"author"`
	ImageURL string    `json:"imageUrl,omitempty"`
}

// EnrichedNotification is the API shape: the raw record plus the resolved
// message text and, when post_id is set and the chain resolved, a preview.
type EnrichedNotification struct {
	Notification
	DisplayMessage string       `json:"displayMessage"`
	Preview        *PostPreview `json:"preview,omitempty"`
}
