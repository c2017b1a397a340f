package models

import (
	"time"

	"github.com/explorenow/backend/internal/docstore"
)

// Message is a direct message at messages/{autoId}. Delivery is refused in
// either direction of a block relation.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	IsRead     bool      `json:"isRead"`
}

func (m *Message) Doc() docstore.Document {
	return docstore.Document{
		"senderId":   m.SenderID,
		"receiverId": m.ReceiverID,
		"text":       m.Text,
		"timestamp":  m.Timestamp,
		"isRead":     m.IsRead,
	}
}

func MessageFromDoc(id string, d docstore.Document) *Message {
	return &Message{
		ID:         id,
		SenderID:   docstore.String(d, "senderId"),
		ReceiverID: docstore.String(d, "receiverId"),
		Text:       docstore.String(d, "text"),
		Timestamp:  docstore.Time(d, "timestamp"),
		IsRead:     docstore.Bool(d, "isRead"),
	}
}

// SendMessageRequest defines the request body for sending a direct message
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Text       string `json:"text" validate:"required,max=2000"`
}
