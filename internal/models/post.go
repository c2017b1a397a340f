package models

import (
	"time"

	"github.com/explorenow/backend/internal/docstore"
)

// Post is a location-tagged photo post at posts/{autoId}.
type Post struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	LocationID string    `json:"locationId"`
	Caption    string    `json:"caption"`
	ImageURLs  []string  `json:"imageUrls"`
	Timestamp  time.Time `json:"timestamp"`
}

func (p *Post) Doc() docstore.Document {
	return docstore.Document{
		"userId":     p.UserID,
		"locationId": p.LocationID,
		"caption":    p.Caption,
		"imageUrls":  p.ImageURLs,
		"timestamp":  p.Timestamp,
	}
}

func PostFromDoc(id string, d docstore.Document) *Post {
	return &Post{
		ID:         id,
		UserID:     docstore.String(d, "userId"),
		LocationID: docstore.String(d, "locationId"),
		Caption:    docstore.String(d, "caption"),
		ImageURLs:  docstore.Strings(d, "imageUrls"),
		Timestamp:  docstore.Time(d, "timestamp"),
	}
}

// Location is a place record at locations/{autoId}.
type Location struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l *Location) Doc() docstore.Document {
	return docstore.Document{
		"name":      l.Name,
		"latitude":  l.Latitude,
		"longitude": l.Longitude,
	}
}

func LocationFromDoc(id string, d docstore.Document) *Location {
	return &Location{
		ID:        id,
		Name:      docstore.String(d, "name"),
		Latitude:  docstore.Float(d, "latitude"),
		Longitude: docstore.Float(d, "longitude"),
	}
}

// Comment is a post comment at comments/{autoId}.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *Comment) Doc() docstore.Document {
	return docstore.Document{
		"postId":    c.PostID,
		"userId":    c.UserID,
		"text":      c.Text,
		"timestamp": c.Timestamp,
	}
}

func CommentFromDoc(id string, d docstore.Document) *Comment {
	return &Comment{
		ID:        id,
		PostID:    docstore.String(d, "postId"),
		UserID:    docstore.String(d, "userId"),
		Text:      docstore.String(d, "text"),
		Timestamp: docstore.Time(d, "timestamp"),
	}
}

// CreatePostRequest defines the request body for creating a post
type CreatePostRequest struct {
	Caption      string   `json:"caption" validate:"max=2200"`
	ImageURLs    []string `json:"imageUrls" validate:"required,min=1,dive,url"`
	LocationName string   `json:"locationName" validate:"required"`
	Latitude     float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude    float64  `json:"longitude" validate:"min=-180,max=180"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}
