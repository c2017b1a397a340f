package models

import "github.com/explorenow/backend/internal/docstore"

// Settings is the per-user settings document at settings/{uid}.
type Settings struct {
	UID    string `json:"uid"`
	Public bool   `json:"public"`
}

func (s *Settings) Doc() docstore.Document {
	return docstore.Document{"public": s.Public}
}

func SettingsFromDoc(uid string, d docstore.Document) *Settings {
	return &Settings{
		UID:    uid,
		Public: docstore.Bool(d, "public"),
	}
}

// UpdateSettingsRequest defines the request body for settings updates
type UpdateSettingsRequest struct {
	Public *bool `json:"public" validate:"required"`
}
