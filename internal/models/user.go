package models

import (
	"github.com/explorenow/backend/internal/docstore"
	"github.com/golang-jwt/jwt/v4"
)

// User is the identity record stored at users/{uid}. The uid is issued by the
// authentication provider and never changes.
type User struct {
	UID             string `json:"uid"`
	Name            string `json:"name"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Bio             string `json:"bio"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	PasswordHash    string `json:"-"` // set only for local email/password accounts
}

// Doc encodes the user for the document store.
func (u *User) Doc() docstore.Document {
	doc := docstore.Document{
		"uid":             u.UID,
		"name":            u.Name,
		"username":        u.Username,
		"email":           u.Email,
		"bio":             u.Bio,
		"profileImageUrl": u.ProfileImageURL,
	}
	if u.PasswordHash != "" {
		doc["passwordHash"] = u.PasswordHash
	}
	return doc
}

// UserFromDoc decodes a users/{uid} document.
func UserFromDoc(uid string, d docstore.Document) *User {
	return &User{
		UID:             uid,
		Name:            docstore.String(d, "name"),
		Username:        docstore.String(d, "username"),
		Email:           docstore.String(d, "email"),
		Bio:             docstore.String(d, "bio"),
		ProfileImageURL: docstore.String(d, "profileImageUrl"),
		PasswordHash:    docstore.String(d, "passwordHash"),
	}
}

// DisplayName is the read-time rendering used in notification messages.
func (u *User) DisplayName() string {
	return u.Name + " (@" + u.Username + ")"
}

// SignupRequest defines the request body for local email/password signup
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Bio      string `json:"bio" validate:"max=160"`
}

// SigninRequest defines the request body for local email/password signin
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest defines the request body for registering a profile for an
// already-authenticated Firebase account
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Bio      string `json:"bio" validate:"max=160"`
}

// UpdateProfileRequest defines the request body for profile updates
type UpdateProfileRequest struct {
	Name            string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Bio             string `json:"bio,omitempty" validate:"omitempty,max=160"`
	ProfileImageURL string `json:"profileImageUrl,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}
