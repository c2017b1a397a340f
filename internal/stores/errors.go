package stores

import "errors"

var (
	// ErrNotFound covers absent documents and expected-but-malformed fields.
	ErrNotFound = errors.New("not found")
	// ErrRequestNotPending is returned when accepting a request that is absent
	// or no longer pending.
	ErrRequestNotPending = errors.New("friend request is not pending")
	// ErrMalformedFriendList aborts the unfriend transaction when a friends
	// field is missing or not an array of ids.
	ErrMalformedFriendList = errors.New("friend list document is malformed")
	// ErrUsernameTaken is returned by signup when the username already exists.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrEmailTaken is returned by signup when the email already exists.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrBlocked refuses interaction between users in a block relation.
	ErrBlocked = errors.New("interaction blocked between these users")
)
