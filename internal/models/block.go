package models

import "github.com/explorenow/backend/internal/docstore"

// BlockList is the per-user block record at blocks/{uid}. Both directions are
// materialized so reads never need the other side's document:
// uid ∈ BlockedUserIDs(A) ⇔ A ∈ BlockedByIDs(uid).
type BlockList struct {
	UID            string   `json:"uid"`
	BlockedUserIDs []string `json:"blockedUserIds"`
	BlockedByIDs   []string `json:"blockedByIds"`
}

// BlockListFromDoc decodes a blocks/{uid} document. A missing document decodes
// to an empty list, which is how "never blocked anyone" is stored.
func BlockListFromDoc(uid string, d docstore.Document) *BlockList {
	return &BlockList{
		UID:            uid,
		BlockedUserIDs: docstore.Strings(d, "blockedUserIds"),
		BlockedByIDs:   docstore.Strings(d, "blockedByIds"),
	}
}

// Contains reports whether uid is in the given id set.
func Contains(ids []string, uid string) bool {
	for _, id := range ids {
		if id == uid {
			return true
		}
	}
	return false
}

// BlockUserRequest defines the request body for block/unblock actions
type BlockUserRequest struct {
	UserID string `json:"userId" validate:"required"`
}
