package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/explorenow/backend/internal/docstore"
	"github.com/explorenow/backend/internal/models"
	"go.uber.org/zap"
)

// BlockStore defines the interface for block list operations
type BlockStore interface {
	Block(ctx context.Context, blockerID, blockedID string) error
	Unblock(ctx context.Context, blockerID, blockedID string) error
	IsBlocked(ctx context.Context, uid, otherID string) (bool, error)
	IsBlockedBy(ctx context.Context, uid, otherID string) (bool, error)
	BlockList(ctx context.Context, uid string) (*models.BlockList, error)
}

type blockStore struct {
	client docstore.Client
	log    *zap.Logger
}

// NewBlockStore creates a BlockStore over the given document store client.
func NewBlockStore(client docstore.Client, log *zap.Logger) BlockStore {
	return &blockStore{client: client, log: log}
}

// Block records the relation on both sides as a set union. The two writes are
// independent and use merge semantics; a crash in between leaves a
// non-symmetric relation, which reads tolerate by checking both directions.
// Idempotent: blocking an already-blocked user is a no-op success.
func (s *blockStore) Block(ctx context.Context, blockerID, blockedID string) error {
	if err := s.client.ArrayUnion(ctx, CollectionBlocks, blockerID, "blockedUserIds", blockedID); err != nil {
		return fmt.Errorf("block %s -> %s: %w", blockerID, blockedID, err)
	}
	if err := s.client.ArrayUnion(ctx, CollectionBlocks, blockedID, "blockedByIds", blockerID); err != nil {
		s.log.Error("block reverse-side write failed, relation left one-sided",
			zap.String("blocker", blockerID), zap.String("blocked", blockedID), zap.Error(err))
		return fmt.Errorf("block %s -> %s: %w", blockerID, blockedID, err)
	}
	return nil
}

// Unblock removes the relation on both sides as a set difference. Unblocking a
// non-blocked user is a no-op success.
func (s *blockStore) Unblock(ctx context.Context, blockerID, blockedID string) error {
	if err := s.client.ArrayRemove(ctx, CollectionBlocks, blockerID, "blockedUserIds", blockedID); err != nil {
		return fmt.Errorf("unblock %s -> %s: %w", blockerID, blockedID, err)
	}
	if err := s.client.ArrayRemove(ctx, CollectionBlocks, blockedID, "blockedByIds", blockerID); err != nil {
		s.log.Error("unblock reverse-side write failed, relation left one-sided",
			zap.String("blocker", blockerID), zap.String("blocked", blockedID), zap.Error(err))
		return fmt.Errorf("unblock %s -> %s: %w", blockerID, blockedID, err)
	}
	return nil
}

// IsBlocked reports whether uid has blocked otherID.
func (s *blockStore) IsBlocked(ctx context.Context, uid, otherID string) (bool, error) {
	list, err := s.BlockList(ctx, uid)
	if err != nil {
		return false, err
	}
	return models.Contains(list.BlockedUserIDs, otherID), nil
}

// IsBlockedBy reports whether uid is blocked by otherID.
func (s *blockStore) IsBlockedBy(ctx context.Context, uid, otherID string) (bool, error) {
	list, err := s.BlockList(ctx, uid)
	if err != nil {
		return false, err
	}
	return models.Contains(list.BlockedByIDs, otherID), nil
}

// BlockList fetches blocks/{uid}; a missing document is an empty list.
func (s *blockStore) BlockList(ctx context.Context, uid string) (*models.BlockList, error) {
	doc, err := s.client.Get(ctx, CollectionBlocks, uid)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return &models.BlockList{UID: uid}, nil
		}
		return nil, fmt.Errorf("get block list %s: %w", uid, err)
	}
	return models.BlockListFromDoc(uid, doc), nil
}
