package stores

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/explorenow/backend/internal/docstore"
	"github.com/explorenow/backend/internal/models"
	"go.uber.org/zap"
)

// UserStore defines the interface for user and settings operations
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameAvailable(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, uid string, req *models.UpdateProfileRequest) error
	UsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	Settings(ctx context.Context, uid string) (*models.Settings, error)
	UpdateSettings(ctx context.Context, uid string, public bool) error
}

type userStore struct {
	client docstore.Client
	log    *zap.Logger
}

// NewUserStore creates a UserStore over the given document store client.
func NewUserStore(client docstore.Client, log *zap.Logger) UserStore {
	return &userStore{client: client, log: log}
}

// CreateUser writes the identity record at users/{uid}.
func (s *userStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.client.Set(ctx, CollectionUsers, user.UID, user.Doc()); err != nil {
		return fmt.Errorf("create user %s: %w", user.UID, err)
	}
	return nil
}

// GetUser retrieves a user by uid.
func (s *userStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	doc, err := s.client.Get(ctx, CollectionUsers, uid)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", uid, err)
	}
	return models.UserFromDoc(uid, doc), nil
}

// GetUserByEmail retrieves a user by email, exact match.
func (s *userStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "email", email)
}

// GetUserByUsername retrieves a user by username. The match is case-sensitive
// and exact; "Alice" and "alice" are different usernames.
func (s *userStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, "username", username)
}

// UsernameAvailable reports whether no user document carries the username.
func (s *userStore) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	_, err := s.GetUserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// UpdateProfile merges the provided profile fields, leaving the rest intact.
func (s *userStore) UpdateProfile(ctx context.Context, uid string, req *models.UpdateProfileRequest) error {
	fields := docstore.Document{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Bio != "" {
		fields["bio"] = req.Bio
	}
	if req.ProfileImageURL != "" {
		fields["profileImageUrl"] = req.ProfileImageURL
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.client.Update(ctx, CollectionUsers, uid, fields); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update profile %s: %w", uid, err)
	}
	return nil
}

// UsersByIDs fans out one lookup per uid and joins once all complete. Lookups
// are independent; a failed one is logged and skipped, and the result order is
// unspecified.
func (s *userStore) UsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		users []models.User
	)
	for _, id := range ids {
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			user, err := s.GetUser(ctx, uid)
			if err != nil {
				s.log.Warn("user lookup failed during fan-out",
					zap.String("uid", uid), zap.Error(err))
				return
			}
			mu.Lock()
			users = append(users, *user)
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return users, nil
}

// Settings retrieves settings/{uid}; a missing document means defaults.
func (s *userStore) Settings(ctx context.Context, uid string) (*models.Settings, error) {
	doc, err := s.client.Get(ctx, CollectionSettings, uid)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return &models.Settings{UID: uid}, nil
		}
		return nil, fmt.Errorf("get settings %s: %w", uid, err)
	}
	return models.SettingsFromDoc(uid, doc), nil
}

// UpdateSettings merges the public flag into settings/{uid}.
func (s *userStore) UpdateSettings(ctx context.Context, uid string, public bool) error {
	if err := s.client.Merge(ctx, CollectionSettings, uid, docstore.Document{"public": public}); err != nil {
		return fmt.Errorf("update settings %s: %w", uid, err)
	}
	return nil
}

func (s *userStore) findOne(ctx context.Context, field, value string) (*models.User, error) {
	snaps, err := s.client.Query(ctx, CollectionUsers, docstore.Query{
		Filters: []docstore.Filter{{Field: field, Value: value}},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("query users by %s: %w", field, err)
	}
	if len(snaps) == 0 {
		return nil, ErrNotFound
	}
	return models.UserFromDoc(snaps[0].ID, snaps[0].Data), nil
}
