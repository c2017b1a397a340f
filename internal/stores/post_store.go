package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/explorenow/backend/internal/docstore"
	"github.com/explorenow/backend/internal/models"
	"go.uber.org/zap"
)

// PostStore defines the interface for posts, their locations and the
// like/comment interactions that fan notifications out to the post author.
type PostStore interface {
	CreatePost(ctx context.Context, userID string, req *models.CreatePostRequest) (*models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	GetLocation(ctx context.Context, id string) (*models.Location, error)
	PostsByUser(ctx context.Context, userID string) ([]models.Post, error)
	LikePost(ctx context.Context, userID, postID string) error
	CommentPost(ctx context.Context, userID, postID, text string) (*models.Comment, error)
	Comments(ctx context.Context, postID string) ([]models.Comment, error)
	LikeComment(ctx context.Context, userID, commentID string) error
}

type postStore struct {
	client        docstore.Client
	notifications NotificationStore
	log           *zap.Logger
}

// NewPostStore creates a PostStore over the given client.
func NewPostStore(client docstore.Client, notifications NotificationStore, log *zap.Logger) PostStore {
	return &postStore{client: client, notifications: notifications, log: log}
}

// CreatePost writes the location record first, then the post referencing it.
func (s *postStore) CreatePost(ctx context.Context, userID string, req *models.CreatePostRequest) (*models.Post, error) {
	location := &models.Location{
		Name:      req.LocationName,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	locationID, err := s.client.Add(ctx, CollectionLocations, location.Doc())
	if err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}

	post := &models.Post{
		UserID:     userID,
		LocationID: locationID,
		Caption:    req.Caption,
		ImageURLs:  req.ImageURLs,
		Timestamp:  time.Now(),
	}
	postID, err := s.client.Add(ctx, CollectionPosts, post.Doc())
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.ID = postID
	return post, nil
}

// GetPost retrieves a post by id.
func (s *postStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	doc, err := s.client.Get(ctx, CollectionPosts, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return models.PostFromDoc(id, doc), nil
}

// GetLocation retrieves a location by id.
func (s *postStore) GetLocation(ctx context.Context, id string) (*models.Location, error) {
	doc, err := s.client.Get(ctx, CollectionLocations, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get location %s: %w", id, err)
	}
	return models.LocationFromDoc(id, doc), nil
}

// PostsByUser lists a user's posts, newest first.
func (s *postStore) PostsByUser(ctx context.Context, userID string) ([]models.Post, error) {
	snaps, err := s.client.Query(ctx, CollectionPosts, docstore.Query{
		Filters: []docstore.Filter{{Field: "userId", Value: userID}},
		OrderBy: "timestamp",
		Desc:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("posts by %s: %w", userID, err)
	}
	out := make([]models.Post, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, *models.PostFromDoc(snap.ID, snap.Data))
	}
	return out, nil
}

// LikePost records the like and notifies the post author. Liking your own
// post creates no notification. A failed notification write is logged only.
func (s *postStore) LikePost(ctx context.Context, userID, postID string) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	_, err = s.client.Add(ctx, CollectionLikes, docstore.Document{
		"postId":    postID,
		"userId":    userID,
		"timestamp": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("like post %s: %w", postID, err)
	}

	if post.UserID == userID {
		return nil
	}
	notification := &models.Notification{
		ReceiverID: post.UserID,
		SenderID:   userID,
		Type:       models.NotificationLike,
		Message:    models.MsgPostLiked,
		PostID:     postID,
	}
	if _, err := s.notifications.Create(ctx, notification); err != nil {
		s.log.Error("like notification create failed",
			zap.String("post", postID), zap.Error(err))
	}
	return nil
}

// CommentPost records the comment and notifies the post author, same
// fire-and-forget policy as LikePost.
func (s *postStore) CommentPost(ctx context.Context, userID, postID, text string) (*models.Comment, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:    postID,
		UserID:    userID,
		Text:      text,
		Timestamp: time.Now(),
	}
	commentID, err := s.client.Add(ctx, CollectionComments, comment.Doc())
	if err != nil {
		return nil, fmt.Errorf("comment post %s: %w", postID, err)
	}
	comment.ID = commentID

	if post.UserID != userID {
		notification := &models.Notification{
			ReceiverID: post.UserID,
			SenderID:   userID,
			Type:       models.NotificationComment,
			Message:    models.MsgPostCommented,
			PostID:     postID,
		}
		if _, err := s.notifications.Create(ctx, notification); err != nil {
			s.log.Error("comment notification create failed",
				zap.String("post", postID), zap.Error(err))
		}
	}
	return comment, nil
}

// Comments lists a post's comments, oldest first.
func (s *postStore) Comments(ctx context.Context, postID string) ([]models.Comment, error) {
	snaps, err := s.client.Query(ctx, CollectionComments, docstore.Query{
		Filters: []docstore.Filter{{Field: "postId", Value: postID}},
		OrderBy: "timestamp",
	})
	if err != nil {
		return nil, fmt.Errorf("comments for %s: %w", postID, err)
	}
	out := make([]models.Comment, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, *models.CommentFromDoc(snap.ID, snap.Data))
	}
	return out, nil
}

// LikeComment notifies the comment author about a comment like.
func (s *postStore) LikeComment(ctx context.Context, userID, commentID string) error {
	doc, err := s.client.Get(ctx, CollectionComments, commentID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get comment %s: %w", commentID, err)
	}
	comment := models.CommentFromDoc(commentID, doc)

	if comment.UserID == userID {
		return nil
	}
	notification := &models.Notification{
		ReceiverID: comment.UserID,
		SenderID:   userID,
		Type:       models.NotificationCommentLike,
		Message:    models.MsgCommentLiked,
		PostID:     comment.PostID,
	}
	if _, err := s.notifications.Create(ctx, notification); err != nil {
		s.log.Error("comment like notification create failed",
			zap.String("comment", commentID), zap.Error(err))
	}
	return nil
}
