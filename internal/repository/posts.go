package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog_system/internal/domain"
	"blog_system/internal/metrics"
	"blog_system/internal/store"
	"blog_system/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// CreatePostInput carries the fields accepted when creating a post
type CreatePostInput struct {
	Title   string `validate:"required"`
	Content string `validate:"required"`
	UserID  uint   `validate:"required"`
}

// UpdatePostInput is a partial update of title and content
type UpdatePostInput struct {
	Title   *string `validate:"omitnil,min=1"`
	Content *string `validate:"omitnil,min=1"`
}

// PostRepository applies the post lifecycle rules
type PostRepository struct {
	store    store.Store
	cache    cached
	validate *validator.Validate
}

// NewPostRepository builds a PostRepository; a nil cache disables caching
func NewPostRepository(st store.Store, cache utils.Cache, ttl time.Duration) *PostRepository {
	return &PostRepository{store: st, cache: newCached(cache, ttl), validate: validator.New()}
}

func postNotFound(id uint) string { return fmt.Sprintf("Post with id %d not found", id) }

// List returns every post in creation order
func (r *PostRepository) List(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	err := r.store.Read(ctx, func(tx store.Tx) error {
		var err error
		posts, err = tx.ListPosts(ctx)
		return err
	})
	metrics.RecordOperation(postEntity, "list", err)
	if err != nil {
		err = translate(err, "")
		logFailure(postEntity, "list", err, nil)
		return nil, err
	}
	return posts, nil
}

// Get returns one post
func (r *PostRepository) Get(ctx context.Context, id uint) (*domain.Post, error) {
	var post domain.Post
	if r.cache.load(ctx, postKey(id), &post) {
		return &post, nil
	}
	var found *domain.Post
	err := r.store.Read(ctx, func(tx store.Tx) error {
		var err error
		found, err = tx.GetPost(ctx, id)
		return err
	})
	metrics.RecordOperation(postEntity, "get", err)
	if err != nil {
		err = translate(err, postNotFound(id))
		logFailure(postEntity, "get", err, logrus.Fields{"post_id": id})
		return nil, err
	}
	r.cache.save(ctx, postKey(id), found)
	return found, nil
}

// Create inserts a post for an existing user
func (r *PostRepository) Create(ctx context.Context, in CreatePostInput) (*domain.Post, error) {
	if err := r.validate.Struct(in); err != nil {
		return nil, domain.Validation(msgPostFieldsRequired)
	}
	post := &domain.Post{Title: in.Title, Content: in.Content, UserID: in.UserID}
	err := r.store.Transaction(ctx, func(tx store.Tx) error {
		if _, err := tx.GetUser(ctx, in.UserID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Validation(msgInvalidUserID)
			}
			return err
		}
		return tx.CreatePost(ctx, post)
	})
	metrics.RecordOperation(postEntity, "create", err)
	if err != nil {
		err = translate(err, "")
		logFailure(postEntity, "create", err, logrus.Fields{"user_id": in.UserID})
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"post_id": post.ID,
		"user_id": post.UserID,
	}).Info("Post created")
	return post, nil
}

// Update changes title and/or content; the author never changes
func (r *PostRepository) Update(ctx context.Context, id uint, in UpdatePostInput) (*domain.Post, error) {
	if err := r.validate.Struct(in); err != nil {
		return nil, updateValidationError(err)
	}
	var updated *domain.Post
	err := r.store.Transaction(ctx, func(tx store.Tx) error {
		post, err := tx.GetPost(ctx, id)
		if err != nil {
			return err
		}
		if in.Title != nil {
			post.Title = *in.Title
		}
		if in.Content != nil {
			post.Content = *in.Content
		}
		if err := tx.UpdatePost(ctx, post); err != nil {
			return err
		}
		updated = post
		return nil
	})
	metrics.RecordOperation(postEntity, "update", err)
	if err != nil {
		err = translate(err, postNotFound(id))
		logFailure(postEntity, "update", err, logrus.Fields{"post_id": id})
		return nil, err
	}
	r.cache.invalidate(ctx, postKey(id))
	logrus.WithField("post_id", id).Info("Post updated")
	return updated, nil
}

// Delete removes a single post
func (r *PostRepository) Delete(ctx context.Context, id uint) error {
	err := r.store.Transaction(ctx, func(tx store.Tx) error {
		return tx.DeletePost(ctx, id)
	})
	metrics.RecordOperation(postEntity, "delete", err)
	if err != nil {
		err = translate(err, postNotFound(id))
		logFailure(postEntity, "delete", err, logrus.Fields{"post_id": id})
		return err
	}
	r.cache.invalidate(ctx, postKey(id))
	logrus.WithField("post_id", id).Info("Post deleted")
	return nil
}

// Ping checks that the underlying store answers
func (r *PostRepository) Ping(ctx context.Context) error {
	return r.store.Read(ctx, func(tx store.Tx) error { return tx.Ping(ctx) })
}
