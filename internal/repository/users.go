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

// CreateUserInput carries the fields accepted when registering a user
type CreateUserInput struct {
	Username string `validate:"required"`
	Email    string `validate:"required"`
	Password string `validate:"required"`
	IsAdmin  bool
}

// UpdateUserInput is a partial update; nil fields are left unchanged
type UpdateUserInput struct {
	Username *string `validate:"omitnil,min=1"`
	Email    *string `validate:"omitnil,min=1,email"`
	Password *string `validate:"omitnil,min=1"`
}

// UserRepository applies the user lifecycle rules
type UserRepository struct {
	store    store.Store
	cache    cached
	validate *validator.Validate
}

// NewUserRepository builds a UserRepository; a nil cache disables caching
func NewUserRepository(st store.Store, cache utils.Cache, ttl time.Duration) *UserRepository {
	return &UserRepository{store: st, cache: newCached(cache, ttl), validate: validator.New()}
}

func userNotFound(id uint) string { return fmt.Sprintf("User with id %d not found", id) }

// List returns every user in creation order
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.store.Read(ctx, func(tx store.Tx) error {
		var err error
		users, err = tx.ListUsers(ctx)
		return err
	})
	metrics.RecordOperation(userEntity, "list", err)
	if err != nil {
		err = translate(err, "")
		logFailure(userEntity, "list", err, nil)
		return nil, err
	}
	return users, nil
}

// Get returns one user. Cached copies carry no password hash, so callers
// that verify credentials must use FindByUsername.
func (r *UserRepository) Get(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if r.cache.load(ctx, userKey(id), &user) {
		return &user, nil
	}
	var found *domain.User
	err := r.store.Read(ctx, func(tx store.Tx) error {
		var err error
		found, err = tx.GetUser(ctx, id)
		return err
	})
	metrics.RecordOperation(userEntity, "get", err)
	if err != nil {
		err = translate(err, userNotFound(id))
		logFailure(userEntity, "get", err, logrus.Fields{"user_id": id})
		return nil, err
	}
	r.cache.save(ctx, userKey(id), found)
	return found, nil
}

// FindByUsername looks a user up by username, bypassing the cache
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var found *domain.User
	err := r.store.Read(ctx, func(tx store.Tx) error {
		var err error
		found, err = tx.FindUser(ctx, store.FieldUsername, username)
		return err
	})
	if err != nil {
		err = translate(err, fmt.Sprintf("User %q not found", username))
		logFailure(userEntity, "find", err, nil)
		return nil, err
	}
	return found, nil
}

// Create validates and inserts a new user with a hashed password
func (r *UserRepository) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if err := r.validate.Struct(in); err != nil {
		return nil, domain.Validation(msgUserFieldsRequired)
	}
	if err := r.validate.Var(in.Email, "email"); err != nil {
		return nil, domain.Validation(msgInvalidEmail)
	}
	user := &domain.User{Username: in.Username, Email: in.Email, IsAdmin: in.IsAdmin}
	if err := user.SetPassword(in.Password); err != nil { // Hash outside the transaction
		return nil, err
	}
	err := r.store.Transaction(ctx, func(tx store.Tx) error {
		if err := ensureUnique(ctx, tx, user); err != nil {
			return err
		}
		return tx.CreateUser(ctx, user)
	})
	metrics.RecordOperation(userEntity, "create", err)
	if err != nil {
		err = translate(err, "")
		logFailure(userEntity, "create", err, logrus.Fields{"username": in.Username})
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"is_admin": user.IsAdmin,
	}).Info("User created")
	return user, nil
}

// Update changes only the fields present in the input. Username and email
// are checked for uniqueness against other users; keeping one's own value is fine.
func (r *UserRepository) Update(ctx context.Context, id uint, in UpdateUserInput) (*domain.User, error) {
	if err := r.validate.Struct(in); err != nil {
		return nil, updateValidationError(err)
	}
	var newHash string
	if in.Password != nil {
		var scratch domain.User
		if err := scratch.SetPassword(*in.Password); err != nil {
			return nil, err
		}
		newHash = scratch.PasswordHash
	}
	var updated *domain.User
	err := r.store.Transaction(ctx, func(tx store.Tx) error {
		user, err := tx.GetUser(ctx, id)
		if err != nil {
			return err
		}
		if in.Username != nil {
			user.Username = *in.Username
		}
		if in.Email != nil {
			user.Email = *in.Email
		}
		if newHash != "" {
			user.PasswordHash = newHash
		}
		if err := ensureUnique(ctx, tx, user); err != nil {
			return err
		}
		if err := tx.UpdateUser(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	metrics.RecordOperation(userEntity, "update", err)
	if err != nil {
		err = translate(err, userNotFound(id))
		logFailure(userEntity, "update", err, logrus.Fields{"user_id": id})
		return nil, err
	}
	r.cache.invalidate(ctx, userKey(id))
	logrus.WithFields(logrus.Fields{
		"user_id":          id,
		"password_changed": in.Password != nil,
	}).Info("User updated")
	return updated, nil
}

// Delete removes a user and every post the user owns in one transaction
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	var removed []domain.Post
	err := r.store.Transaction(ctx, func(tx store.Tx) error {
		if _, err := tx.GetUser(ctx, id); err != nil {
			return err
		}
		posts, err := tx.ListPostsByUser(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.DeletePostsByUser(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteUser(ctx, id); err != nil {
			return err
		}
		removed = posts
		return nil
	})
	metrics.RecordOperation(userEntity, "delete", err)
	if err != nil {
		err = translate(err, userNotFound(id))
		logFailure(userEntity, "delete", err, logrus.Fields{"user_id": id})
		return err
	}
	keys := []string{userKey(id)}
	for _, p := range removed {
		keys = append(keys, postKey(p.ID))
	}
	r.cache.invalidate(ctx, keys...)
	logrus.WithFields(logrus.Fields{
		"user_id":       id,
		"posts_removed": len(removed),
	}).Info("User deleted")
	return nil
}

// ensureUnique checks username and email against every other user. The store's
// unique indexes remain the final guard against concurrent writers.
func ensureUnique(ctx context.Context, tx store.Tx, user *domain.User) error {
	for _, field := range []store.UserField{store.FieldUsername, store.FieldEmail} {
		value := user.Username
		if field == store.FieldEmail {
			value = user.Email
		}
		existing, err := tx.FindUser(ctx, field, value)
		switch {
		case errors.Is(err, store.ErrNotFound):
			continue
		case err != nil:
			return err
		case existing.ID != user.ID:
			return duplicateConflict(field)
		}
	}
	return nil
}
