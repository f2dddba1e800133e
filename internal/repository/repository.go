// Package repository implements the CRUD rules for users and posts on top of
// a store.Store: required fields, uniqueness, referential checks, cascades and
// cache invalidation. Every mutation runs in exactly one store transaction.
package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"blog_system/internal/domain"
	"blog_system/internal/store"
	"blog_system/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const (
	userEntity = "user"
	postEntity = "post"

	userCacheKeyPrefix = "user:"
	postCacheKeyPrefix = "post:"

	DefaultCacheTTL = 60 * time.Second
	TombstoneHold   = 10 * time.Second // How long an invalidated key refuses fills
)

// Client-facing messages
const (
	msgUserFieldsRequired = "Must include username, email and password fields"
	msgPostFieldsRequired = "Must include title, content and user_id fields"
	msgUsernameTaken      = "Please use a different username"
	msgEmailTaken         = "Please use a different email address"
	msgInvalidEmail       = "Invalid email address"
	msgInvalidUserID      = "Invalid user_id"
)

// cached wraps the read-through cache shared by both repositories. Writes
// invalidate after commit with a tombstone held for hold; reads fill only
// keys that are absent, so a fill racing an invalidation loses.
type cached struct {
	cache utils.Cache
	ttl   time.Duration
	hold  time.Duration
}

func newCached(cache utils.Cache, ttl time.Duration) cached {
	if cache == nil {
		cache = utils.NopCache{}
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return cached{cache: cache, ttl: ttl, hold: min(ttl, TombstoneHold)}
}

func (c cached) load(ctx context.Context, key string, dest any) bool {
	found, err := c.cache.Get(ctx, key, dest)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache read failed")
		return false
	}
	return found
}

func (c cached) save(ctx context.Context, key string, value any) {
	if err := c.cache.Fill(ctx, key, value, c.ttl); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache write failed")
	}
}

func (c cached) invalidate(ctx context.Context, keys ...string) {
	if err := c.cache.Invalidate(ctx, c.hold, keys...); err != nil {
		logrus.WithFields(logrus.Fields{"keys": keys, "error": err.Error()}).Warn("Cache invalidation failed")
	}
}

func userKey(id uint) string { return userCacheKeyPrefix + strconv.FormatUint(uint64(id), 10) }

func postKey(id uint) string { return postCacheKeyPrefix + strconv.FormatUint(uint64(id), 10) }

// updateValidationError turns a validator failure on a partial update into a client message
func updateValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "email" {
			return domain.Validation(msgInvalidEmail)
		}
		return domain.Validation(strings.ToLower(fe.Field()) + " must not be empty")
	}
	return domain.Validation("Invalid request body")
}

// translate converts store errors escaping a transaction into domain errors.
// notFound is the message used when the addressed record does not exist.
func translate(err error, notFound string) error {
	var domainErr *domain.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &domainErr):
		return domainErr
	case errors.Is(err, store.ErrNotFound):
		return domain.NotFound(notFound)
	case errors.Is(err, store.ErrForeignKey):
		return domain.Validation(msgInvalidUserID)
	}
	if field, ok := store.IsDuplicate(err); ok {
		return duplicateConflict(field)
	}
	return domain.Internal("storage failure", err)
}

func duplicateConflict(field store.UserField) error {
	if field == store.FieldEmail {
		return domain.Conflict(msgEmailTaken)
	}
	return domain.Conflict(msgUsernameTaken)
}

// logFailure records faults; client errors are not worth an error line
func logFailure(entity, operation string, err error, fields logrus.Fields) {
	if domain.KindOf(err) != domain.KindInternal {
		return
	}
	entry := logrus.WithFields(fields).WithFields(logrus.Fields{
		"entity":    entity,
		"operation": operation,
		"error":     err.Error(),
	})
	entry.Error("Repository operation failed")
}
