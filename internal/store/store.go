// Package store is the persistence collaborator behind the repositories.
// Implementations own identity generation and are the authoritative guard
// for uniqueness and referential integrity.
package store

import (
	"context"
	"errors"
	"fmt"

	"blog_system/internal/domain"
)

var (
	// ErrNotFound is returned by lookups that match no row
	ErrNotFound = errors.New("store: record not found")
	// ErrForeignKey is returned when a post references a user that does not exist
	ErrForeignKey = errors.New("store: referenced user does not exist")
	// ErrReadOnly is returned by writes attempted inside Read
	ErrReadOnly = errors.New("store: write attempted in read-only view")
)

// UserField names a user column that supports filter-by-field lookups
type UserField string

const (
	FieldUsername UserField = "username"
	FieldEmail    UserField = "email"
)

// DuplicateError reports a unique constraint violation on Field
type DuplicateError struct {
	Field UserField
	Err   error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("store: duplicate %s", e.Field)
}

func (e *DuplicateError) Unwrap() error { return e.Err }

// IsDuplicate reports whether err is a unique violation and on which field
func IsDuplicate(err error) (UserField, bool) {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup.Field, true
	}
	return "", false
}

// Tx is the set of operations available inside Read and Transaction.
type Tx interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id uint) (*domain.User, error)
	FindUser(ctx context.Context, field UserField, value string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id uint) error

	ListPosts(ctx context.Context) ([]domain.Post, error)
	ListPostsByUser(ctx context.Context, userID uint) ([]domain.Post, error)
	GetPost(ctx context.Context, id uint) (*domain.Post, error)
	CreatePost(ctx context.Context, post *domain.Post) error
	UpdatePost(ctx context.Context, post *domain.Post) error
	DeletePost(ctx context.Context, id uint) error
	DeletePostsByUser(ctx context.Context, userID uint) (int64, error)

	Ping(ctx context.Context) error
}

// Store runs fn against a consistent view of the data. Transaction commits
// only when fn returns nil; any error rolls back every write made through tx.
type Store interface {
	Read(ctx context.Context, fn func(tx Tx) error) error
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}
