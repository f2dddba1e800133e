package store

import (
	"context" // Request-scoped operations
	"errors"  // Error inspection
	"strings" // Constraint name matching

	"blog_system/internal/domain" // Domain models

	"github.com/go-sql-driver/mysql" // MySQL error codes
	"github.com/jackc/pgx/v5/pgconn" // PostgreSQL error codes
	"gorm.io/gorm"                   // GORM ORM library
)

const (
	mysqlDuplicateEntry = 1062    // ER_DUP_ENTRY
	mysqlNoReferenced   = 1452    // ER_NO_REFERENCED_ROW_2
	pgUniqueViolation   = "23505" // unique_violation
	pgForeignKey        = "23503" // foreign_key_violation
)

// GormStore persists users and posts through GORM
type GormStore struct {
	db *gorm.DB // Root handle, or the open transaction inside Transaction
}

// NewGormStore wraps an open GORM connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Read runs fn without opening a transaction
func (s *GormStore) Read(ctx context.Context, fn func(tx Tx) error) error {
	return fn(&GormStore{db: s.db.WithContext(ctx)})
}

// Transaction runs fn inside a database transaction
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx}) // Returning an error rolls back
	})
}

// ListUsers returns every user in id order
func (s *GormStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.db.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns the user with id or ErrNotFound
func (s *GormStore) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindUser returns the user whose field equals value or ErrNotFound
func (s *GormStore) FindUser(ctx context.Context, field UserField, value string) (*domain.User, error) {
	var user domain.User
	// Column name comes from the closed UserField set, never from input
	if err := s.db.WithContext(ctx).Where(string(field)+" = ?", value).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// CreateUser inserts user and assigns its id and creation time
func (s *GormStore) CreateUser(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = domain.Now() // autoCreateTime would keep nanoseconds the column drops
	}
	return translate(s.db.WithContext(ctx).Omit("Posts").Create(user).Error)
}

// UpdateUser writes username, email, password hash and admin flag
func (s *GormStore) UpdateUser(ctx context.Context, user *domain.User) error {
	res := s.db.WithContext(ctx).Model(user).
		Select("username", "email", "password_hash", "is_admin").
		Updates(user)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return s.exists(ctx, &domain.User{}, user.ID) // MySQL reports 0 rows for no-op updates
	}
	return nil
}

// DeleteUser removes the user with id or returns ErrNotFound
func (s *GormStore) DeleteUser(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.User{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPosts returns every post in id order
func (s *GormStore) ListPosts(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	if err := s.db.WithContext(ctx).Order("id asc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPostsByUser returns the posts owned by userID in id order
func (s *GormStore) ListPostsByUser(ctx context.Context, userID uint) ([]domain.Post, error) {
	var posts []domain.Post
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id asc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost returns the post with id or ErrNotFound
func (s *GormStore) GetPost(ctx context.Context, id uint) (*domain.Post, error) {
	var post domain.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// CreatePost inserts post and assigns its id and creation time
func (s *GormStore) CreatePost(ctx context.Context, post *domain.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = domain.Now()
	}
	return translate(s.db.WithContext(ctx).Create(post).Error)
}

// UpdatePost writes title and content
func (s *GormStore) UpdatePost(ctx context.Context, post *domain.Post) error {
	res := s.db.WithContext(ctx).Model(post).Select("title", "content").Updates(post)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return s.exists(ctx, &domain.Post{}, post.ID)
	}
	return nil
}

// DeletePost removes the post with id or returns ErrNotFound
func (s *GormStore) DeletePost(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Post{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePostsByUser removes every post owned by userID and reports how many
func (s *GormStore) DeletePostsByUser(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Post{})
	return res.RowsAffected, translate(res.Error)
}

// Ping checks that the backing storage answers
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) exists(ctx context.Context, model any, id uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// translate maps driver errors onto the store's error values
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return &DuplicateError{Field: duplicateField(myErr.Message), Err: err}
		case mysqlNoReferenced:
			return ErrForeignKey
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &DuplicateError{Field: duplicateField(pgErr.ConstraintName), Err: err}
		case pgForeignKey:
			return ErrForeignKey
		}
	}
	// SQLite reports constraints only through the message text
	switch msg := err.Error(); {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return &DuplicateError{Field: duplicateField(msg), Err: err}
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ErrForeignKey
	}
	return err
}

// duplicateField picks the violated column out of an index name or driver message
func duplicateField(detail string) UserField {
	if strings.Contains(detail, "idx_users_email") || strings.Contains(detail, "users.email") {
		return FieldEmail
	}
	return FieldUsername
}
