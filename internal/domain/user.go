package domain

import (
	"errors" // Error inspection
	"time"   // Timestamps

	"golang.org/x/crypto/bcrypt" // Password hashing
)

// PasswordCost is the bcrypt cost used by SetPassword
var PasswordCost = bcrypt.DefaultCost

// Now is the creation timestamp stores assign, cut to the microseconds every
// supported database keeps, so a created record and its reread agree.
func Now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                                            // Primary key
	Username     string    `gorm:"uniqueIndex:idx_users_username;size:64;not null" json:"username"` // Unique username
	Email        string    `gorm:"uniqueIndex:idx_users_email;size:120;not null" json:"email"`      // Unique email
	PasswordHash string    `gorm:"size:128;not null" json:"-"`                                      // Hashed password, never serialized
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`                          // Admin flag
	CreatedAt    time.Time `gorm:"autoCreateTime;precision:6" json:"created_at"`                    // Creation time
	Posts        []Post    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`          // One-to-many relationship with Post
}

// SetPassword hashes plaintext with a fresh salt and stores the hash on the user
func (u *User) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), PasswordCost) // Salted hash
	if err != nil {
		return Internal("failed to hash password", err) // Hashing failure is an internal fault
	}
	u.PasswordHash = string(hash) // Only the hash is kept
	return nil
}

// VerifyPassword reports whether plaintext matches the stored hash.
// A stored hash bcrypt cannot parse is an integrity fault and is returned as an error.
func (u *User) VerifyPassword(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) // Constant-time compare
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil // Wrong password
	}
	return false, Internal("stored password hash is malformed", err)
}

// CheckPassword is VerifyPassword without the integrity error
func (u *User) CheckPassword(plaintext string) bool {
	ok, err := u.VerifyPassword(plaintext)
	return err == nil && ok
}
