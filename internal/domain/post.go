package domain

import "time" // Timestamps

// Post Model
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                         // Primary key
	Title     string    `gorm:"size:140;not null" json:"title"`               // Post title
	Content   string    `gorm:"type:text;not null" json:"content"`            // Post body
	UserID    uint      `gorm:"index;not null" json:"user_id"`                // Foreign key to User
	CreatedAt time.Time `gorm:"autoCreateTime;precision:6" json:"created_at"` // Creation time
}
