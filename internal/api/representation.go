package api

import (
	"fmt"  // Path formatting
	"time" // Timestamps

	"blog_system/internal/domain" // Domain models
)

// APIPrefix is the mount point of the REST API
const APIPrefix = "/api/v1"

const timestampLayout = "2006-01-02T15:04:05.000000Z" // UTC with microseconds

func usersURL() string { return APIPrefix + "/users" }

func userURL(id uint) string { return fmt.Sprintf("%s/users/%d", APIPrefix, id) }

func postsURL() string { return APIPrefix + "/posts" }

func postURL(id uint) string { return fmt.Sprintf("%s/posts/%d", APIPrefix, id) }

func formatTimestamp(t time.Time) string { return t.UTC().Format(timestampLayout) }

// UserLinks are the hyperlinks embedded in a user representation
type UserLinks struct {
	Self  string `json:"self"`            // Canonical GET path
	Users string `json:"users,omitempty"` // Collection, single-get only
}

// UserResponse is the public shape of a user; the password hash is never included
type UserResponse struct {
	ID        uint      `json:"id"`         // User ID
	Username  string    `json:"username"`   // Username
	Email     string    `json:"email"`      // Email
	CreatedAt string    `json:"created_at"` // Creation time
	Links     UserLinks `json:"_links"`     // Hyperlinks
}

func newUserResponse(u *domain.User, withCollection bool) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: formatTimestamp(u.CreatedAt),
		Links:     UserLinks{Self: userURL(u.ID)},
	}
	if withCollection {
		resp.Links.Users = usersURL()
	}
	return resp
}

// PostLinks are the hyperlinks embedded in a post representation
type PostLinks struct {
	Self   string `json:"self"`            // Canonical GET path
	Author string `json:"author"`          // Owning user
	Posts  string `json:"posts,omitempty"` // Collection, single-get only
}

// PostResponse is the public shape of a post
type PostResponse struct {
	ID        uint      `json:"id"`         // Post ID
	Title     string    `json:"title"`      // Title
	Content   string    `json:"content"`    // Body
	CreatedAt string    `json:"created_at"` // Creation time
	UserID    uint      `json:"user_id"`    // Author ID
	Links     PostLinks `json:"_links"`     // Hyperlinks
}

func newPostResponse(p *domain.Post, withCollection bool) PostResponse {
	resp := PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: formatTimestamp(p.CreatedAt),
		UserID:    p.UserID,
		Links:     PostLinks{Self: postURL(p.ID), Author: userURL(p.UserID)},
	}
	if withCollection {
		resp.Links.Posts = postsURL()
	}
	return resp
}
