package api

import (
	"net/http" // HTTP status codes

	"blog_system/internal/domain"     // Domain errors
	"blog_system/internal/httperror"  // JSON error responses
	"blog_system/internal/middleware" // Principal access
	"blog_system/internal/repository" // Post lifecycle

	"github.com/gin-gonic/gin" // Gin web framework
)

// CreatePostRequest is the body of POST /posts
type CreatePostRequest struct {
	Title   string `json:"title"`   // Required
	Content string `json:"content"` // Required
	UserID  uint   `json:"user_id"` // Required, must reference an existing user
}

// UpdatePostRequest is the body of PUT /posts/{id}; only title and content can change
type UpdatePostRequest struct {
	Title   *string `json:"title"`   // New title
	Content *string `json:"content"` // New content
}

// ListPostsHandler returns all posts; the route is public
func ListPostsHandler(posts *repository.PostRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := posts.List(c.Request.Context())
		if err != nil {
			httperror.FromError(c, err)
			return
		}
		resp := make([]PostResponse, len(list))
		for i := range list {
			resp[i] = newPostResponse(&list[i], false)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetPostHandler returns one post; the route is public
func GetPostHandler(posts *repository.PostRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "Post")
		if err != nil {
			httperror.FromError(c, err)
			return
		}
		post, err := posts.Get(c.Request.Context(), id)
		if err != nil {
			httperror.FromError(c, err)
			return
		}
		c.JSON(http.StatusOK, newPostResponse(post, true))
	}
}

// CreatePostHandler creates a post. With enforceOwnership only admins may
// post on behalf of another user.
func CreatePostHandler(posts *repository.PostRepository, enforceOwnership bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreatePostRequest // Bind JSON request to struct
		if err := bindBody(c, &req); err != nil {
			httperror.FromError(c, err)
			return
		}
		principal := middleware.Principal(c) // Set by RequireAuth
		if enforceOwnership && principal != nil && !principal.IsAdmin && req.UserID != 0 && req.UserID != principal.ID {
			httperror.FromError(c, domain.Forbidden("You do not have permission to post as another user"))
			return
		}
		post, err := posts.Create(c.Request.Context(), repository.CreatePostInput{
			Title:   req.Title,
			Content: req.Content,
			UserID:  req.UserID,
		})
		if err != nil {
			httperror.FromError(c, err)
			return
		}
		c.Header("Location", postURL(post.ID))                   // Canonical path of the new post
		c.JSON(http.StatusCreated, newPostResponse(post, false)) // Return the created post
	}
}

// UpdatePostHandler applies a partial update to a post
func UpdatePostHandler(posts *repository.PostRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "Post")
		if err != nil {
			httperror.FromError(c, err)
			return
		}
		var req UpdatePostRequest
		if err := bindBody(c, &req); err != nil {
			httperror.FromError(c, err)
			return
		}
		post, err := posts.Update(c.Request.Context(), id, repository.UpdatePostInput{
			Title:   req.Title,
			Content: req.Content,
		})
		if err != nil {
			httperror.FromError(c, err)
			return
		}
		c.JSON(http.StatusOK, newPostResponse(post, false))
	}
}

// DeletePostHandler removes a single post
func DeletePostHandler(posts *repository.PostRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "Post")
		if err != nil {
			httperror.FromError(c, err)
			return
		}
		if err := posts.Delete(c.Request.Context(), id); err != nil {
			httperror.FromError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
