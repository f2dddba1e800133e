package api

import (
	"net/http" // HTTP status codes

	"blog_system/internal/httperror"  // JSON error responses
	"blog_system/internal/repository" // User lifecycle

	"github.com/gin-gonic/gin" // Gin web framework
)

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	Username string `json:"username"` // Required, unique
	Email    string `json:"email"`    // Required, unique
	Password string `json:"password"` // Required, stored hashed
}

// UpdateUserRequest is the body of PUT /users/{id}; absent fields stay unchanged
type UpdateUserRequest struct {
	Username *string `json:"username"` // New username
	Email    *string `json:"email"`    // New email
	Password *string `json:"password"` // New password
}

// ListUsersHandler returns all users
func ListUsersHandler(users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := users.List(c.Request.Context()) // Fetch users in creation order
		if err != nil {
			httperror.FromError(c, err)
			return
		}
		resp := make([]UserResponse, len(list))
		// Map users to response format
		for i := range list {
			resp[i] = newUserResponse(&list[i], false)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetUserHandler returns one user
func GetUserHandler(users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "User")
		if err != nil {
			httperror.FromError(c, err)
			return
		}
		user, err := users.Get(c.Request.Context(), id)
		if err != nil {
			httperror.FromError(c, err)
			return
		}
		c.JSON(http.StatusOK, newUserResponse(user, true))
	}
}

// CreateUserHandler registers a new user; the route is public
func CreateUserHandler(users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest // Bind JSON request to struct
		if err := bindBody(c, &req); err != nil {
			httperror.FromError(c, err)
			return
		}
		user, err := users.Create(c.Request.Context(), repository.CreateUserInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			// Missing fields, duplicates or storage failure
			httperror.FromError(c, err)
			return
		}
		c.Header("Location", userURL(user.ID))                   // Canonical path of the new user
		c.JSON(http.StatusCreated, newUserResponse(user, false)) // Return the created user
	}
}

// UpdateUserHandler applies a partial update to a user
func UpdateUserHandler(users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "User")
		if err != nil {
			httperror.FromError(c, err)
			return
		}
		var req UpdateUserRequest
		if err := bindBody(c, &req); err != nil {
			httperror.FromError(c, err)
			return
		}
		user, err := users.Update(c.Request.Context(), id, repository.UpdateUserInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			httperror.FromError(c, err)
			return
		}
		c.JSON(http.StatusOK, newUserResponse(user, false))
	}
}

// DeleteUserHandler removes a user together with the user's posts
func DeleteUserHandler(users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "User")
		if err != nil {
			httperror.FromError(c, err)
			return
		}
		if err := users.Delete(c.Request.Context(), id); err != nil {
			httperror.FromError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
