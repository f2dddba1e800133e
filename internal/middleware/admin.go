package middleware

import (
	"net/http" // HTTP status codes

	"blog_system/internal/httperror" // JSON error responses

	"github.com/gin-gonic/gin" // Gin web framework
)

// OwnerFunc returns the id of the user owning the resource addressed by the request
type OwnerFunc func(c *gin.Context) (uint, error)

// OwnerOrAdmin lets the request through when the principal owns the resource
// or is an admin. It must run after RequireAuth.
func OwnerOrAdmin(owner OwnerFunc, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := Principal(c) // Set by RequireAuth
		// Guarded by RequireAuth, so a missing principal means a wiring mistake
		if user == nil {
			httperror.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		// Admins may act on anything
		if user.IsAdmin {
			c.Next()
			return
		}
		ownerID, err := owner(c) // Resolve the resource owner
		if err != nil {
			// Unknown resource or lookup failure
			httperror.FromError(c, err)
			return
		}
		// Check the principal is the owner
		if ownerID != user.ID {
			httperror.Abort(c, http.StatusForbidden, "You do not have permission to "+action)
			return
		}
		c.Next() // Owner may proceed
	}
}
