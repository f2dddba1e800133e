package api

import (
	"net/http" // HTTP status codes
	"time"     // Token lifetime

	"blog_system/internal/domain"     // Domain errors
	"blog_system/internal/httperror"  // JSON error responses
	"blog_system/internal/middleware" // Principal access
	"blog_system/internal/utils"      // Token signing

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// TokenResponse is the body returned by POST /tokens
type TokenResponse struct {
	Token     string `json:"token"`      // Bearer token for the Authorization header
	ExpiresIn int64  `json:"expires_in"` // Lifetime in seconds
}

// IssueTokenHandler exchanges the Basic credentials that authenticated the
// request for a signed bearer token
func IssueTokenHandler(secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.Principal(c) // Set by RequireAuth
		token, err := utils.SignToken(user.ID, secret, ttl)
		if err != nil {
			httperror.FromError(c, domain.Internal("failed to sign token", err))
			return
		}
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString("requestId"),
			"user_id":    user.ID,
		}).Info("Token issued")
		c.JSON(http.StatusCreated, TokenResponse{Token: token, ExpiresIn: int64(ttl / time.Second)})
	}
}
