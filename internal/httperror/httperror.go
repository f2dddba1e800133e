// Package httperror writes the JSON error body shared by every endpoint:
// {"error": "<reason phrase>", "message": "<optional detail>"}.
package httperror

import (
	"errors"
	"net/http"

	"blog_system/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Payload is the error response body
type Payload struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// New builds the payload for a status code. 500 never carries a message.
func New(status int, message string) Payload {
	reason := http.StatusText(status)
	if reason == "" {
		reason = "Unknown error"
	}
	if status >= http.StatusInternalServerError {
		message = ""
	}
	return Payload{Error: reason, Message: message}
}

// Respond writes the error payload
func Respond(c *gin.Context, status int, message string) {
	c.JSON(status, New(status, message))
}

// Abort writes the error payload and stops the handler chain
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, New(status, message))
}

// StatusFor maps a domain error kind onto an HTTP status. Conflicts are
// reported as 400, not 409.
func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation, domain.KindConflict:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// FromError responds with the status and message carried by err
func FromError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	status := StatusFor(kind)
	if status == http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString("requestId"),
			"path":       c.Request.URL.Path,
			"error":      err.Error(),
		}).Error("Request failed")
		Abort(c, status, "")
		return
	}
	message := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		message = de.Message
	}
	Abort(c, status, message)
}
