package api

import (
	"errors"  // Error inspection
	"fmt"     // Message formatting
	"io"      // Empty body detection
	"strconv" // Path parameter parsing

	"blog_system/internal/domain" // Domain errors

	"github.com/gin-gonic/gin" // Gin web framework
)

// bindBody decodes an optional JSON body into dest. A missing body leaves dest
// zero-valued so required-field checks report what is missing.
func bindBody(c *gin.Context, dest any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil // No body at all
	}
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		return domain.Validation("Invalid JSON body")
	}
	return nil
}

// pathID parses the :id path parameter; anything that is not an id cannot exist
func pathID(c *gin.Context, entity string) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil {
		return 0, domain.NotFound(fmt.Sprintf("%s with id %s not found", entity, raw))
	}
	return uint(id), nil
}
