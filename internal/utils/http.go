package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// RequestID returns the caller-supplied request id when it looks sane,
// otherwise a fresh UUID.
func RequestID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(RequestIDHeader)); id != "" && len(id) <= 128 {
		return id
	}
	return uuid.NewString()
}
