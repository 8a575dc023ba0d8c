package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newContext(headers map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:4321"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Request = req
	return c
}

func TestRequestID(t *testing.T) {
	if got := RequestID(newContext(map[string]string{RequestIDHeader: "abc-123"})); got != "abc-123" {
		t.Errorf("expected caller id, got %q", got)
	}

	generated := RequestID(newContext(nil))
	if _, err := uuid.Parse(generated); err != nil {
		t.Errorf("expected uuid, got %q", generated)
	}

	tooLong := strings.Repeat("x", 200)
	if got := RequestID(newContext(map[string]string{RequestIDHeader: tooLong})); got == tooLong {
		t.Error("expected oversized id to be replaced")
	}
}
