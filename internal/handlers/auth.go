package handlers

import (
	"net/http"
	"strings"

	"selfcare/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Login handles user authentication and issues a JWT token
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.accounts.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"access_token": token,
	})
}

// Register creates an account and sends the welcome email
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.log.Info("user registered", zap.Uint("user_id", user.ID))
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "User registered and email sent.",
	})
}

// SendReminderEmail sends an ad-hoc reminder to any address
func (h *Handler) SendReminderEmail(c *gin.Context) {
	var req models.SendEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.TrimSpace(req.Email)
	subject := strings.TrimSpace(req.Subject)
	if email == "" || subject == "" || strings.TrimSpace(req.Message) == "" {
		errorResponse(c, http.StatusBadRequest, "Email, subject, and message are required.")
		return
	}

	if err := h.emails.SendAdHoc(c.Request.Context(), email, subject, req.Message); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Email sent successfully",
	})
}
