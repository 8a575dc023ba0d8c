package handlers

import (
	"fmt"

	"selfcare/internal/auth"

	"github.com/gin-gonic/gin"
)

// NewRouter wires every route onto a new gin engine. Client IPs come from
// forwarding headers only when the peer is in trustedProxies.
func NewRouter(h *Handler, tokens *auth.TokenManager, allowedOrigins, trustedProxies []string) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.Use(gin.Recovery(), RequestLogger(h.log.Named("http")), CORS(allowedOrigins))

	// Basic routes
	router.GET("/", h.HomeHandler)
	router.GET("/health", h.HealthHandler)

	// Public routes
	router.POST("/login", h.Login)
	router.POST("/register", h.Register)
	router.POST("/send_reminder", h.SendReminderEmail)

	// Protected routes (auth required)
	protected := router.Group("")
	protected.Use(auth.Middleware(tokens))
	{
		protected.GET("/medications", h.ListMedications)
		protected.POST("/medications", h.CreateMedication)
		protected.GET("/medications/:id", h.GetMedication)
		protected.PUT("/medications/:id", h.UpdateMedication)
		protected.DELETE("/medications/:id", h.DeleteMedication)

		protected.GET("/doctors", h.ListDoctors)
		protected.POST("/doctors", h.CreateDoctor)
		protected.GET("/doctors/:id", h.GetDoctor)
		protected.PUT("/doctors/:id", h.UpdateDoctor)
		protected.PUT("/doctors/:id/notes", h.UpdateDoctorNotes)
		protected.DELETE("/doctors/:id", h.DeleteDoctor)

		protected.POST("/set_reminder", h.SetReminder)
		protected.GET("/reminders", h.ListReminders)
		protected.DELETE("/reminders/:id", h.CancelReminder)
	}

	return router, nil
}
