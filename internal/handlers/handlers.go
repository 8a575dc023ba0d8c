package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"selfcare/internal/config"
	"selfcare/internal/database"
	"selfcare/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators a Handler needs.
type Deps struct {
	DB          *gorm.DB
	Log         *zap.Logger
	Accounts    *services.AccountService
	Medications *services.MedicationService
	Doctors     *services.DoctorService
	Reminders   *services.ReminderService
	Search      *services.SearchService
	Emails      *services.EmailService
	Pagination  config.PaginationConfig
}

// Handler serves every HTTP route.
type Handler struct {
	db          *gorm.DB
	log         *zap.Logger
	accounts    *services.AccountService
	medications *services.MedicationService
	doctors     *services.DoctorService
	reminders   *services.ReminderService
	search      *services.SearchService
	emails      *services.EmailService
	pagination  config.PaginationConfig
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		db:          d.DB,
		log:         log,
		accounts:    d.Accounts,
		medications: d.Medications,
		doctors:     d.Doctors,
		reminders:   d.Reminders,
		search:      d.Search,
		emails:      d.Emails,
		pagination:  d.Pagination,
	}
}

// handleError provides a consistent way to handle and log errors
func (h *Handler) handleError(c *gin.Context, err error) {
	var (
		status  int
		message string
	)
	switch services.KindOf(err) {
	case services.KindValidation:
		status, message = http.StatusBadRequest, err.Error()
	case services.KindUnauthorized:
		status, message = http.StatusUnauthorized, err.Error()
	case services.KindNotFound:
		status, message = http.StatusNotFound, err.Error()
	case services.KindConflict:
		status, message = http.StatusConflict, err.Error()
	default:
		status, message = http.StatusInternalServerError, "Internal server error."
		h.log.Error("request failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"status": "error", "message": message})
}

func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

// bindJSON decodes the body, answering 400 itself on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid or missing JSON in request")
		return false
	}
	return true
}

// pathID parses the :id parameter. A malformed id cannot match any row, so
// it is reported as notFound.
func pathID(c *gin.Context, notFound string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		errorResponse(c, http.StatusNotFound, notFound)
		return 0, false
	}
	return uint(id), true
}

// HomeHandler handles requests to the root path "/"
func (h *Handler) HomeHandler(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to Road to Self-Care!")
}

// HealthHandler reports whether the database is reachable.
func (h *Handler) HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, h.db); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
