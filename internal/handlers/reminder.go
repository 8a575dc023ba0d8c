package handlers

import (
	"fmt"
	"net/http"

	"selfcare/internal/auth"
	"selfcare/internal/models"

	"github.com/gin-gonic/gin"
)

// SetReminder schedules a reminder email ahead of an appointment or refill
func (h *Handler) SetReminder(c *gin.Context) {
	userID, _ := auth.UserID(c)

	var req models.SetReminderRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.reminders.Schedule(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   "success",
		"message":  fmt.Sprintf("Reminder set for %s", r.ScheduledTime.UTC().Format(models.DateLayout)),
		"reminder": r.Response(),
	})
}

// ListReminders returns the caller's reminders, newest first
func (h *Handler) ListReminders(c *gin.Context) {
	userID, _ := auth.UserID(c)

	reminders, err := h.reminders.List(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]models.ReminderResponse, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, r.Response())
	}
	c.JSON(http.StatusOK, gin.H{"reminders": out})
}

// CancelReminder stops a pending reminder
func (h *Handler) CancelReminder(c *gin.Context) {
	userID, _ := auth.UserID(c)
	id, ok := pathID(c, "Reminder not found")
	if !ok {
		return
	}

	if err := h.reminders.Cancel(c.Request.Context(), userID, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Reminder cancelled"})
}
