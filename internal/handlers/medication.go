package handlers

import (
	"net/http"

	"selfcare/internal/auth"
	"selfcare/internal/models"
	"selfcare/internal/services"

	"github.com/gin-gonic/gin"
)

const medicationNotFound = "Medication not found"

// CreateMedication adds a medication for the caller
func (h *Handler) CreateMedication(c *gin.Context) {
	userID, _ := auth.UserID(c)

	var req models.MedicationRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.medications.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":     "success",
		"message":    "Medication added",
		"medication": m.Response(),
	})
}

// ListMedications returns current and past medications, paginated
func (h *Handler) ListMedications(c *gin.Context) {
	userID, _ := auth.UserID(c)
	params := services.ParseListParams(c.Request.URL.Query(), services.MedicationSortColumns, h.pagination)

	page, err := h.search.ListMedications(c.Request.Context(), userID, params)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetMedication returns a single medication
func (h *Handler) GetMedication(c *gin.Context) {
	userID, _ := auth.UserID(c)
	id, ok := pathID(c, medicationNotFound)
	if !ok {
		return
	}

	m, err := h.medications.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, m.Response())
}

// UpdateMedication applies a partial update
func (h *Handler) UpdateMedication(c *gin.Context) {
	userID, _ := auth.UserID(c)
	id, ok := pathID(c, medicationNotFound)
	if !ok {
		return
	}

	var req models.MedicationRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.medications.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "Medication updated",
		"medication": m.Response(),
	})
}

// DeleteMedication removes a medication
func (h *Handler) DeleteMedication(c *gin.Context) {
	userID, _ := auth.UserID(c)
	id, ok := pathID(c, medicationNotFound)
	if !ok {
		return
	}

	if err := h.medications.Delete(c.Request.Context(), userID, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Medication deleted"})
}
