package handlers

import (
	"net/http"

	"selfcare/internal/auth"
	"selfcare/internal/models"
	"selfcare/internal/services"

	"github.com/gin-gonic/gin"
)

const doctorNotFound = "Doctor not found"

func (h *Handler) CreateDoctor(c *gin.Context) {
	userID, _ := auth.UserID(c)

	var req models.DoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.doctors.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Doctor added",
		"doctor":  d.Response(),
	})
}

// ListDoctors returns active and past doctors, paginated
func (h *Handler) ListDoctors(c *gin.Context) {
	userID, _ := auth.UserID(c)
	params := services.ParseListParams(c.Request.URL.Query(), services.DoctorSortColumns, h.pagination)

	page, err := h.search.ListDoctors(c.Request.Context(), userID, params)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	userID, _ := auth.UserID(c)
	id, ok := pathID(c, doctorNotFound)
	if !ok {
		return
	}

	d, err := h.doctors.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, d.Response())
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	userID, _ := auth.UserID(c)
	id, ok := pathID(c, doctorNotFound)
	if !ok {
		return
	}

	var req models.DoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.doctors.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Doctor updated",
		"doctor":  d.Response(),
	})
}

// UpdateDoctorNotes changes only the notes field
func (h *Handler) UpdateDoctorNotes(c *gin.Context) {
	userID, _ := auth.UserID(c)
	id, ok := pathID(c, doctorNotFound)
	if !ok {
		return
	}

	var req models.DoctorNotesRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.doctors.UpdateNotes(c.Request.Context(), userID, id, req); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Notes updated"})
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	userID, _ := auth.UserID(c)
	id, ok := pathID(c, doctorNotFound)
	if !ok {
		return
	}

	if err := h.doctors.Delete(c.Request.Context(), userID, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Doctor deleted"})
}
