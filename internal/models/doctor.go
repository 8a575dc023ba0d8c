package models

import (
	"time"

	"gorm.io/datatypes"
)

// Doctor is a practitioner the user sees or has seen.
type Doctor struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint            `gorm:"not null;index" json:"-"`
	Name         string          `gorm:"size:100;not null" json:"name"`
	Specialty    string          `gorm:"size:100" json:"specialty"`
	FirstSeen    *datatypes.Date `json:"first_seen"`
	NextSchedule *datatypes.Date `json:"next_schedule"` // next appointment
	IsActive     bool            `gorm:"not null;index" json:"is_active"`
	Notes        string          `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time       `gorm:"not null" json:"-"`
	UpdatedAt    time.Time       `gorm:"not null" json:"-"`
}

// TableName specifies the table name for the Doctor model
func (Doctor) TableName() string {
	return "doctor"
}

// DoctorRequest is the body of both create and update calls.
type DoctorRequest struct {
	Name         *string `json:"name"`
	Specialty    *string `json:"specialty"`
	FirstSeen    *string `json:"first_seen"`
	NextSchedule *string `json:"next_schedule"`
	IsActive     *bool   `json:"is_active"`
	Notes        *string `json:"notes"`
}

// DoctorNotesRequest carries the notes-only partial update.
type DoctorNotesRequest struct {
	Notes *string `json:"notes"`
}

// DoctorResponse is the wire shape of a doctor.
type DoctorResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Specialty    string `json:"specialty"`
	FirstSeen    string `json:"first_seen"`
	NextSchedule string `json:"next_schedule"`
	IsActive     bool   `json:"is_active"`
	Notes        string `json:"notes"`
}

// Response converts the row to its wire shape.
func (d Doctor) Response() DoctorResponse {
	return DoctorResponse{
		ID:           d.ID,
		Name:         d.Name,
		Specialty:    d.Specialty,
		FirstSeen:    FormatDate(d.FirstSeen),
		NextSchedule: FormatDate(d.NextSchedule),
		IsActive:     d.IsActive,
		Notes:        d.Notes,
	}
}
