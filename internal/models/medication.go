package models

import (
	"time"

	"gorm.io/datatypes"
)

// Medication is a drug a user takes or used to take. EndDate is only
// meaningful while IsCurrent is false.
type Medication struct {
	ID         uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint            `gorm:"not null;index" json:"-"`
	Name       string          `gorm:"size:100;not null" json:"name"`
	Dosage     string          `gorm:"size:50" json:"dosage"`
	TimeOfDay  string          `gorm:"column:time_of_day;size:50" json:"time"`
	StartDate  *datatypes.Date `json:"start_date"`
	EndDate    *datatypes.Date `json:"end_date"`
	RefillDate *datatypes.Date `json:"refill_date"`
	IsCurrent  bool            `gorm:"not null;index" json:"is_current"`
	CreatedAt  time.Time       `gorm:"not null" json:"-"`
	UpdatedAt  time.Time       `gorm:"not null" json:"-"`
}

// TableName specifies the table name for the Medication model
func (Medication) TableName() string {
	return "medication"
}

// MedicationRequest is the body of both create and update calls. A nil field
// was not supplied by the client.
type MedicationRequest struct {
	Name       *string `json:"name"`
	Dosage     *string `json:"dosage"`
	Time       *string `json:"time"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	RefillDate *string `json:"refill_date"`
	IsCurrent  *bool   `json:"is_current"`
}

// MedicationResponse is the wire shape of a medication.
type MedicationResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Dosage     string `json:"dosage"`
	Time       string `json:"time"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	RefillDate string `json:"refill_date"`
	IsCurrent  bool   `json:"is_current"`
}

// Response converts the row to its wire shape.
func (m Medication) Response() MedicationResponse {
	return MedicationResponse{
		ID:         m.ID,
		Name:       m.Name,
		Dosage:     m.Dosage,
		Time:       m.TimeOfDay,
		StartDate:  FormatDate(m.StartDate),
		EndDate:    FormatDate(m.EndDate),
		RefillDate: FormatDate(m.RefillDate),
		IsCurrent:  m.IsCurrent,
	}
}
