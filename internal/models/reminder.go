package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
)

// ReminderType names what a reminder is about.
type ReminderType string

const (
	ReminderDoctor     ReminderType = "doctor"
	ReminderMedication ReminderType = "medication"
)

// ReminderStatus tracks a reminder through dispatch.
type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "pending"
	ReminderSending   ReminderStatus = "sending" // claimed by a worker
	ReminderSent      ReminderStatus = "sent"
	ReminderFailed    ReminderStatus = "failed"
	ReminderCancelled ReminderStatus = "cancelled"
)

// Reminder is a notification due at ScheduledTime, derived from a doctor's
// next appointment or a medication's refill date.
type Reminder struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"-"`
	Type          ReminderType   `gorm:"size:20;not null;index:idx_reminder_target,priority:1" json:"type"`
	TargetID      uint           `gorm:"not null;index:idx_reminder_target,priority:2" json:"target_id"`
	TimeBefore    string         `gorm:"size:10;not null" json:"time_before"` // "24h" or "7d"
	AnchorDate    datatypes.Date `gorm:"not null" json:"anchor_date"`
	Label         string         `gorm:"size:255;not null" json:"label"`
	ScheduledTime time.Time      `gorm:"not null;index:idx_reminder_due,priority:2" json:"scheduled_time"`
	Status        ReminderStatus `gorm:"size:20;not null;index:idx_reminder_due,priority:1" json:"status"`
	EmailSent     bool           `gorm:"not null" json:"email_sent"`
	SentAt        *time.Time     `json:"sent_at"`
	LastError     string         `gorm:"size:500" json:"-"`
	CreatedAt     time.Time      `gorm:"not null" json:"-"`
	UpdatedAt     time.Time      `gorm:"not null" json:"-"`
}

// TableName specifies the table name for the Reminder model
func (Reminder) TableName() string {
	return "reminder"
}

// ReminderResponse is the wire shape of a reminder.
type ReminderResponse struct {
	ID            uint           `json:"id"`
	Type          ReminderType   `json:"type"`
	TargetID      uint           `json:"target_id"`
	TimeBefore    string         `json:"time_before"`
	Label         string         `json:"label"`
	AnchorDate    string         `json:"anchor_date"`
	ScheduledTime string         `json:"scheduled_time"`
	Status        ReminderStatus `json:"status"`
	EmailSent     bool           `json:"email_sent"`
	SentAt        *string        `json:"sent_at"`
}

// Response converts the row to its wire shape.
func (r Reminder) Response() ReminderResponse {
	resp := ReminderResponse{
		ID:            r.ID,
		Type:          r.Type,
		TargetID:      r.TargetID,
		TimeBefore:    r.TimeBefore,
		Label:         r.Label,
		AnchorDate:    DateOf(r.AnchorDate).Format(DateLayout),
		ScheduledTime: r.ScheduledTime.UTC().Format(time.RFC3339),
		Status:        r.Status,
		EmailSent:     r.EmailSent,
	}
	if r.SentAt != nil {
		s := r.SentAt.UTC().Format(time.RFC3339)
		resp.SentAt = &s
	}
	return resp
}

// TargetID accepts both a JSON number and a numeric string, since form
// selects submit ids as strings.
type TargetID uint

// UnmarshalJSON implements json.Unmarshaler
func (t *TargetID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	if len(data) == 0 {
		*t = 0
		return nil
	}
	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", string(data))
	}
	*t = TargetID(n)
	return nil
}

// SetReminderRequest asks for a reminder ahead of an appointment or refill.
type SetReminderRequest struct {
	Type       string   `json:"type"`
	ID         TargetID `json:"id"`
	TimeBefore string   `json:"time_before"`
}

// SendEmailRequest is an ad-hoc reminder email.
type SendEmailRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
