package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"selfcare/internal/database"
	"selfcare/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type reminderOffset struct {
	days        int
	description string
}

var reminderOffsets = map[string]reminderOffset{
	"24h": {days: 1, description: "1 day"},
	"7d":  {days: 7, description: "7 days"},
}

func describeOffset(timeBefore string) string {
	if o, ok := reminderOffsets[timeBefore]; ok {
		return o.description
	}
	return timeBefore
}

// ComputeReminderTime returns midnight UTC of anchor minus the offset named
// by timeBefore ("24h" or "7d").
func ComputeReminderTime(anchor datatypes.Date, timeBefore string) (time.Time, error) {
	o, ok := reminderOffsets[timeBefore]
	if !ok {
		return time.Time{}, validationError("Invalid time_before. Use 24h or 7d.")
	}
	return models.DateOf(anchor).AddDate(0, 0, -o.days), nil
}

type ReminderService struct {
	db *gorm.DB
}

func NewReminderService(db *gorm.DB) *ReminderService {
	return &ReminderService{db: db}
}

// Schedule records a pending reminder ahead of a doctor's next appointment
// or a medication's refill. A second request for the same target and offset
// reschedules the existing pending reminder.
func (s *ReminderService) Schedule(ctx context.Context, userID uint, req models.SetReminderRequest) (*models.Reminder, error) {
	typ := models.ReminderType(strings.ToLower(strings.TrimSpace(req.Type)))
	if typ != models.ReminderDoctor && typ != models.ReminderMedication {
		return nil, validationError("Invalid reminder type. Use doctor or medication.")
	}
	if req.ID == 0 {
		return nil, validationError("Reminder target id is required")
	}
	timeBefore := strings.TrimSpace(req.TimeBefore)
	if _, ok := reminderOffsets[timeBefore]; !ok {
		return nil, validationError("Invalid time_before. Use 24h or 7d.")
	}

	var reminder models.Reminder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		anchor, label, err := resolveReminderTarget(tx, userID, typ, uint(req.ID))
		if err != nil {
			return err
		}
		scheduled, err := ComputeReminderTime(anchor, timeBefore)
		if err != nil {
			return err
		}

		err = tx.Scopes(database.OwnedBy(userID)).
			Where("type = ? AND target_id = ? AND time_before = ? AND status = ?",
				typ, uint(req.ID), timeBefore, models.ReminderPending).
			First(&reminder).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return internalError("failed to load reminder", err)
		}

		reminder.UserID = userID
		reminder.Type = typ
		reminder.TargetID = uint(req.ID)
		reminder.TimeBefore = timeBefore
		reminder.AnchorDate = anchor
		reminder.Label = label
		reminder.ScheduledTime = scheduled
		reminder.Status = models.ReminderPending

		if err := tx.Save(&reminder).Error; err != nil {
			return internalError("failed to save reminder", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

func resolveReminderTarget(tx *gorm.DB, userID uint, typ models.ReminderType, id uint) (datatypes.Date, string, error) {
	switch typ {
	case models.ReminderDoctor:
		d, err := findDoctor(tx, userID, id)
		if err != nil {
			return datatypes.Date{}, "", err
		}
		if d.NextSchedule == nil {
			return datatypes.Date{}, "", validationError("Doctor is missing next schedule")
		}
		return *d.NextSchedule, doctorReminderLabel(d), nil
	default:
		m, err := findMedication(tx, userID, id)
		if err != nil {
			return datatypes.Date{}, "", err
		}
		if m.RefillDate == nil {
			return datatypes.Date{}, "", validationError("Medication is missing refill_date")
		}
		return *m.RefillDate, medicationReminderLabel(m), nil
	}
}

func doctorReminderLabel(d *models.Doctor) string {
	return fmt.Sprintf("Doctor: %s appointment", d.Name)
}

func medicationReminderLabel(m *models.Medication) string {
	return fmt.Sprintf("Medication: %s refill", m.Name)
}

// List returns the user's reminders, newest first.
func (s *ReminderService) List(ctx context.Context, userID uint) ([]models.Reminder, error) {
	reminders := []models.Reminder{}
	if err := s.db.WithContext(ctx).
		Scopes(database.OwnedBy(userID), database.OrderBy("id", true)).
		Find(&reminders).Error; err != nil {
		return nil, internalError("failed to list reminders", err)
	}
	return reminders, nil
}

// Cancel stops a pending reminder from being sent.
func (s *ReminderService) Cancel(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.Reminder
		if err := tx.Scopes(database.OwnedBy(userID)).First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Reminder not found")
			}
			return internalError("failed to load reminder", err)
		}
		if r.Status != models.ReminderPending {
			return validationError("Only pending reminders can be cancelled")
		}
		res := tx.Model(&models.Reminder{}).
			Where("id = ? AND status = ?", r.ID, models.ReminderPending).
			Update("status", models.ReminderCancelled)
		if res.Error != nil {
			return internalError("failed to cancel reminder", res.Error)
		}
		if res.RowsAffected != 1 {
			return validationError("Only pending reminders can be cancelled")
		}
		return nil
	})
}

func cancelPendingReminders(tx *gorm.DB, userID uint, typ models.ReminderType, targetID uint) error {
	err := tx.Model(&models.Reminder{}).
		Where("user_id = ? AND type = ? AND target_id = ? AND status = ?",
			userID, typ, targetID, models.ReminderPending).
		Update("status", models.ReminderCancelled).Error
	if err != nil {
		return internalError("failed to cancel reminders", err)
	}
	return nil
}

// syncPendingReminders moves a target's pending reminders onto its current
// anchor date, or cancels them when the anchor was cleared.
func syncPendingReminders(tx *gorm.DB, userID uint, typ models.ReminderType, targetID uint, anchor *datatypes.Date, label string) error {
	if anchor == nil {
		return cancelPendingReminders(tx, userID, typ, targetID)
	}

	var pending []models.Reminder
	if err := tx.Where("user_id = ? AND type = ? AND target_id = ? AND status = ?",
		userID, typ, targetID, models.ReminderPending).
		Find(&pending).Error; err != nil {
		return internalError("failed to load reminders", err)
	}
	for _, r := range pending {
		scheduled, err := ComputeReminderTime(*anchor, r.TimeBefore)
		if err != nil {
			return internalError("stored reminder has an invalid offset", err)
		}
		res := tx.Model(&models.Reminder{}).
			Where("id = ? AND status = ?", r.ID, models.ReminderPending).
			Updates(map[string]any{
				"anchor_date":    *anchor,
				"label":          label,
				"scheduled_time": scheduled,
			})
		if res.Error != nil {
			return internalError("failed to reschedule reminder", res.Error)
		}
	}
	return nil
}
