package services

import (
	"context"
	"errors"

	"selfcare/internal/database"
	"selfcare/internal/models"

	"gorm.io/gorm"
)

type DoctorService struct {
	db *gorm.DB
}

func NewDoctorService(db *gorm.DB) *DoctorService {
	return &DoctorService{db: db}
}

func findDoctor(tx *gorm.DB, userID, id uint) (*models.Doctor, error) {
	var d models.Doctor
	if err := tx.Scopes(database.OwnedBy(userID)).First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Doctor not found")
		}
		return nil, internalError("failed to load doctor", err)
	}
	return &d, nil
}

func (s *DoctorService) Create(ctx context.Context, userID uint, req models.DoctorRequest) (*models.Doctor, error) {
	d, err := NewDoctor(userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, internalError("failed to create doctor", err)
	}
	return d, nil
}

func (s *DoctorService) Get(ctx context.Context, userID, id uint) (*models.Doctor, error) {
	return findDoctor(s.db.WithContext(ctx), userID, id)
}

// Update applies a partial update and keeps pending reminders in step with
// next_schedule.
func (s *DoctorService) Update(ctx context.Context, userID, id uint, req models.DoctorRequest) (*models.Doctor, error) {
	var d *models.Doctor
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if d, err = findDoctor(tx, userID, id); err != nil {
			return err
		}
		if err := ApplyDoctorUpdate(d, req); err != nil {
			return err
		}
		if err := tx.Save(d).Error; err != nil {
			return internalError("failed to update doctor", err)
		}
		return syncPendingReminders(tx, userID, models.ReminderDoctor, d.ID, d.NextSchedule, doctorReminderLabel(d))
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateNotes touches only the notes column.
func (s *DoctorService) UpdateNotes(ctx context.Context, userID, id uint, req models.DoctorNotesRequest) error {
	if req.Notes == nil {
		return validationError("Notes are required")
	}
	d, err := findDoctor(s.db.WithContext(ctx), userID, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(d).Update("notes", *req.Notes).Error; err != nil {
		return internalError("failed to update notes", err)
	}
	return nil
}

// Delete removes the doctor and cancels its pending reminders.
func (s *DoctorService) Delete(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d, err := findDoctor(tx, userID, id)
		if err != nil {
			return err
		}
		if err := cancelPendingReminders(tx, userID, models.ReminderDoctor, d.ID); err != nil {
			return err
		}
		if err := tx.Delete(d).Error; err != nil {
			return internalError("failed to delete doctor", err)
		}
		return nil
	})
}
