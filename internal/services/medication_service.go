package services

import (
	"context"
	"errors"

	"selfcare/internal/database"
	"selfcare/internal/models"

	"gorm.io/gorm"
)

type MedicationService struct {
	db *gorm.DB
}

func NewMedicationService(db *gorm.DB) *MedicationService {
	return &MedicationService{db: db}
}

func findMedication(tx *gorm.DB, userID, id uint) (*models.Medication, error) {
	var m models.Medication
	if err := tx.Scopes(database.OwnedBy(userID)).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Medication not found")
		}
		return nil, internalError("failed to load medication", err)
	}
	return &m, nil
}

// Create stores a new medication owned by userID.
func (s *MedicationService) Create(ctx context.Context, userID uint, req models.MedicationRequest) (*models.Medication, error) {
	m, err := NewMedication(userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, internalError("failed to create medication", err)
	}
	return m, nil
}

func (s *MedicationService) Get(ctx context.Context, userID, id uint) (*models.Medication, error) {
	return findMedication(s.db.WithContext(ctx), userID, id)
}

// Update applies a partial update. Nothing is written if validation fails.
// Pending refill reminders follow refill_date.
func (s *MedicationService) Update(ctx context.Context, userID, id uint, req models.MedicationRequest) (*models.Medication, error) {
	var m *models.Medication
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if m, err = findMedication(tx, userID, id); err != nil {
			return err
		}
		if err := ApplyMedicationUpdate(m, req); err != nil {
			return err
		}
		if err := tx.Save(m).Error; err != nil {
			return internalError("failed to update medication", err)
		}
		return syncPendingReminders(tx, userID, models.ReminderMedication, m.ID, m.RefillDate, medicationReminderLabel(m))
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes the medication and cancels its pending reminders.
func (s *MedicationService) Delete(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findMedication(tx, userID, id)
		if err != nil {
			return err
		}
		if err := cancelPendingReminders(tx, userID, models.ReminderMedication, m.ID); err != nil {
			return err
		}
		if err := tx.Delete(m).Error; err != nil {
			return internalError("failed to delete medication", err)
		}
		return nil
	})
}
