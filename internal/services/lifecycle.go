package services

import (
	"strings"

	"selfcare/internal/models"

	"gorm.io/datatypes"
)

// dateField is one wire date to be parsed before any assignment happens.
type dateField struct {
	name string
	raw  *string
	dst  **datatypes.Date
}

// parseDates validates every supplied field first so a malformed value
// leaves the target untouched. Absent fields are skipped.
func parseDates(fields ...dateField) error {
	parsed := make([]*datatypes.Date, len(fields))
	for i, f := range fields {
		if f.raw == nil {
			continue
		}
		d, err := models.ParseDate(*f.raw)
		if err != nil {
			return validationError("Invalid %s format. Use YYYY-MM-DD.", f.name)
		}
		parsed[i] = d
	}
	for i, f := range fields {
		if f.raw != nil {
			*f.dst = parsed[i]
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// NewMedication builds a medication from a create request.
func NewMedication(userID uint, req models.MedicationRequest) (*models.Medication, error) {
	name := deref(req.Name)
	if name == "" {
		return nil, validationError("Medication name is required")
	}

	m := &models.Medication{
		UserID:    userID,
		Name:      name,
		Dosage:    deref(req.Dosage),
		TimeOfDay: deref(req.Time),
		IsCurrent: true,
	}
	if req.IsCurrent != nil {
		m.IsCurrent = *req.IsCurrent
	}

	if err := parseDates(
		dateField{"start_date", req.StartDate, &m.StartDate},
		dateField{"end_date", req.EndDate, &m.EndDate},
		dateField{"refill_date", req.RefillDate, &m.RefillDate},
	); err != nil {
		return nil, err
	}

	if m.IsCurrent {
		m.EndDate = nil
	}
	return m, nil
}

// ApplyMedicationUpdate merges the supplied fields into m. On error m is
// unchanged.
func ApplyMedicationUpdate(m *models.Medication, req models.MedicationRequest) error {
	if req.Name != nil && deref(req.Name) == "" {
		return validationError("Medication name is required")
	}

	next := *m
	if err := parseDates(
		dateField{"start_date", req.StartDate, &next.StartDate},
		dateField{"end_date", req.EndDate, &next.EndDate},
		dateField{"refill_date", req.RefillDate, &next.RefillDate},
	); err != nil {
		return err
	}

	if req.Name != nil {
		next.Name = deref(req.Name)
	}
	if req.Dosage != nil {
		next.Dosage = deref(req.Dosage)
	}
	if req.Time != nil {
		next.TimeOfDay = deref(req.Time)
	}
	if req.IsCurrent != nil {
		next.IsCurrent = *req.IsCurrent
	}
	if next.IsCurrent {
		next.EndDate = nil
	}

	*m = next
	return nil
}

// NewDoctor builds a doctor from a create request.
func NewDoctor(userID uint, req models.DoctorRequest) (*models.Doctor, error) {
	name := deref(req.Name)
	if name == "" {
		return nil, validationError("Doctor name is required")
	}

	d := &models.Doctor{
		UserID:    userID,
		Name:      name,
		Specialty: deref(req.Specialty),
		IsActive:  true,
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}
	if req.Notes != nil {
		d.Notes = *req.Notes
	}

	if err := parseDates(
		dateField{"first_seen", req.FirstSeen, &d.FirstSeen},
		dateField{"next_schedule", req.NextSchedule, &d.NextSchedule},
	); err != nil {
		return nil, err
	}
	return d, nil
}

// ApplyDoctorUpdate merges the supplied fields into d. On error d is
// unchanged.
func ApplyDoctorUpdate(d *models.Doctor, req models.DoctorRequest) error {
	if req.Name != nil && deref(req.Name) == "" {
		return validationError("Doctor name is required")
	}

	next := *d
	if err := parseDates(
		dateField{"first_seen", req.FirstSeen, &next.FirstSeen},
		dateField{"next_schedule", req.NextSchedule, &next.NextSchedule},
	); err != nil {
		return err
	}

	if req.Name != nil {
		next.Name = deref(req.Name)
	}
	if req.Specialty != nil {
		next.Specialty = deref(req.Specialty)
	}
	if req.IsActive != nil {
		next.IsActive = *req.IsActive
	}
	if req.Notes != nil {
		next.Notes = *req.Notes
	}

	*d = next
	return nil
}
