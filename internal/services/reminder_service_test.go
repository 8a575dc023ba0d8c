package services

import (
	"context"
	"testing"
	"time"

	"selfcare/internal/database/dbtest"
	"selfcare/internal/models"
)

func TestComputeReminderTime(t *testing.T) {
	anchor := *mustDate(t, "2025-06-10")

	tests := []struct {
		timeBefore string
		want       time.Time
		wantErr    bool
	}{
		{"24h", time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), false},
		{"7d", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), false},
		{"1h", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.timeBefore, func(t *testing.T) {
			got, err := ComputeReminderTime(anchor, tt.timeBefore)
			if tt.wantErr {
				assertKind(t, err, KindValidation)
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestReminderService_Schedule(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	doctor, err := NewDoctorService(db).Create(ctx, alice.ID, models.DoctorRequest{Name: strPtr("Dr. Adams"), NextSchedule: strPtr("2025-06-10")})
	if err != nil {
		t.Fatal(err)
	}
	unscheduled, err := NewDoctorService(db).Create(ctx, alice.ID, models.DoctorRequest{Name: strPtr("Dr. Brown")})
	if err != nil {
		t.Fatal(err)
	}
	noRefill, err := NewMedicationService(db).Create(ctx, alice.ID, models.MedicationRequest{Name: strPtr("Aspirin")})
	if err != nil {
		t.Fatal(err)
	}

	svc := NewReminderService(db)

	r, err := svc.Schedule(ctx, alice.ID, models.SetReminderRequest{Type: "doctor", ID: models.TargetID(doctor.ID), TimeBefore: "24h"})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if r.Label != "Doctor: Dr. Adams appointment" {
		t.Errorf("Label = %q", r.Label)
	}
	if want := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC); !r.ScheduledTime.Equal(want) {
		t.Errorf("ScheduledTime = %s, want %s", r.ScheduledTime, want)
	}
	if r.Status != models.ReminderPending || r.EmailSent {
		t.Errorf("new reminder should be pending and unsent: %+v", r)
	}

	again, err := svc.Schedule(ctx, alice.ID, models.SetReminderRequest{Type: "doctor", ID: models.TargetID(doctor.ID), TimeBefore: "24h"})
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != r.ID {
		t.Errorf("duplicate request created reminder %d, want reuse of %d", again.ID, r.ID)
	}

	tests := []struct {
		name   string
		userID uint
		req    models.SetReminderRequest
		want   Kind
		msg    string
	}{
		{"bad type", alice.ID, models.SetReminderRequest{Type: "dentist", ID: 1, TimeBefore: "24h"}, KindValidation, ""},
		{"bad offset", alice.ID, models.SetReminderRequest{Type: "doctor", ID: models.TargetID(doctor.ID), TimeBefore: "2w"}, KindValidation, ""},
		{"missing id", alice.ID, models.SetReminderRequest{Type: "doctor", TimeBefore: "24h"}, KindValidation, ""},
		{"missing schedule", alice.ID, models.SetReminderRequest{Type: "doctor", ID: models.TargetID(unscheduled.ID), TimeBefore: "7d"}, KindValidation, "Doctor is missing next schedule"},
		{"missing refill", alice.ID, models.SetReminderRequest{Type: "medication", ID: models.TargetID(noRefill.ID), TimeBefore: "7d"}, KindValidation, "Medication is missing refill_date"},
		{"other user's doctor", bob.ID, models.SetReminderRequest{Type: "doctor", ID: models.TargetID(doctor.ID), TimeBefore: "24h"}, KindNotFound, "Doctor not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Schedule(ctx, tt.userID, tt.req)
			assertKind(t, err, tt.want)
			if tt.msg != "" && err.Error() != tt.msg {
				t.Errorf("message = %q, want %q", err.Error(), tt.msg)
			}
		})
	}

	var count int64
	db.Model(&models.Reminder{}).Count(&count)
	if count != 1 {
		t.Errorf("reminder rows = %d, want 1", count)
	}
}

func TestReminderService_ListAndCancel(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	m, err := NewMedicationService(db).Create(ctx, alice.ID, models.MedicationRequest{Name: strPtr("Aspirin"), RefillDate: strPtr("2030-01-10")})
	if err != nil {
		t.Fatal(err)
	}

	svc := NewReminderService(db)
	first, err := svc.Schedule(ctx, alice.ID, models.SetReminderRequest{Type: "medication", ID: models.TargetID(m.ID), TimeBefore: "24h"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Schedule(ctx, alice.ID, models.SetReminderRequest{Type: "medication", ID: models.TargetID(m.ID), TimeBefore: "7d"})
	if err != nil {
		t.Fatal(err)
	}

	list, err := svc.List(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("list = %+v", list)
	}

	empty, err := svc.List(ctx, bob.ID)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("bob's list = %#v, %v", empty, err)
	}

	assertKind(t, svc.Cancel(ctx, bob.ID, first.ID), KindNotFound)
	if err := svc.Cancel(ctx, alice.ID, first.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	assertKind(t, svc.Cancel(ctx, alice.ID, first.ID), KindValidation)
}
