package services

import (
	"context"
	"testing"

	"selfcare/internal/database/dbtest"
	"selfcare/internal/models"
)

func TestMedicationService_CRUD(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	svc := NewMedicationService(db)

	m, err := svc.Create(ctx, alice.ID, models.MedicationRequest{
		Name:       strPtr("Aspirin"),
		Dosage:     strPtr("10mg"),
		Time:       strPtr("morning"),
		RefillDate: strPtr("2025-06-10"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Get(ctx, alice.ID, m.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp := got.Response()
	if resp.Time != "morning" || resp.RefillDate != "2025-06-10" || !resp.IsCurrent || resp.EndDate != models.NoDate {
		t.Errorf("unexpected stored medication: %+v", resp)
	}

	_, err = svc.Update(ctx, alice.ID, m.ID, models.MedicationRequest{
		IsCurrent: boolPtr(false),
		EndDate:   strPtr("2025-07-01"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = svc.Get(ctx, alice.ID, m.ID)
	if got.IsCurrent || models.FormatDate(got.EndDate) != "2025-07-01" || got.Dosage != "10mg" {
		t.Errorf("after update: %+v", got.Response())
	}

	_, err = svc.Update(ctx, alice.ID, m.ID, models.MedicationRequest{RefillDate: strPtr("garbage")})
	assertKind(t, err, KindValidation)
	got, _ = svc.Get(ctx, alice.ID, m.ID)
	if models.FormatDate(got.RefillDate) != "2025-06-10" {
		t.Errorf("refill_date changed after failed update: %s", models.FormatDate(got.RefillDate))
	}

	_, err = svc.Update(ctx, alice.ID, m.ID, models.MedicationRequest{IsCurrent: boolPtr(true)})
	if err != nil {
		t.Fatal(err)
	}
	got, _ = svc.Get(ctx, alice.ID, m.ID)
	if !got.IsCurrent || got.EndDate != nil {
		t.Errorf("end_date should be cleared once current: %+v", got.Response())
	}

	if err := svc.Delete(ctx, alice.ID, m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = svc.Get(ctx, alice.ID, m.ID)
	assertKind(t, err, KindNotFound)
}

func TestMedicationService_OwnerScoped(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	svc := NewMedicationService(db)

	m, err := svc.Create(ctx, alice.ID, models.MedicationRequest{Name: strPtr("Aspirin")})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Get(ctx, bob.ID, m.ID)
	assertKind(t, err, KindNotFound)

	_, err = svc.Update(ctx, bob.ID, m.ID, models.MedicationRequest{Name: strPtr("Stolen")})
	assertKind(t, err, KindNotFound)

	assertKind(t, svc.Delete(ctx, bob.ID, m.ID), KindNotFound)

	got, err := svc.Get(ctx, alice.ID, m.ID)
	if err != nil || got.Name != "Aspirin" {
		t.Fatalf("owner's medication affected: %+v, %v", got, err)
	}

	_, err = svc.Get(ctx, alice.ID, 9999)
	assertKind(t, err, KindNotFound)
}

func TestMedicationService_DeleteCancelsReminders(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	meds := NewMedicationService(db)
	reminders := NewReminderService(db)

	m, err := meds.Create(ctx, alice.ID, models.MedicationRequest{Name: strPtr("Aspirin"), RefillDate: strPtr("2030-01-10")})
	if err != nil {
		t.Fatal(err)
	}
	r, err := reminders.Schedule(ctx, alice.ID, models.SetReminderRequest{Type: "medication", ID: models.TargetID(m.ID), TimeBefore: "7d"})
	if err != nil {
		t.Fatal(err)
	}

	if err := meds.Delete(ctx, alice.ID, m.ID); err != nil {
		t.Fatal(err)
	}

	var stored models.Reminder
	if err := db.First(&stored, r.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.ReminderCancelled {
		t.Errorf("status = %s, want cancelled", stored.Status)
	}
}

func TestMedicationService_UpdateReschedulesReminders(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	meds := NewMedicationService(db)
	reminders := NewReminderService(db)

	m, err := meds.Create(ctx, alice.ID, models.MedicationRequest{Name: strPtr("Aspirin"), RefillDate: strPtr("2030-01-10")})
	if err != nil {
		t.Fatal(err)
	}
	r, err := reminders.Schedule(ctx, alice.ID, models.SetReminderRequest{Type: "medication", ID: models.TargetID(m.ID), TimeBefore: "7d"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := meds.Update(ctx, alice.ID, m.ID, models.MedicationRequest{RefillDate: strPtr("2030-02-10")}); err != nil {
		t.Fatal(err)
	}
	var stored models.Reminder
	if err := db.First(&stored, r.ID).Error; err != nil {
		t.Fatal(err)
	}
	if got := stored.Response(); got.AnchorDate != "2030-02-10" || got.ScheduledTime != "2030-02-03T00:00:00Z" || got.Status != models.ReminderPending {
		t.Errorf("after move got %+v", got)
	}

	if _, err := meds.Update(ctx, alice.ID, m.ID, models.MedicationRequest{RefillDate: strPtr("None")}); err != nil {
		t.Fatal(err)
	}
	if err := db.First(&stored, r.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.ReminderCancelled {
		t.Errorf("after clear status = %s, want cancelled", stored.Status)
	}
}
