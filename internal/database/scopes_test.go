package database_test

import (
	"math"
	"testing"

	"selfcare/internal/database"
	"selfcare/internal/database/dbtest"
	"selfcare/internal/models"

	"gorm.io/gorm"
)

func TestScopes(t *testing.T) {
	db := dbtest.New(t)

	users := []models.User{
		{Username: "alice", PasswordHash: "x", Email: "a@example.com"},
		{Username: "bob", PasswordHash: "x", Email: "b@example.com"},
	}
	if err := db.Create(&users).Error; err != nil {
		t.Fatalf("create users: %v", err)
	}

	meds := []models.Medication{
		{UserID: users[0].ID, Name: "Aspirin", Dosage: "20mg", IsCurrent: true},
		{UserID: users[0].ID, Name: "Ibuprofen", Dosage: "10mg", IsCurrent: true},
		{UserID: users[0].ID, Name: "aspirin extra", Dosage: "10mg", IsCurrent: true},
		{UserID: users[0].ID, Name: "100% juice", Dosage: "1", IsCurrent: true},
		{UserID: users[0].ID, Name: "snake_oil", Dosage: "1", IsCurrent: true},
		{UserID: users[1].ID, Name: "Aspirin", Dosage: "5mg", IsCurrent: true},
	}
	if err := db.Create(&meds).Error; err != nil {
		t.Fatalf("create medications: %v", err)
	}

	names := func(scopes ...func(*gorm.DB) *gorm.DB) []string {
		t.Helper()
		var got []models.Medication
		if err := db.Model(&models.Medication{}).Scopes(scopes...).Find(&got).Error; err != nil {
			t.Fatalf("query: %v", err)
		}
		out := make([]string, len(got))
		for i, m := range got {
			out[i] = m.Name
		}
		return out
	}

	tests := []struct {
		name   string
		scopes []func(*gorm.DB) *gorm.DB
		want   []string
	}{
		{
			name:   "owned by",
			scopes: []func(*gorm.DB) *gorm.DB{database.OwnedBy(users[1].ID)},
			want:   []string{"Aspirin"},
		},
		{
			name:   "case insensitive substring",
			scopes: []func(*gorm.DB) *gorm.DB{database.OwnedBy(users[0].ID), database.NameContains("ASPI"), database.OrderBy("id", false)},
			want:   []string{"Aspirin", "aspirin extra"},
		},
		{
			name:   "percent is literal",
			scopes: []func(*gorm.DB) *gorm.DB{database.OwnedBy(users[0].ID), database.NameContains("%")},
			want:   []string{"100% juice"},
		},
		{
			name:   "underscore is literal",
			scopes: []func(*gorm.DB) *gorm.DB{database.OwnedBy(users[0].ID), database.NameContains("_")},
			want:   []string{"snake_oil"},
		},
		{
			name:   "blank term matches all",
			scopes: []func(*gorm.DB) *gorm.DB{database.OwnedBy(users[0].ID), database.NameContains("  "), database.OrderBy("id", false)},
			want:   []string{"Aspirin", "Ibuprofen", "aspirin extra", "100% juice", "snake_oil"},
		},
		{
			name:   "ties broken by id in same direction",
			scopes: []func(*gorm.DB) *gorm.DB{database.OwnedBy(users[0].ID), database.OrderBy("dosage", true)},
			want:   []string{"Aspirin", "aspirin extra", "Ibuprofen", "snake_oil", "100% juice"},
		},
		{
			name:   "paginate",
			scopes: []func(*gorm.DB) *gorm.DB{database.OwnedBy(users[0].ID), database.OrderBy("id", false), database.Paginate(2, 2)},
			want:   []string{"aspirin extra", "100% juice"},
		},
		{
			name:   "page past the end",
			scopes: []func(*gorm.DB) *gorm.DB{database.OwnedBy(users[0].ID), database.OrderBy("id", false), database.Paginate(9, 2)},
			want:   []string{},
		},
		{
			name:   "huge page does not wrap around",
			scopes: []func(*gorm.DB) *gorm.DB{database.OwnedBy(users[0].ID), database.OrderBy("id", false), database.Paginate(math.MaxInt, 2)},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(tt.scopes...)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
