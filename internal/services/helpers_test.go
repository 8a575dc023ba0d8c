package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"selfcare/internal/config"
	"selfcare/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []Email
	err  error
}

func (m *fakeMailer) Send(_ context.Context, email Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

var testPagination = config.PaginationConfig{DefaultLimit: 5, MaxLimit: 100}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func mustDate(t *testing.T, s string) *datatypes.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil || d == nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{Username: username, PasswordHash: "x", Email: username + "@example.com"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func assertKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if svcErr.Kind != want {
		t.Fatalf("kind = %s, want %s (%v)", svcErr.Kind, want, err)
	}
}
