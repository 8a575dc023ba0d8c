package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"selfcare/internal/auth"
	"selfcare/internal/database/dbtest"
	"selfcare/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestAccountService(t *testing.T, db *gorm.DB, mailer Mailer) (*AccountService, *auth.TokenManager) {
	t.Helper()
	tokens, err := auth.NewTokenManager("test-secret", time.Hour, "selfcare")
	if err != nil {
		t.Fatal(err)
	}
	return NewAccountService(db, NewEmailService(mailer), tokens, bcrypt.MinCost), tokens
}

func TestAccountService_RegisterAndLogin(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	mailer := &fakeMailer{}
	svc, tokens := newTestAccountService(t, db, mailer)

	user, err := svc.Register(ctx, models.RegisterRequest{Username: "alice", Password: "pw1", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.PasswordHash == "pw1" || !auth.VerifyPassword(user.PasswordHash, "pw1") {
		t.Error("password not stored as a bcrypt hash")
	}
	if mailer.count() != 1 || mailer.sent[0].ToEmail != "a@x.com" {
		t.Errorf("welcome email not sent: %+v", mailer.sent)
	}

	token, err := svc.Login(ctx, models.LoginRequest{Username: "alice", Password: "pw1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := tokens.ValidateToken(token)
	if err != nil || claims.UserID != user.ID {
		t.Fatalf("token claims = %+v, %v", claims, err)
	}

	_, err = svc.Login(ctx, models.LoginRequest{Username: "alice", Password: "wrong"})
	assertKind(t, err, KindUnauthorized)

	_, err = svc.Login(ctx, models.LoginRequest{Username: "nobody", Password: "pw1"})
	assertKind(t, err, KindUnauthorized)

	_, err = svc.Login(ctx, models.LoginRequest{Username: "alice"})
	assertKind(t, err, KindValidation)
}

func TestAccountService_RegisterValidation(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	mailer := &fakeMailer{}
	svc, _ := newTestAccountService(t, db, mailer)

	if _, err := svc.Register(ctx, models.RegisterRequest{Username: "alice", Password: "pw1", Email: "a@x.com"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		req  models.RegisterRequest
		want Kind
	}{
		{"missing password", models.RegisterRequest{Username: "bob", Email: "b@x.com"}, KindValidation},
		{"blank username", models.RegisterRequest{Username: "  ", Password: "pw", Email: "b@x.com"}, KindValidation},
		{"bad email", models.RegisterRequest{Username: "bob", Password: "pw", Email: "bob"}, KindValidation},
		{"duplicate username", models.RegisterRequest{Username: "alice", Password: "other", Email: "c@x.com"}, KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			assertKind(t, err, tt.want)
		})
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("users = %d, want 1", count)
	}
	if mailer.count() != 1 {
		t.Errorf("emails = %d, want only the first welcome", mailer.count())
	}
}

func TestAccountService_RegisterRollsBackOnEmailFailure(t *testing.T) {
	db := dbtest.New(t)
	svc, _ := newTestAccountService(t, db, &fakeMailer{err: errors.New("provider unavailable")})

	_, err := svc.Register(context.Background(), models.RegisterRequest{Username: "alice", Password: "pw1", Email: "a@x.com"})
	assertKind(t, err, KindInternal)

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("users = %d, want 0 after rollback", count)
	}
}
