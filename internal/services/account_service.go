package services

import (
	"context"
	"errors"
	"strings"

	"selfcare/internal/auth"
	"selfcare/internal/models"

	"gorm.io/gorm"
)

type AccountService struct {
	db         *gorm.DB
	emails     *EmailService
	tokens     *auth.TokenManager
	bcryptCost int
}

func NewAccountService(db *gorm.DB, emails *EmailService, tokens *auth.TokenManager, bcryptCost int) *AccountService {
	return &AccountService{
		db:         db,
		emails:     emails,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register creates the user and sends the welcome email in one transaction,
// so a failed email leaves no account behind.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || req.Password == "" || email == "" {
		return nil, validationError("All fields are required.")
	}
	if !strings.Contains(email, "@") {
		return nil, validationError("Invalid email address.")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return nil, internalError("failed to check username", err)
	}
	if count > 0 {
		return nil, conflictError("Username already exists.")
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, internalError("failed to hash password", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflictError("Username already exists.")
			}
			return internalError("failed to create user", err)
		}
		if err := s.emails.SendWelcome(ctx, user); err != nil {
			return internalError("failed to send welcome email", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login checks the credentials and issues an access token.
func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return "", validationError("Username and password required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", unauthorizedError("Invalid credentials")
		}
		return "", internalError("failed to load user", err)
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return "", unauthorizedError("Invalid credentials")
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", internalError("failed to issue token", err)
	}
	return token, nil
}
