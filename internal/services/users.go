package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/propmarket/backend/internal/models"
	"github.com/propmarket/backend/pkg/logger"
	"github.com/propmarket/backend/pkg/utils"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return models.NewValidationError("email", "Invalid email address")
	}
	return nil
}

// ValidatePassword enforces the signup password rules.
func ValidatePassword(password string) error {
	switch err := utils.CheckPasswordStrength(password); {
	case errors.Is(err, utils.ErrPasswordTooShort):
		return models.NewValidationError("password", "Password must be at least 6 characters long")
	case errors.Is(err, utils.ErrPasswordNoUpper):
		return models.NewValidationError("password", "Password must contain at least one uppercase letter")
	case errors.Is(err, utils.ErrPasswordNoSpecial):
		return models.NewValidationError("password", "Password must contain at least one special character")
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, models.NewValidationError("name", "Name is required")
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: &hash,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	logger.InfoWithUser(user.ID.String(), "user_registered", map[string]interface{}{
		"email": user.Email,
	})
	return &user, nil
}

// Authenticate checks email and password. Accounts without a password
// cannot sign in this way.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "email = ?", normalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.HasPassword() || !utils.CheckPassword(password, *user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindOrCreateExternalUser signs in a verified external identity. It matches
// on the provider subject first, then links an account with the same email,
// and otherwise creates a password-less user. It never grants admin.
func (s *UserService) FindOrCreateExternalUser(ctx context.Context, identity *ExternalIdentity) (*models.User, error) {
	if identity.Subject == "" {
		return nil, ErrInvalidCredentials
	}
	email := normalizeEmail(identity.Email)
	if email == "" || !identity.EmailVerified {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	err := s.DB.WithContext(ctx).First(&user, "google_id = ?", identity.Subject).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = s.DB.WithContext(ctx).First(&user, "email = ?", email).Error
	if err == nil {
		subject := identity.Subject
		user.GoogleID = &subject
		if user.AvatarURL == nil && identity.Picture != "" {
			picture := identity.Picture
			user.AvatarURL = &picture
		}
		if err := s.DB.WithContext(ctx).Save(&user).Error; err != nil {
			return nil, err
		}
		logger.InfoWithUser(user.ID.String(), "external_identity_linked", map[string]interface{}{
			"provider": "google",
		})
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	subject := identity.Subject
	user = models.User{
		Name:     strings.TrimSpace(identity.Name),
		Email:    email,
		GoogleID: &subject,
	}
	if user.Name == "" {
		user.Name = strings.SplitN(email, "@", 2)[0]
	}
	if identity.Picture != "" {
		picture := identity.Picture
		user.AvatarURL = &picture
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	logger.InfoWithUser(user.ID.String(), "external_user_created", map[string]interface{}{
		"provider": "google",
		"email":    user.Email,
	})
	return &user, nil
}

// GrantAdmin marks an existing account as administrator.
func (s *UserService) GrantAdmin(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "email = ?", normalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if user.IsAdmin {
		return &user, nil
	}

	user.IsAdmin = true
	if err := s.DB.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}

	logger.InfoWithUser(user.ID.String(), "admin_granted", nil)
	return &user, nil
}
