package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/moodsyncai/moodsync/internal/apperrors"
	"github.com/moodsyncai/moodsync/internal/database"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles registration and credential checks. Password hashing is
// delegated to bcrypt; this service never stores or returns plaintext.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Register(ctx context.Context, username, email, password, name string) (*database.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if username == "" || email == "" || password == "" || name == "" {
		return nil, apperrors.NewValidationError("all fields are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.NewValidationError("invalid email format")
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters long")
	}

	var existing database.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", email, username).
		First(&existing).Error
	if err == nil {
		return nil, apperrors.NewValidationError("user already exists with this email or username")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewDatabaseError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &database.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return user, nil
}

// Authenticate checks email/password credentials and returns the user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*database.User, error) {
	var user database.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}
	return &user, nil
}

func (s *UserService) ByID(ctx context.Context, id string) (*database.User, error) {
	var user database.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &user, nil
}
