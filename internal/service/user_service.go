package service

import (
	"errors"
	"regexp"

	"llm-chat-demo/backend/internal/models"
	apperrors "llm-chat-demo/backend/pkg/errors"
	"llm-chat-demo/backend/pkg/jwt"

	"gorm.io/gorm"
)

// MinPasswordLength is the shortest password accepted at registration
// and on password change.
const MinPasswordLength = 6

// emailPattern requires one "@" between non-whitespace segments and a
// dot somewhere in the domain part.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// invalidCredentials is shared by every authentication failure mode so
// responses cannot be used to enumerate accounts.
const invalidCredentials = "invalid email or password"

// UserService handles registration, authentication and profile updates
type UserService struct {
	db  *gorm.DB
	jwt *jwt.Service
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB, jwtService *jwt.Service) *UserService {
	return &UserService{db: db, jwt: jwtService}
}

// ValidEmail reports whether the address passes the format check
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Register creates a new account with a salted password hash.
// Input is validated before any store access.
func (s *UserService) Register(req *models.RegisterRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("email and password are required")
	}
	if !ValidEmail(req.Email) {
		return nil, apperrors.NewValidationError("invalid email format")
	}
	if len(req.Password) < MinPasswordLength {
		return nil, apperrors.NewValidationError("password must be at least 6 characters")
	}

	var existing models.User
	result := s.db.Where("email = ?", req.Email).First(&existing)
	if result.RowsAffected > 0 {
		return nil, apperrors.NewConflictError("this email is already registered")
	}

	hash, err := models.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to process password")
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
	}

	if err := s.db.Create(&user).Error; err != nil {
		// The unique index is the backstop for registration races
		appErr := apperrors.TranslateStore(err)
		if appErr.Code == apperrors.CodeConflict {
			return nil, apperrors.NewConflictError("this email is already registered")
		}
		return nil, appErr
	}

	return &user, nil
}

// Authenticate verifies credentials and issues a session token
func (s *UserService) Authenticate(req *models.LoginRequest) (*models.User, string, error) {
	if req.Email == "" || req.Password == "" {
		return nil, "", apperrors.NewAuthError(invalidCredentials)
	}
	if !ValidEmail(req.Email) {
		return nil, "", apperrors.NewAuthError(invalidCredentials)
	}

	var user models.User
	result := s.db.Where("email = ?", req.Email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.NewAuthError(invalidCredentials)
		}
		return nil, "", apperrors.TranslateStore(result.Error)
	}

	if !models.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, "", apperrors.NewAuthError(invalidCredentials)
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, "", apperrors.NewStoreError("failed to issue session token")
	}

	return &user, token, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	result := s.db.First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		return nil, apperrors.TranslateStore(result.Error)
	}
	return &user, nil
}

// UpdateProfile changes the display name and, when a new password is
// supplied, re-hashes the password after verifying the current one.
func (s *UserService) UpdateProfile(userID uint, req *models.UpdateProfileRequest) (*models.User, error) {
	var user models.User
	result := s.db.First(&user, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAuthError("user not found")
		}
		return nil, apperrors.TranslateStore(result.Error)
	}

	updates := map[string]interface{}{"name": req.Name}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return nil, apperrors.NewValidationError("current password is required")
		}
		if !models.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
			return nil, apperrors.NewAuthError("current password is incorrect")
		}
		if len(req.NewPassword) < MinPasswordLength {
			return nil, apperrors.NewValidationError("new password must be at least 6 characters")
		}

		hash, err := models.HashPassword(req.NewPassword)
		if err != nil {
			return nil, apperrors.NewStoreError("failed to process password")
		}
		updates["password_hash"] = hash
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, apperrors.TranslateStore(err)
	}

	return &user, nil
}
