package jwt

import (
	"time"
)

// DefaultExpiry is how long a session token stays valid.
const DefaultExpiry = 7 * 24 * time.Hour

// Service is a wrapper for session token operations
type Service struct {
	secretKey string
	expiry    time.Duration
}

// NewService creates a new token service
func NewService(secretKey string, expiry time.Duration) *Service {
	if secretKey == "" {
		secretKey = getSecretKey()
	}

	if expiry == 0 {
		expiry = DefaultExpiry
	}

	return &Service{
		secretKey: secretKey,
		expiry:    expiry,
	}
}

// GenerateToken signs a session token for a user
func (s *Service) GenerateToken(userID uint) (string, error) {
	return GenerateToken(userID, s.secretKey, s.expiry)
}

// ValidateToken verifies a session token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*SessionClaims, error) {
	return ValidateToken(tokenString, s.secretKey)
}

// Expiry returns the configured token lifetime
func (s *Service) Expiry() time.Duration {
	return s.expiry
}
