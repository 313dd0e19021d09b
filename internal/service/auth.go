package service

import (
	"crypto/subtle"
)

// AuthService checks the shared admin secret.
type AuthService struct {
	secret []byte
}

// NewAuthService constructs an AuthService for the configured secret.
func NewAuthService(secret string) *AuthService {
	return &AuthService{secret: []byte(secret)}
}

// Validate reports whether candidate matches the configured secret. The
// comparison takes the same time wherever the first mismatch is. An empty
// configured secret matches nothing.
func (s *AuthService) Validate(candidate string) bool {
	if len(s.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(s.secret, []byte(candidate)) == 1
}
