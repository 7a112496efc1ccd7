package domain

import (
	"errors"
	"strings"
)

// RoleStaff is the only role the console recognises.
const RoleStaff = "staff"

var (
	ErrEmptyUsername = errors.New("username is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrWeakPassword  = errors.New("password must be at least 8 characters")
)

// MinPasswordLength bounds staff passwords from below.
const MinPasswordLength = 8

// Member is a staff account allowed to operate the console.
type Member struct {
	Username     string
	PasswordHash []byte
}

// NewMember builds a member from an already hashed password.
func NewMember(username string, passwordHash []byte) (*Member, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if len(passwordHash) == 0 {
		return nil, ErrEmptyPassword
	}
	return &Member{Username: username, PasswordHash: append([]byte(nil), passwordHash...)}, nil
}

// ValidatePassword checks a plaintext password before hashing.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrEmptyPassword
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// NormalizeUsername trims and lowercases a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Clone returns a deep copy.
func (m *Member) Clone() *Member {
	if m == nil {
		return nil
	}
	return &Member{Username: m.Username, PasswordHash: append([]byte(nil), m.PasswordHash...)}
}
