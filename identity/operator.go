// Package identity holds the API operator account.
package identity

import (
	"errors"
	"regexp"

	"github.com/nbutton23/zxcvbn-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordStrengthScore = 3
	passwordHashCost         = 12

	usernamePattern   = `^[a-zA-Z0-9_-]+$`
	minUsernameLength = 3
	maxUsernameLength = 32
)

var (
	usernameRegex = regexp.MustCompile(usernamePattern)

	ErrUsernameTooShort   = errors.New("username too short")
	ErrUsernameTooLong    = errors.New("username too long")
	ErrInvalidUsername    = errors.New("invalid username format")
	ErrWeakPassword       = errors.New("weak password")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Operator is the single account allowed to use the protected API. Only the password
// hash is kept in memory.
type Operator struct {
	Username     string
	PasswordHash string
}

// NewOperator validates the credentials and hashes the password.
func NewOperator(username, plainPassword string) (*Operator, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	if err := validatePassword(plainPassword, username); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(plainPassword)
	if err != nil {
		return nil, err
	}

	return &Operator{
		Username:     username,
		PasswordHash: passwordHash,
	}, nil
}

// Verify reports whether username and password match the operator.
func (o *Operator) Verify(username, password string) bool {
	if username != o.Username {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password))
	return err == nil
}

func validateUsername(username string) error {
	if len(username) < minUsernameLength {
		return ErrUsernameTooShort
	}
	if len(username) > maxUsernameLength {
		return ErrUsernameTooLong
	}
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// validatePassword checks the strength of the password, penalizing reuse of the username.
func validatePassword(password, username string) error {
	result := zxcvbn.PasswordStrength(password, []string{username})
	if result.Score < minPasswordStrengthScore {
		return ErrWeakPassword
	}
	return nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	return string(bytes), err
}
