package security

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/vetstack/vetclinic-api/pkg/errors"
)

var ErrHashingFailed = errors.New("password hashing failed")

// PasswordHasher provides interface for password operations
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashedPassword, password string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new password hasher using bcrypt
func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (b *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(bytes), nil
}

func (b *bcryptHasher) Compare(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// PasswordPolicy is the configurable strength rule set applied at
// registration, before anything is written to the database.
type PasswordPolicy struct {
	MinLength      int
	RequireLetter  bool
	RequireDigit   bool
	RequireSpecial bool
}

// DefaultPasswordPolicy returns the default strength requirements.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:     8,
		RequireLetter: true,
		RequireDigit:  true,
	}
}

// Validate checks the password against the policy and returns a
// validation error describing the first unmet requirement.
func (p PasswordPolicy) Validate(password string) error {
	if len(password) < p.MinLength {
		return apperrors.Validation(
			fmt.Sprintf("password must be at least %d characters long", p.MinLength), nil)
	}

	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	var missing []string
	if p.RequireLetter && !hasLetter {
		missing = append(missing, "a letter")
	}
	if p.RequireDigit && !hasDigit {
		missing = append(missing, "a digit")
	}
	if p.RequireSpecial && !hasSpecial {
		missing = append(missing, "a special character")
	}
	if len(missing) > 0 {
		return apperrors.Validation(
			fmt.Sprintf("password must contain %s", strings.Join(missing, ", ")), nil)
	}

	return nil
}
