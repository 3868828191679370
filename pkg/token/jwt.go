package token

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/vetstack/vetclinic-api/pkg/errors"
)

// The token subject encodes the actor kind and id as a prefixed string,
// e.g. "V12" for veterinarian 12.
const veterinarianSubjectPrefix = "V"

// Service issues and validates bearer tokens for veterinarian accounts.
type Service interface {
	Generate(veterinarianID int64) (string, error)
	VeterinarianID(token string) (int64, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) Service {
	return &jwtService{secret: []byte(secret), expiry: expiry}
}

func (s *jwtService) Generate(veterinarianID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   veterinarianSubjectPrefix + strconv.FormatInt(veterinarianID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VeterinarianID parses and verifies the token and returns the
// veterinarian id encoded in its subject.
func (s *jwtService) VeterinarianID(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, apperrors.Authentication("invalid token", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return 0, apperrors.Authentication("invalid token", nil)
	}

	if !strings.HasPrefix(claims.Subject, veterinarianSubjectPrefix) {
		return 0, apperrors.Authentication("invalid token subject", nil)
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(claims.Subject, veterinarianSubjectPrefix), 10, 64)
	if err != nil {
		return 0, apperrors.Authentication("invalid token subject", err)
	}
	return id, nil
}
