package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/vetstack/vetclinic-api/internal/model"
	"github.com/vetstack/vetclinic-api/internal/repository"
	"github.com/vetstack/vetclinic-api/internal/service/authz"
	apperrors "github.com/vetstack/vetclinic-api/pkg/errors"
	"github.com/vetstack/vetclinic-api/pkg/token"
)

// One generic message for every credential failure, so callers cannot
// probe which email addresses exist.
const invalidCredentialsMessage = "Invalid email or password"

const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
)

type Service struct {
	vetRepo  repository.VeterinarianRepository
	tokenSvc token.Service
	hasher   PasswordComparer
	attempts *cache.Cache
}

// PasswordComparer is the subset of the password hasher login needs.
type PasswordComparer interface {
	Compare(hashedPassword, password string) bool
}

func NewService(vetRepo repository.VeterinarianRepository, tokenSvc token.Service, hasher PasswordComparer) *Service {
	return &Service{
		vetRepo:  vetRepo,
		tokenSvc: tokenSvc,
		hasher:   hasher,
		attempts: cache.New(lockoutDuration, 2*lockoutDuration),
	}
}

// Login verifies the credentials and issues a bearer token encoding
// the veterinarian's identity. Repeated failures for one email lock
// further attempts out for the lockout window.
func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	if s.isLockedOut(email) {
		return nil, apperrors.Authentication(invalidCredentialsMessage, nil)
	}

	vet, err := s.vetRepo.GetByEmail(ctx, email)
	if err != nil {
		s.recordFailure(email)
		return nil, apperrors.Authentication(invalidCredentialsMessage, nil)
	}

	if !s.hasher.Compare(vet.PasswordHash, password) {
		s.recordFailure(email)
		return nil, apperrors.Authentication(invalidCredentialsMessage, nil)
	}

	s.attempts.Delete(email)

	signed, err := s.tokenSvc.Generate(vet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{
		Email: vet.Email,
		Token: signed,
	}, nil
}

// ResolveActor parses the bearer token and loads the referenced
// account so administrator status reflects the current row, not the
// role at token-issue time.
func (s *Service) ResolveActor(ctx context.Context, bearerToken string) (*authz.Actor, error) {
	id, err := s.tokenSvc.VeterinarianID(bearerToken)
	if err != nil {
		return nil, err
	}

	vet, err := s.vetRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Authentication("invalid token", err)
	}

	return &authz.Actor{
		VeterinarianID: vet.ID,
		Admin:          vet.IsAdmin,
	}, nil
}

func (s *Service) isLockedOut(email string) bool {
	count, found := s.attempts.Get(email)
	return found && count.(int) >= maxLoginAttempts
}

func (s *Service) recordFailure(email string) {
	if count, found := s.attempts.Get(email); found {
		s.attempts.Set(email, count.(int)+1, cache.DefaultExpiration)
		return
	}
	s.attempts.Set(email, 1, cache.DefaultExpiration)
}
