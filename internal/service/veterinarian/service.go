package veterinarian

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vetstack/vetclinic-api/internal/email"
	"github.com/vetstack/vetclinic-api/internal/model"
	"github.com/vetstack/vetclinic-api/internal/repository"
	apperrors "github.com/vetstack/vetclinic-api/pkg/errors"
	"github.com/vetstack/vetclinic-api/pkg/logger"
	"github.com/vetstack/vetclinic-api/pkg/security"
)

// Outbox event types emitted on account mutations.
const (
	EventVeterinarianCreated = "VETERINARIAN_CREATED"
	EventVeterinarianUpdated = "VETERINARIAN_UPDATED"
	EventVeterinarianDeleted = "VETERINARIAN_DELETED"
)

type Service struct {
	vetRepo    repository.VeterinarianRepository
	apptRepo   repository.AppointmentRepository
	outboxRepo repository.OutboxRepository
	hasher     security.PasswordHasher
	policy     security.PasswordPolicy
	emailSvc   email.Service
	logger     *logger.Logger
}

func NewService(
	vetRepo repository.VeterinarianRepository,
	apptRepo repository.AppointmentRepository,
	outboxRepo repository.OutboxRepository,
	hasher security.PasswordHasher,
	policy security.PasswordPolicy,
	emailSvc email.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		vetRepo:    vetRepo,
		apptRepo:   apptRepo,
		outboxRepo: outboxRepo,
		hasher:     hasher,
		policy:     policy,
		emailSvc:   emailSvc,
		logger:     log,
	}
}

func (s *Service) ListPublic(ctx context.Context) ([]*model.VeterinarianPublic, error) {
	vets, err := s.vetRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	public := make([]*model.VeterinarianPublic, 0, len(vets))
	for _, v := range vets {
		public = append(public, v.Public())
	}
	return public, nil
}

func (s *Service) ListFull(ctx context.Context) ([]*model.Veterinarian, error) {
	return s.vetRepo.List(ctx)
}

// ListAllAppointments returns every veterinarian's id paired with its
// appointments, including veterinarians with none.
func (s *Service) ListAllAppointments(ctx context.Context) ([]*model.VeterinarianAppointments, error) {
	vets, err := s.vetRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	appointments, err := s.apptRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byVet := make(map[int64][]*model.Appointment, len(vets))
	for _, a := range appointments {
		byVet[a.VeterinarianID] = append(byVet[a.VeterinarianID], a)
	}

	result := make([]*model.VeterinarianAppointments, 0, len(vets))
	for _, v := range vets {
		appts := byVet[v.ID]
		if appts == nil {
			appts = []*model.Appointment{}
		}
		result = append(result, &model.VeterinarianAppointments{
			ID:           v.ID,
			Appointments: appts,
		})
	}
	return result, nil
}

func (s *Service) GetPublic(ctx context.Context, id int64) (*model.VeterinarianPublic, error) {
	vet, err := s.vetRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return vet.Public(), nil
}

func (s *Service) GetFull(ctx context.Context, id int64) (*model.Veterinarian, error) {
	return s.vetRepo.Get(ctx, id)
}

// GetAppointments returns the appointments of one veterinarian,
// failing with not-found when the veterinarian does not exist.
func (s *Service) GetAppointments(ctx context.Context, id int64) ([]*model.Appointment, error) {
	if _, err := s.vetRepo.Get(ctx, id); err != nil {
		return nil, err
	}

	appointments, err := s.apptRepo.ListForVeterinarian(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointments == nil {
		appointments = []*model.Appointment{}
	}
	return appointments, nil
}

// Register validates the password before anything is persisted, so a
// weak password never leaves a partial record behind.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.Veterinarian, error) {
	if err := s.policy.Validate(req.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	vet := &model.Veterinarian{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Sex:          req.Sex,
		Languages:    emptyToNull(req.Languages),
		Description:  emptyToNull(req.Description),
		IsAdmin:      req.IsAdmin,
	}

	if err := s.vetRepo.Create(ctx, vet); err != nil {
		return nil, err
	}

	s.emitEvent(ctx, EventVeterinarianCreated, vet)

	if err := s.emailSvc.SendWelcome(vet.Email, vet.FirstName); err != nil {
		s.logger.Error(err, "failed to send welcome email", "email", vet.Email)
	}

	return vet, nil
}

// Update applies a patch to one veterinarian. All touched fields
// persist together or not at all.
func (s *Service) Update(ctx context.Context, id int64, req *UpdateRequest) (*model.Veterinarian, error) {
	vet, err := s.vetRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := req.Apply(vet); err != nil {
		return nil, err
	}

	if err := s.vetRepo.Update(ctx, vet); err != nil {
		return nil, err
	}

	s.emitEvent(ctx, EventVeterinarianUpdated, vet)
	return vet, nil
}

// Delete removes one veterinarian and returns the deleted record so
// the handler can build its confirmation message.
func (s *Service) Delete(ctx context.Context, id int64) (*model.Veterinarian, error) {
	vet, err := s.vetRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.vetRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.emitEvent(ctx, EventVeterinarianDeleted, vet)
	return vet, nil
}

// emitEvent queues a mutation event for the broker. Event loss is
// logged, never surfaced: the mutation itself already committed.
func (s *Service) emitEvent(ctx context.Context, eventType string, vet *model.Veterinarian) {
	payload, err := json.Marshal(vet)
	if err != nil {
		s.logger.Error(err, "failed to marshal outbox payload", "event_type", eventType)
		return
	}

	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue outbox event", "event_type", eventType)
	}
}

func emptyToNull(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// DeletedMessage is the confirmation body returned by the delete
// endpoint.
func DeletedMessage(vet *model.Veterinarian) string {
	return fmt.Sprintf("Veterinarian %s %s deleted successfully", vet.FirstName, vet.LastName)
}
