package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vetstack/vetclinic-api/internal/model"
)

// All repository interfaces in one file
type (
	// VeterinarianRepository handles veterinarian account persistence.
	VeterinarianRepository interface {
		Create(ctx context.Context, vet *model.Veterinarian) error
		Get(ctx context.Context, id int64) (*model.Veterinarian, error)
		GetByEmail(ctx context.Context, email string) (*model.Veterinarian, error)
		Update(ctx context.Context, vet *model.Veterinarian) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Veterinarian, error)
	}

	// AppointmentRepository provides the read surface over appointments.
	AppointmentRepository interface {
		ListForVeterinarian(ctx context.Context, veterinarianID int64) ([]*model.Appointment, error)
		ListAll(ctx context.Context) ([]*model.Appointment, error)
	}

	// OutboxRepository queues mutation events for the broker.
	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
