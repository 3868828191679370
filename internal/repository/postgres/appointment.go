package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vetstack/vetclinic-api/internal/model"
	"github.com/vetstack/vetclinic-api/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) ListForVeterinarian(ctx context.Context, veterinarianID int64) ([]*model.Appointment, error) {
	query := `
		SELECT id, veterinarian_id, animal_name, owner_name,
			   start_time, end_time, status, notes,
			   created_at, updated_at
		FROM appointments
		WHERE veterinarian_id = $1
		ORDER BY start_time ASC
	`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, veterinarianID); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListAll(ctx context.Context) ([]*model.Appointment, error) {
	query := `
		SELECT id, veterinarian_id, animal_name, owner_name,
			   start_time, end_time, status, notes,
			   created_at, updated_at
		FROM appointments
		ORDER BY veterinarian_id ASC, start_time ASC
	`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
