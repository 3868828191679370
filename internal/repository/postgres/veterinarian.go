package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vetstack/vetclinic-api/internal/model"
	"github.com/vetstack/vetclinic-api/internal/repository"
	apperrors "github.com/vetstack/vetclinic-api/pkg/errors"
)

type veterinarianRepository struct {
	db *sqlx.DB
}

func NewVeterinarianRepository(db *sqlx.DB) repository.VeterinarianRepository {
	return &veterinarianRepository{db: db}
}

func (r *veterinarianRepository) Create(ctx context.Context, vet *model.Veterinarian) error {
	query := `
		INSERT INTO veterinarians (
			first_name, last_name, email, password_hash, sex,
			languages, description, is_admin, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	vet.CreatedAt = time.Now()
	vet.UpdatedAt = vet.CreatedAt

	err := r.db.QueryRowContext(ctx, query,
		vet.FirstName,
		vet.LastName,
		vet.Email,
		vet.PasswordHash,
		vet.Sex,
		vet.Languages,
		vet.Description,
		vet.IsAdmin,
		vet.CreatedAt,
		vet.UpdatedAt,
	).Scan(&vet.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return apperrors.Conflict("email already registered", err)
		}
		return fmt.Errorf("failed to create veterinarian: %w", err)
	}
	return nil
}

func (r *veterinarianRepository) Get(ctx context.Context, id int64) (*model.Veterinarian, error) {
	query := `SELECT * FROM veterinarians WHERE id = $1`

	var vet model.Veterinarian
	if err := r.db.GetContext(ctx, &vet, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("veterinarian", err)
		}
		return nil, fmt.Errorf("failed to get veterinarian: %w", err)
	}
	return &vet, nil
}

func (r *veterinarianRepository) GetByEmail(ctx context.Context, email string) (*model.Veterinarian, error) {
	query := `SELECT * FROM veterinarians WHERE email = $1`

	var vet model.Veterinarian
	if err := r.db.GetContext(ctx, &vet, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("veterinarian", err)
		}
		return nil, fmt.Errorf("failed to get veterinarian by email: %w", err)
	}
	return &vet, nil
}

// Update persists all mutable fields in a single statement, so a patch
// either applies completely or not at all.
func (r *veterinarianRepository) Update(ctx context.Context, vet *model.Veterinarian) error {
	query := `
		UPDATE veterinarians SET
			first_name = $1,
			last_name = $2,
			email = $3,
			password_hash = $4,
			sex = $5,
			languages = $6,
			description = $7,
			updated_at = $8
		WHERE id = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		vet.FirstName,
		vet.LastName,
		vet.Email,
		vet.PasswordHash,
		vet.Sex,
		vet.Languages,
		vet.Description,
		time.Now(),
		vet.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return apperrors.Conflict("email already registered", err)
		}
		return fmt.Errorf("failed to update veterinarian: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("veterinarian", nil)
	}
	return nil
}

func (r *veterinarianRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM veterinarians WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete veterinarian: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("veterinarian", nil)
	}
	return nil
}

func (r *veterinarianRepository) List(ctx context.Context) ([]*model.Veterinarian, error) {
	query := `SELECT * FROM veterinarians ORDER BY id ASC`

	var vets []*model.Veterinarian
	if err := r.db.SelectContext(ctx, &vets, query); err != nil {
		return nil, fmt.Errorf("failed to list veterinarians: %w", err)
	}
	return vets, nil
}
