package model

import (
	"time"
)

// Veterinarian represents one clinic staff account.
type Veterinarian struct {
	ID           int64     `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Sex          string    `db:"sex" json:"sex"`
	Languages    *string   `db:"languages" json:"languages"`
	Description  *string   `db:"description" json:"description"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// VeterinarianPublic is the projection returned by the unauthenticated
// list and detail endpoints.
type VeterinarianPublic struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Description *string `json:"description"`
	Email       string  `json:"email"`
	Sex         string  `json:"sex"`
	Languages   *string `json:"languages"`
}

// Public returns the public projection of the record.
func (v *Veterinarian) Public() *VeterinarianPublic {
	return &VeterinarianPublic{
		FirstName:   v.FirstName,
		LastName:    v.LastName,
		Description: v.Description,
		Email:       v.Email,
		Sex:         v.Sex,
		Languages:   v.Languages,
	}
}

// VeterinarianAppointments pairs a veterinarian id with its appointments
// for the admin-only appointment listing.
type VeterinarianAppointments struct {
	ID           int64          `json:"id"`
	Appointments []*Appointment `json:"appointments"`
}

// RegisterRequest represents registration parameters. Languages and
// description are the two nullable fields: empty input is normalized to
// NULL before storage.
type RegisterRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	Sex         string `json:"sex" binding:"required"`
	Languages   string `json:"languages"`
	Description string `json:"description"`
	IsAdmin     bool   `json:"is_admin"`
}
