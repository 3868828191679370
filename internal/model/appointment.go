package model

import (
	"time"
)

// Appointment status constants
const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
)

// Appointment is a booking owned by one veterinarian. This service only
// exposes a read surface over appointments.
type Appointment struct {
	ID             int64     `db:"id" json:"id"`
	VeterinarianID int64     `db:"veterinarian_id" json:"veterinarian_id"`
	AnimalName     string    `db:"animal_name" json:"animal_name"`
	OwnerName      string    `db:"owner_name" json:"owner_name"`
	StartTime      time.Time `db:"start_time" json:"start_time"`
	EndTime        time.Time `db:"end_time" json:"end_time"`
	Status         string    `db:"status" json:"status"`
	Notes          *string   `db:"notes" json:"notes"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
