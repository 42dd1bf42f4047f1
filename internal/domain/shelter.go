package domain

import (
	"time"

	"github.com/google/uuid"
)

// Shelter is an animal shelter, optionally owned by an account. Reads embed a
// summary of the owner so clients do not need a second round trip.
type Shelter struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Address   string        `db:"address" json:"address"`
	Latitude  *float64      `db:"latitude" json:"latitude,omitempty"`
	Longitude *float64      `db:"longitude" json:"longitude,omitempty"`
	Capacity  *int          `db:"capacity" json:"capacity,omitempty"`
	Email     *string       `db:"email" json:"email,omitempty"`
	Phone     *string       `db:"phone" json:"phone,omitempty"`
	Active    bool          `db:"active" json:"active"`
	OwnerID   *uuid.UUID    `db:"owner_id" json:"owner_id,omitempty"`
	Owner     *OwnerSummary `db:"-" json:"owner,omitempty"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// OwnerSummary is the slice of the owning account exposed on shelter reads.
type OwnerSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

type ShelterStats struct {
	Total         int `db:"total" json:"total"`
	Active        int `db:"active" json:"active"`
	TotalCapacity int `db:"total_capacity" json:"total_capacity"`
}
