package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered user. The password hash is tagged out of JSON so it
// can never leak into an outward payload regardless of which query loaded the
// row.
type Account struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	Active       bool      `db:"active" json:"active"`
	ImageURL     *string   `db:"image_url" json:"image_url,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type AccountStats struct {
	Total  int          `json:"total"`
	Active int          `json:"active"`
	ByRole map[Role]int `json:"by_role"`
}
