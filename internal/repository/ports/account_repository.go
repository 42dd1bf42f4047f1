package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/shelterhub/backend/internal/domain"
)

// AccountRepository is the persistence contract for accounts. FindByEmail is
// the only method that loads the password hash; every other query projects it
// out.
type AccountRepository interface {
	List(ctx context.Context) ([]domain.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	// FindByEmail returns (nil, nil) when no account carries the email.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Insert(ctx context.Context, fields map[string]any) (*domain.Account, error)
	// Update applies the given column set. Keys come from the validators,
	// never from the client.
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Account, error)
	UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByRole(ctx context.Context) (map[domain.Role]int, error)
	// UpsertByEmail creates or refreshes an account for federated sign-in.
	UpsertByEmail(ctx context.Context, email, name string, imageURL *string) (*domain.Account, error)
}
