package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/shelterhub/backend/internal/domain"
)

type ShelterRepository interface {
	List(ctx context.Context) ([]domain.Shelter, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Shelter, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Shelter, error)
	Insert(ctx context.Context, fields map[string]any) (*domain.Shelter, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Shelter, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*domain.ShelterStats, error)
}
