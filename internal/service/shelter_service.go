package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/shelterhub/backend/internal/access"
	"github.com/shelterhub/backend/internal/domain"
	"github.com/shelterhub/backend/internal/repository/ports"
	"github.com/shelterhub/backend/internal/util"
)

type ShelterService struct {
	shelters ports.ShelterRepository
	accounts ports.AccountRepository
}

func NewShelterService(shelters ports.ShelterRepository, accounts ports.AccountRepository) *ShelterService {
	return &ShelterService{shelters: shelters, accounts: accounts}
}

func (s *ShelterService) List(ctx context.Context) ([]domain.Shelter, error) {
	return s.shelters.List(ctx)
}

func (s *ShelterService) Get(ctx context.Context, id uuid.UUID) (*domain.Shelter, error) {
	return s.shelters.FindByID(ctx, id)
}

func (s *ShelterService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Shelter, error) {
	if _, err := s.accounts.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.shelters.ListByOwner(ctx, ownerID)
}

func (s *ShelterService) Create(ctx context.Context, raw map[string]any) (*domain.Shelter, error) {
	in, err := parseShelterInput(raw, true)
	if err != nil {
		return nil, err
	}
	if in.OwnerID != nil {
		if _, err := s.accounts.FindByID(ctx, *in.OwnerID); err != nil {
			return nil, err
		}
	}
	return s.shelters.Insert(ctx, in.fields())
}

// Update enforces the owner-or-admin rule against the stored shelter before
// validating the payload. A shelter without an owner can only be changed by
// an administrator.
func (s *ShelterService) Update(ctx context.Context, claims *util.Claims, id uuid.UUID, raw map[string]any) (*domain.Shelter, error) {
	existing, err := s.shelters.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Evaluate(claims, nil, ownerOf(existing)).Err(); err != nil {
		return nil, err
	}

	in, err := parseShelterInput(raw, false)
	if err != nil {
		return nil, err
	}
	if in.OwnerID != nil {
		if _, err := s.accounts.FindByID(ctx, *in.OwnerID); err != nil {
			return nil, err
		}
	}
	return s.shelters.Update(ctx, id, in.fields())
}

func (s *ShelterService) Delete(ctx context.Context, claims *util.Claims, id uuid.UUID) error {
	existing, err := s.shelters.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := access.Evaluate(claims, nil, ownerOf(existing)).Err(); err != nil {
		return err
	}
	return s.shelters.Delete(ctx, id)
}

func (s *ShelterService) Stats(ctx context.Context) (*domain.ShelterStats, error) {
	return s.shelters.Stats(ctx)
}

// ownerOf requests an ownership check even for ownerless shelters: the nil
// UUID matches no caller, so only administrators pass.
func ownerOf(shelter *domain.Shelter) *uuid.UUID {
	if shelter.OwnerID != nil {
		return shelter.OwnerID
	}
	nobody := uuid.Nil
	return &nobody
}
