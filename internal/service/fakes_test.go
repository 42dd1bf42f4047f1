package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/shelterhub/backend/internal/apperr"
	"github.com/shelterhub/backend/internal/domain"
	"github.com/shelterhub/backend/internal/media"
)

// memAccountRepo is a behavioral in-memory stand-in for the Postgres
// repository, including its error translation.
type memAccountRepo struct {
	byID map[uuid.UUID]*domain.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{byID: map[uuid.UUID]*domain.Account{}}
}

func (m *memAccountRepo) add(account *domain.Account) *domain.Account {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	m.byID[account.ID] = account
	return account
}

// sanitized mirrors the outward column projection: no password hash.
func sanitized(account *domain.Account) *domain.Account {
	clone := *account
	clone.PasswordHash = ""
	return &clone
}

func (m *memAccountRepo) List(ctx context.Context) ([]domain.Account, error) {
	out := make([]domain.Account, 0, len(m.byID))
	for _, account := range m.byID {
		out = append(out, *sanitized(account))
	}
	return out, nil
}

func (m *memAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, ok := m.byID[id]
	if !ok {
		return nil, apperr.NotFound("account not found")
	}
	return sanitized(account), nil
}

func (m *memAccountRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	for _, account := range m.byID {
		if account.Email == email {
			clone := *account
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memAccountRepo) Insert(ctx context.Context, fields map[string]any) (*domain.Account, error) {
	account := &domain.Account{ID: uuid.New(), Active: true, CreatedAt: time.Now()}
	applyAccountFields(account, fields)
	for _, existing := range m.byID {
		if existing.Email == account.Email {
			return nil, apperr.Conflict("account violates a unique constraint")
		}
	}
	m.byID[account.ID] = account
	return sanitized(account), nil
}

func (m *memAccountRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Account, error) {
	account, ok := m.byID[id]
	if !ok {
		return nil, apperr.NotFound("account not found")
	}
	applyAccountFields(account, fields)
	return sanitized(account), nil
}

func (m *memAccountRepo) UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	account, ok := m.byID[id]
	if !ok {
		return apperr.NotFound("account not found")
	}
	account.ImageURL = &imageURL
	return nil
}

func (m *memAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return apperr.NotFound("account not found")
	}
	delete(m.byID, id)
	return nil
}

func (m *memAccountRepo) CountByRole(ctx context.Context) (map[domain.Role]int, error) {
	counts := map[domain.Role]int{domain.RoleMember: 0, domain.RoleAdministrator: 0}
	for _, account := range m.byID {
		if account.Active {
			counts[account.Role]++
		}
	}
	return counts, nil
}

func (m *memAccountRepo) UpsertByEmail(ctx context.Context, email, name string, imageURL *string) (*domain.Account, error) {
	for _, account := range m.byID {
		if account.Email == email {
			if name != "" {
				account.Name = name
			}
			if imageURL != nil {
				account.ImageURL = imageURL
			}
			return sanitized(account), nil
		}
	}
	account := &domain.Account{
		ID: uuid.New(), Name: name, Email: email,
		Role: domain.RoleMember, Active: true, ImageURL: imageURL,
		CreatedAt: time.Now(),
	}
	m.byID[account.ID] = account
	return sanitized(account), nil
}

func applyAccountFields(account *domain.Account, fields map[string]any) {
	for key, value := range fields {
		switch key {
		case "name":
			account.Name = value.(string)
		case "email":
			account.Email = value.(string)
		case "password_hash":
			account.PasswordHash = value.(string)
		case "role":
			account.Role = value.(domain.Role)
		case "active":
			account.Active = value.(bool)
		case "phone":
			phone := value.(string)
			account.Phone = &phone
		}
	}
}

type memShelterRepo struct {
	byID map[uuid.UUID]*domain.Shelter
}

func newMemShelterRepo() *memShelterRepo {
	return &memShelterRepo{byID: map[uuid.UUID]*domain.Shelter{}}
}

func (m *memShelterRepo) add(shelter *domain.Shelter) *domain.Shelter {
	if shelter.ID == uuid.Nil {
		shelter.ID = uuid.New()
	}
	m.byID[shelter.ID] = shelter
	return shelter
}

func (m *memShelterRepo) List(ctx context.Context) ([]domain.Shelter, error) {
	out := make([]domain.Shelter, 0, len(m.byID))
	for _, shelter := range m.byID {
		out = append(out, *shelter)
	}
	return out, nil
}

func (m *memShelterRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Shelter, error) {
	shelter, ok := m.byID[id]
	if !ok {
		return nil, apperr.NotFound("shelter not found")
	}
	clone := *shelter
	return &clone, nil
}

func (m *memShelterRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Shelter, error) {
	out := []domain.Shelter{}
	for _, shelter := range m.byID {
		if shelter.OwnerID != nil && *shelter.OwnerID == ownerID {
			out = append(out, *shelter)
		}
	}
	return out, nil
}

func (m *memShelterRepo) Insert(ctx context.Context, fields map[string]any) (*domain.Shelter, error) {
	shelter := &domain.Shelter{ID: uuid.New(), Active: true, CreatedAt: time.Now()}
	applyShelterFields(shelter, fields)
	m.byID[shelter.ID] = shelter
	clone := *shelter
	return &clone, nil
}

func (m *memShelterRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Shelter, error) {
	shelter, ok := m.byID[id]
	if !ok {
		return nil, apperr.NotFound("shelter not found")
	}
	applyShelterFields(shelter, fields)
	clone := *shelter
	return &clone, nil
}

func (m *memShelterRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return apperr.NotFound("shelter not found")
	}
	delete(m.byID, id)
	return nil
}

func (m *memShelterRepo) Stats(ctx context.Context) (*domain.ShelterStats, error) {
	stats := &domain.ShelterStats{}
	for _, shelter := range m.byID {
		stats.Total++
		if shelter.Active {
			stats.Active++
		}
		if shelter.Capacity != nil {
			stats.TotalCapacity += *shelter.Capacity
		}
	}
	return stats, nil
}

func applyShelterFields(shelter *domain.Shelter, fields map[string]any) {
	for key, value := range fields {
		switch key {
		case "name":
			shelter.Name = value.(string)
		case "address":
			shelter.Address = value.(string)
		case "latitude":
			lat := value.(float64)
			shelter.Latitude = &lat
		case "longitude":
			lng := value.(float64)
			shelter.Longitude = &lng
		case "capacity":
			capacity := value.(int)
			shelter.Capacity = &capacity
		case "email":
			email := value.(string)
			shelter.Email = &email
		case "phone":
			phone := value.(string)
			shelter.Phone = &phone
		case "active":
			shelter.Active = value.(bool)
		case "owner_id":
			ownerID := value.(uuid.UUID)
			shelter.OwnerID = &ownerID
		}
	}
}

// fakeStorage records uploads and returns a deterministic URL.
type fakeStorage struct {
	bucket      string
	objectName  string
	contentType string
	size        int64
	err         error
}

func (f *fakeStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.bucket = bucket
	f.objectName = objectName
	f.contentType = contentType
	f.size = size
	return fmt.Sprintf("https://storage.example.com/%s/%s", bucket, objectName), nil
}

// passthroughProcessor skips decoding so tests do not need real image bytes.
type passthroughProcessor struct {
	err error
}

func (p *passthroughProcessor) Process(ctx context.Context, upload media.Upload, maxDimension int) (*media.Result, error) {
	if p.err != nil {
		return nil, p.err
	}
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, err
	}
	return &media.Result{Bytes: data, ContentType: upload.ContentType}, nil
}
