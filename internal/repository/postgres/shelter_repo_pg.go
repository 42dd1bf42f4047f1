package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shelterhub/backend/internal/apperr"
	"github.com/shelterhub/backend/internal/domain"
)

const shelterColumns = `
        s.id, s.name, s.address, s.latitude, s.longitude, s.capacity,
        s.email, s.phone, s.active, s.owner_id, s.created_at,
        a.name AS owner_name, a.email AS owner_email, a.role AS owner_role`

const shelterJoin = `
        FROM shelter s
        LEFT JOIN account a ON a.id = s.owner_id`

// shelterRow carries the flat join result before the owner summary is folded
// into the domain type.
type shelterRow struct {
	domain.Shelter
	OwnerName  sql.NullString `db:"owner_name"`
	OwnerEmail sql.NullString `db:"owner_email"`
	OwnerRole  sql.NullString `db:"owner_role"`
}

func (row *shelterRow) toDomain() *domain.Shelter {
	shelter := row.Shelter
	if shelter.OwnerID != nil && row.OwnerName.Valid {
		shelter.Owner = &domain.OwnerSummary{
			ID:    *shelter.OwnerID,
			Name:  row.OwnerName.String,
			Email: row.OwnerEmail.String,
			Role:  domain.Role(row.OwnerRole.String),
		}
	}
	return &shelter
}

type ShelterRepository struct {
	db *sqlx.DB
}

func NewShelterRepo(db *sqlx.DB) *ShelterRepository {
	return &ShelterRepository{db: db}
}

func (r *ShelterRepository) List(ctx context.Context) ([]domain.Shelter, error) {
	const query = `SELECT` + shelterColumns + shelterJoin + `
        ORDER BY s.created_at DESC`
	return r.selectShelters(ctx, query)
}

func (r *ShelterRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Shelter, error) {
	const query = `SELECT` + shelterColumns + shelterJoin + `
        WHERE s.id = $1`
	var row shelterRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, translate(err, "shelter")
	}
	return row.toDomain(), nil
}

func (r *ShelterRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Shelter, error) {
	const query = `SELECT` + shelterColumns + shelterJoin + `
        WHERE s.owner_id = $1
        ORDER BY s.created_at DESC`
	return r.selectShelters(ctx, query, ownerID)
}

func (r *ShelterRepository) Insert(ctx context.Context, fields map[string]any) (*domain.Shelter, error) {
	columns, placeholders, args := buildInsert(fields)
	query := fmt.Sprintf(`
        INSERT INTO shelter (%s)
        VALUES (%s)
        RETURNING id`,
		columns, placeholders)

	var id uuid.UUID
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return nil, translate(err, "shelter")
	}
	return r.FindByID(ctx, id)
}

func (r *ShelterRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Shelter, error) {
	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}
	set, args := buildSet(fields, 2)
	query := fmt.Sprintf(`
        UPDATE shelter
        SET %s
        WHERE id = $1
        RETURNING id`,
		set)

	var returned uuid.UUID
	allArgs := append([]any{id}, args...)
	if err := r.db.QueryRowxContext(ctx, query, allArgs...).Scan(&returned); err != nil {
		return nil, translate(err, "shelter")
	}
	return r.FindByID(ctx, returned)
}

func (r *ShelterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM shelter WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return translate(err, "shelter")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("shelter not found")
	}
	return nil
}

func (r *ShelterRepository) Stats(ctx context.Context) (*domain.ShelterStats, error) {
	const query = `
        SELECT COUNT(*) AS total,
               COUNT(*) FILTER (WHERE active) AS active,
               COALESCE(SUM(capacity), 0) AS total_capacity
        FROM shelter
    `
	var stats domain.ShelterStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, translate(err, "shelter")
	}
	return &stats, nil
}

func (r *ShelterRepository) selectShelters(ctx context.Context, query string, args ...any) ([]domain.Shelter, error) {
	rows := []shelterRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, translate(err, "shelter")
	}
	shelters := make([]domain.Shelter, 0, len(rows))
	for i := range rows {
		shelters = append(shelters, *rows[i].toDomain())
	}
	return shelters, nil
}
