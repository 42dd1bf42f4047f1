package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shelterhub/backend/internal/apperr"
	"github.com/shelterhub/backend/internal/domain"
)

// accountColumns is the outward projection. The password hash is only ever
// selected by FindByEmail, which feeds the login path.
const accountColumns = "id, name, email, phone, role, active, image_url, created_at"

type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepo(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	const query = `
        SELECT ` + accountColumns + `
        FROM account
        ORDER BY created_at DESC
    `
	accounts := []domain.Account{}
	if err := r.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, translate(err, "account")
	}
	return accounts, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	const query = `
        SELECT ` + accountColumns + `
        FROM account
        WHERE id = $1
    `
	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, translate(err, "account")
	}
	return &account, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT ` + accountColumns + `, password_hash
        FROM account
        WHERE email = $1
    `
	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(err, "account")
	}
	return &account, nil
}

func (r *AccountRepository) Insert(ctx context.Context, fields map[string]any) (*domain.Account, error) {
	columns, placeholders, args := buildInsert(fields)
	query := fmt.Sprintf(`
        INSERT INTO account (%s)
        VALUES (%s)
        RETURNING `+accountColumns,
		columns, placeholders)

	var account domain.Account
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&account); err != nil {
		return nil, translate(err, "account")
	}
	return &account, nil
}

func (r *AccountRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Account, error) {
	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}
	set, args := buildSet(fields, 2)
	query := fmt.Sprintf(`
        UPDATE account
        SET %s
        WHERE id = $1
        RETURNING `+accountColumns,
		set)

	var account domain.Account
	allArgs := append([]any{id}, args...)
	if err := r.db.QueryRowxContext(ctx, query, allArgs...).StructScan(&account); err != nil {
		return nil, translate(err, "account")
	}
	return &account, nil
}

func (r *AccountRepository) UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	const query = `
        UPDATE account
        SET image_url = $2
        WHERE id = $1
    `
	res, err := r.db.ExecContext(ctx, query, id, imageURL)
	if err != nil {
		return translate(err, "account")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("account not found")
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM account WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return translate(err, "account")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("account not found")
	}
	return nil
}

func (r *AccountRepository) CountByRole(ctx context.Context) (map[domain.Role]int, error) {
	const query = `
        SELECT role, COUNT(*) AS total
        FROM account
        WHERE active
        GROUP BY role
    `
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, translate(err, "account")
	}
	defer rows.Close()

	counts := map[domain.Role]int{
		domain.RoleMember:        0,
		domain.RoleAdministrator: 0,
	}
	for rows.Next() {
		var role domain.Role
		var total int
		if err := rows.Scan(&role, &total); err != nil {
			return nil, err
		}
		counts[role] = total
	}
	return counts, rows.Err()
}

func (r *AccountRepository) UpsertByEmail(ctx context.Context, email, name string, imageURL *string) (*domain.Account, error) {
	const query = `
        INSERT INTO account (email, name, image_url)
        VALUES ($1, $2, $3)
        ON CONFLICT (email) DO UPDATE
        SET name = COALESCE(NULLIF(EXCLUDED.name, ''), account.name),
            image_url = COALESCE(EXCLUDED.image_url, account.image_url)
        RETURNING ` + accountColumns
	var account domain.Account
	if err := r.db.QueryRowxContext(ctx, query, email, name, imageURL).StructScan(&account); err != nil {
		return nil, translate(err, "account")
	}
	return &account, nil
}

// buildInsert and buildSet assemble SQL fragments from validator-normalized
// field maps. Keys are whitelisted column names, never raw client input, and
// are sorted so queries stay deterministic.
func buildInsert(fields map[string]any) (columns, placeholders string, args []any) {
	keys := sortedKeys(fields)
	cols := make([]string, 0, len(keys))
	phs := make([]string, 0, len(keys))
	args = make([]any, 0, len(keys))
	for i, k := range keys {
		cols = append(cols, k)
		phs = append(phs, fmt.Sprintf("$%d", i+1))
		args = append(args, fields[k])
	}
	return strings.Join(cols, ", "), strings.Join(phs, ", "), args
}

func buildSet(fields map[string]any, firstArg int) (set string, args []any) {
	keys := sortedKeys(fields)
	assignments := make([]string, 0, len(keys))
	args = make([]any, 0, len(keys))
	for i, k := range keys {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", k, firstArg+i))
		args = append(args, fields[k])
	}
	return strings.Join(assignments, ", "), args
}

func sortedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
