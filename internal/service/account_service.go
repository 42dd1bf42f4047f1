package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/idtoken"

	"github.com/shelterhub/backend/internal/access"
	"github.com/shelterhub/backend/internal/apperr"
	"github.com/shelterhub/backend/internal/domain"
	"github.com/shelterhub/backend/internal/media"
	"github.com/shelterhub/backend/internal/repository/ports"
	"github.com/shelterhub/backend/internal/util"
)

const defaultAvatarMaxBytes = int64(5 * 1024 * 1024)

var allowedAvatarMIMEs = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

type AccountServiceConfig struct {
	AvatarBucket   string
	AvatarMaxBytes int64
	GoogleAudience string
}

type googleTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

type AccountService struct {
	accounts  ports.AccountRepository
	storage   ports.ObjectStorage
	processor media.Processor
	tokens    *util.JWTManager

	avatarBucket   string
	avatarMaxBytes int64
	googleAudience string
	validateGoogle googleTokenValidator
}

func NewAccountService(
	accounts ports.AccountRepository,
	storage ports.ObjectStorage,
	processor media.Processor,
	tokens *util.JWTManager,
	cfg AccountServiceConfig,
) *AccountService {
	maxBytes := cfg.AvatarMaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultAvatarMaxBytes
	}
	return &AccountService{
		accounts:       accounts,
		storage:        storage,
		processor:      processor,
		tokens:         tokens,
		avatarBucket:   strings.TrimSpace(cfg.AvatarBucket),
		avatarMaxBytes: maxBytes,
		googleAudience: strings.TrimSpace(cfg.GoogleAudience),
		validateGoogle: idtoken.Validate,
	}
}

// GoogleEnabled reports whether federated sign-in is configured.
func (s *AccountService) GoogleEnabled() bool {
	return s.googleAudience != ""
}

// Register validates and creates a new account. The email uniqueness check
// runs before the insert; the database unique constraint backstops races.
func (s *AccountService) Register(ctx context.Context, raw map[string]any) (*domain.Account, error) {
	in, err := parseAccountInput(raw, true)
	if err != nil {
		return nil, err
	}

	existing, err := s.accounts.FindByEmail(ctx, *in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("email already registered")
	}

	hash, err := util.HashPassword(*in.Password)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"name":          *in.Name,
		"email":         *in.Email,
		"password_hash": hash,
		"role":          *in.Role,
	}
	if in.Phone != nil {
		fields["phone"] = *in.Phone
	}
	if in.Active != nil {
		fields["active"] = *in.Active
	}

	return s.accounts.Insert(ctx, fields)
}

// Login verifies credentials and mints a session token. Wrong email and
// wrong password share one message so the endpoint does not leak which
// accounts exist.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", time.Time{}, apperr.BadRequest("email and password are required")
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if account == nil || account.PasswordHash == "" {
		return nil, "", time.Time{}, apperr.Unauthorized("invalid credentials")
	}
	if !account.Active {
		return nil, "", time.Time{}, apperr.Unauthorized("account is inactive")
	}
	if !util.CheckPassword(password, account.PasswordHash) {
		return nil, "", time.Time{}, apperr.Unauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.Generate(account)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	account.PasswordHash = ""
	return account, token, expiresAt, nil
}

// LoginWithGoogle exchanges a verified Google ID token for a session token,
// creating the account on first sign-in.
func (s *AccountService) LoginWithGoogle(ctx context.Context, idTok string) (*domain.Account, string, time.Time, error) {
	if !s.GoogleEnabled() {
		return nil, "", time.Time{}, apperr.Unauthorized("google sign-in is not enabled")
	}

	payload, err := s.validateGoogle(ctx, idTok, s.googleAudience)
	if err != nil {
		return nil, "", time.Time{}, apperr.Unauthorized("invalid google token")
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, "", time.Time{}, apperr.Unauthorized("google token is missing an email claim")
	}
	name, _ := payload.Claims["name"].(string)
	var picture *string
	if p, _ := payload.Claims["picture"].(string); p != "" {
		picture = &p
	}

	account, err := s.accounts.UpsertByEmail(ctx, email, name, picture)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !account.Active {
		return nil, "", time.Time{}, apperr.Unauthorized("account is inactive")
	}

	token, expiresAt, err := s.tokens.Generate(account)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return account, token, expiresAt, nil
}

func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(ctx)
}

func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

// Update applies a partial update. Role changes inside a generic update are
// an administrator-only action; everything else follows the owner-or-admin
// rule enforced at the route.
func (s *AccountService) Update(ctx context.Context, claims *util.Claims, id uuid.UUID, raw map[string]any) (*domain.Account, error) {
	in, err := parseAccountInput(raw, false)
	if err != nil {
		return nil, err
	}

	if in.Role != nil {
		if err := access.Evaluate(claims, []domain.Role{domain.RoleAdministrator}, nil).Err(); err != nil {
			return nil, err
		}
	}

	if _, err := s.accounts.FindByID(ctx, id); err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != "" {
		existing, err := s.accounts.FindByEmail(ctx, *in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, apperr.Conflict("email already in use")
		}
	}

	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Email != nil {
		fields["email"] = *in.Email
	}
	if in.Phone != nil {
		fields["phone"] = *in.Phone
	}
	if in.Active != nil {
		fields["active"] = *in.Active
	}
	if in.Role != nil {
		fields["role"] = *in.Role
	}
	if in.Password != nil {
		hash, err := util.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}

	return s.accounts.Update(ctx, id, fields)
}

func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.accounts.FindByID(ctx, id); err != nil {
		return err
	}
	return s.accounts.Delete(ctx, id)
}

func (s *AccountService) ChangeRole(ctx context.Context, id uuid.UUID, rawRole string) (*domain.Account, error) {
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return nil, apperr.BadRequest("%s", err.Error())
	}
	if _, err := s.accounts.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.accounts.Update(ctx, id, map[string]any{"role": role})
}

func (s *AccountService) Stats(ctx context.Context) (*domain.AccountStats, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	byRole, err := s.accounts.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.AccountStats{
		Total:  len(accounts),
		ByRole: byRole,
	}
	for _, account := range accounts {
		if account.Active {
			stats.Active++
		}
	}
	return stats, nil
}

// UploadImage validates, downscales and stores a profile image, then records
// its URL on the account. Ownership is enforced at the route.
func (s *AccountService) UploadImage(ctx context.Context, id uuid.UUID, upload media.Upload) (string, error) {
	if upload.Size > s.avatarMaxBytes {
		return "", apperr.BadRequest("image exceeds the maximum size of %d bytes", s.avatarMaxBytes)
	}
	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if _, ok := allowedAvatarMIMEs[contentType]; !ok {
		return "", apperr.BadRequest("only jpeg, jpg, png or webp images are allowed")
	}

	if _, err := s.accounts.FindByID(ctx, id); err != nil {
		return "", err
	}

	result, err := s.processor.Process(ctx, upload, 0)
	if err != nil {
		return "", apperr.BadRequest("unsupported or corrupted image")
	}

	objectName := fmt.Sprintf("%s/%s%s", id, uuid.New(), extensionFor(result.ContentType))
	url, err := s.storage.Upload(ctx, s.avatarBucket, objectName, result.ContentType, bytes.NewReader(result.Bytes), int64(len(result.Bytes)))
	if err != nil {
		return "", err
	}

	if err := s.accounts.UpdateImageURL(ctx, id, url); err != nil {
		return "", err
	}
	return url, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
