package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shelterhub/backend/internal/apperr"
	"github.com/shelterhub/backend/internal/domain"
	"github.com/shelterhub/backend/internal/media"
	"github.com/shelterhub/backend/internal/util"
)

func newTestAccountService(repo *memAccountRepo) (*AccountService, *fakeStorage) {
	storage := &fakeStorage{}
	svc := NewAccountService(repo, storage, &passthroughProcessor{}, util.NewJWTManager("test-secret", time.Hour), AccountServiceConfig{
		AvatarBucket:   "avatars",
		AvatarMaxBytes: 1024,
	})
	return svc, storage
}

func seedAccount(repo *memAccountRepo, email, password string, role domain.Role, active bool) *domain.Account {
	hash, err := util.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return repo.add(&domain.Account{
		Name:         "Seed User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       active,
	})
}

func TestRegisterDefaultsToMember(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newTestAccountService(repo)

	account, err := svc.Register(context.Background(), map[string]any{
		"name":     "Ana Torres",
		"email":    "ana@example.com",
		"password": "secret1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if account.Role != domain.RoleMember {
		t.Errorf("role = %q, want %q", account.Role, domain.RoleMember)
	}
	if !account.Active {
		t.Error("new account should be active")
	}
	if account.PasswordHash != "" {
		t.Error("returned account carries a password hash")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newTestAccountService(repo)
	seedAccount(repo, "ana@example.com", "secret1", domain.RoleMember, true)

	_, err := svc.Register(context.Background(), map[string]any{
		"name":     "Other Ana",
		"email":    "ana@example.com",
		"password": "secret2",
	})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("kind = %v, want conflict (err: %v)", apperr.KindOf(err), err)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newTestAccountService(repo)

	cases := []struct {
		name string
		raw  map[string]any
	}{
		{"short password", map[string]any{"name": "Ana", "email": "ana@example.com", "password": "five5"}},
		{"malformed email", map[string]any{"name": "Ana", "email": "not-an-email", "password": "secret1"}},
		{"missing name", map[string]any{"email": "ana@example.com", "password": "secret1"}},
		{"unknown role", map[string]any{"name": "Ana", "email": "ana@example.com", "password": "secret1", "role": "superuser"}},
		{"unknown field", map[string]any{"name": "Ana", "email": "ana@example.com", "password": "secret1", "admin": true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.raw)
			if apperr.KindOf(err) != apperr.KindBadRequest {
				t.Fatalf("kind = %v, want bad request (err: %v)", apperr.KindOf(err), err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newTestAccountService(repo)
	seedAccount(repo, "ana@example.com", "secret1", domain.RoleMember, true)

	account, token, expiresAt, err := svc.Login(context.Background(), "ana@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Errorf("expiresAt %v is not in the future", expiresAt)
	}
	if account.PasswordHash != "" {
		t.Error("logged-in account carries a password hash")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newTestAccountService(repo)
	seedAccount(repo, "ana@example.com", "secret1", domain.RoleMember, true)

	_, _, _, err := svc.Login(context.Background(), "ana@example.com", "wrong-pass")
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("kind = %v, want unauthorized (err: %v)", apperr.KindOf(err), err)
	}
}

func TestLoginUnknownEmailMatchesWrongPasswordMessage(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newTestAccountService(repo)
	seedAccount(repo, "ana@example.com", "secret1", domain.RoleMember, true)

	_, _, _, errUnknown := svc.Login(context.Background(), "ghost@example.com", "secret1")
	_, _, _, errWrong := svc.Login(context.Background(), "ana@example.com", "wrong-pass")
	if errUnknown == nil || errWrong == nil {
		t.Fatal("both logins should fail")
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Errorf("messages differ: %q vs %q", errUnknown, errWrong)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newTestAccountService(repo)
	seedAccount(repo, "ana@example.com", "secret1", domain.RoleMember, false)

	_, _, _, err := svc.Login(context.Background(), "ana@example.com", "secret1")
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("kind = %v, want unauthorized (err: %v)", apperr.KindOf(err), err)
	}
}

func TestUpdateRoleChangeRequiresAdmin(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newTestAccountService(repo)
	target := seedAccount(repo, "ana@example.com", "secret1", domain.RoleMember, true)

	memberClaims := &util.Claims{AccountID: target.ID, Role: domain.RoleMember}
	_, err := svc.Update(context.Background(), memberClaims, target.ID, map[string]any{"role": "administrator"})
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("kind = %v, want forbidden (err: %v)", apperr.KindOf(err), err)
	}

	adminClaims := &util.Claims{AccountID: uuid.New(), Role: domain.RoleAdministrator}
	updated, err := svc.Update(context.Background(), adminClaims, target.ID, map[string]any{"role": "administrator"})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Role != domain.RoleAdministrator {
		t.Errorf("role = %q, want administrator", updated.Role)
	}
}

func TestUpdateEmailInUse(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newTestAccountService(repo)
	first := seedAccount(repo, "ana@example.com", "secret1", domain.RoleMember, true)
	seedAccount(repo, "bob@example.com", "secret1", domain.RoleMember, true)

	claims := &util.Claims{AccountID: first.ID, Role: domain.RoleMember}
	_, err := svc.Update(context.Background(), claims, first.ID, map[string]any{"email": "bob@example.com"})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("kind = %v, want conflict (err: %v)", apperr.KindOf(err), err)
	}

	// keeping your own email is not a conflict
	if _, err := svc.Update(context.Background(), claims, first.ID, map[string]any{"email": "ana@example.com"}); err != nil {
		t.Fatalf("same-email update: %v", err)
	}
}

func TestUpdateMissingAccount(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newTestAccountService(repo)

	claims := &util.Claims{AccountID: uuid.New(), Role: domain.RoleAdministrator}
	_, err := svc.Update(context.Background(), claims, uuid.New(), map[string]any{"name": "Ghost"})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("kind = %v, want not found (err: %v)", apperr.KindOf(err), err)
	}
}

func TestChangeRole(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newTestAccountService(repo)
	target := seedAccount(repo, "ana@example.com", "secret1", domain.RoleMember, true)

	updated, err := svc.ChangeRole(context.Background(), target.ID, "administrator")
	if err != nil {
		t.Fatalf("ChangeRole: %v", err)
	}
	if updated.Role != domain.RoleAdministrator {
		t.Errorf("role = %q, want administrator", updated.Role)
	}

	if _, err := svc.ChangeRole(context.Background(), target.ID, "superuser"); apperr.KindOf(err) != apperr.KindBadRequest {
		t.Errorf("unknown role: kind = %v, want bad request", apperr.KindOf(err))
	}
}

func TestStats(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newTestAccountService(repo)
	seedAccount(repo, "ana@example.com", "secret1", domain.RoleMember, true)
	seedAccount(repo, "bob@example.com", "secret1", domain.RoleAdministrator, true)
	seedAccount(repo, "eve@example.com", "secret1", domain.RoleMember, false)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("total = %d, want 3", stats.Total)
	}
	if stats.Active != 2 {
		t.Errorf("active = %d, want 2", stats.Active)
	}
	if stats.ByRole[domain.RoleAdministrator] != 1 {
		t.Errorf("administrators = %d, want 1", stats.ByRole[domain.RoleAdministrator])
	}
}

func TestUploadImage(t *testing.T) {
	repo := newMemAccountRepo()
	svc, storage := newTestAccountService(repo)
	target := seedAccount(repo, "ana@example.com", "secret1", domain.RoleMember, true)

	upload := media.Upload{
		Reader:      strings.NewReader("fake image bytes"),
		Size:        16,
		FileName:    "avatar.png",
		ContentType: "image/png",
	}
	url, err := svc.UploadImage(context.Background(), target.ID, upload)
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if url == "" {
		t.Fatal("empty URL")
	}
	if storage.bucket != "avatars" {
		t.Errorf("bucket = %q, want avatars", storage.bucket)
	}
	if !strings.HasPrefix(storage.objectName, target.ID.String()+"/") {
		t.Errorf("object name %q is not scoped to the account", storage.objectName)
	}
	stored, _ := repo.FindByID(context.Background(), target.ID)
	if stored.ImageURL == nil || *stored.ImageURL != url {
		t.Error("image URL was not recorded on the account")
	}
}

func TestUploadImageRejectsOversizeAndWrongType(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newTestAccountService(repo)
	target := seedAccount(repo, "ana@example.com", "secret1", domain.RoleMember, true)

	oversized := media.Upload{Reader: strings.NewReader("x"), Size: 2048, ContentType: "image/png"}
	if _, err := svc.UploadImage(context.Background(), target.ID, oversized); apperr.KindOf(err) != apperr.KindBadRequest {
		t.Errorf("oversize: kind = %v, want bad request", apperr.KindOf(err))
	}

	pdf := media.Upload{Reader: strings.NewReader("x"), Size: 1, ContentType: "application/pdf"}
	if _, err := svc.UploadImage(context.Background(), target.ID, pdf); apperr.KindOf(err) != apperr.KindBadRequest {
		t.Errorf("wrong type: kind = %v, want bad request", apperr.KindOf(err))
	}
}
