package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"retail-admin/models"
	"retail-admin/services"
	"retail-admin/store"
	"retail-admin/store/memory"
)

func newStore(t *testing.T) *memory.Store {
	t.Helper()

	st := memory.New()
	services.Init(st)
	return st
}

func mustCreateTenant(t *testing.T, st *memory.Store, name string) *models.Tenant {
	t.Helper()

	tenant := &models.Tenant{Name: name, Active: true}
	if err := st.CreateTenant(context.Background(), tenant); err != nil {
		t.Fatalf("failed to create tenant: %v", err)
	}
	return tenant
}

func mustCreateUser(t *testing.T, st *memory.Store, email, password, tenantID string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := services.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Email:        email,
		Name:         "Someone",
		TenantID:     tenantID,
		Role:         role,
		PasswordHash: hash,
		Active:       true,
	}
	if err := st.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func mustCreateSession(t *testing.T, st *memory.Store, userID, token string, expiresAt time.Time) {
	t.Helper()

	session := &models.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	if err := st.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
}

func TestResolveSessionRejectsEmptyAndUnknownTokens(t *testing.T) {
	newStore(t)

	for _, token := range []string{"", "no-such-token"} {
		_, err := services.ResolveSession(context.Background(), token)
		if !errors.Is(err, services.ErrUnauthenticated) {
			t.Errorf("token %q: err = %v, want ErrUnauthenticated", token, err)
		}
	}
}

// An expired session fails resolution and its row is deleted on that
// first access.
func TestResolveSessionLazilyDeletesExpiredRows(t *testing.T) {
	st := newStore(t)
	tenant := mustCreateTenant(t, st, "Acme")
	user := mustCreateUser(t, st, "owner@acme.test", "correct-horse", tenant.ID, models.RoleAdmin)
	mustCreateSession(t, st, user.ID, "expired-token", time.Now().Add(-time.Minute))

	_, err := services.ResolveSession(context.Background(), "expired-token")
	if !errors.Is(err, services.ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}

	if _, err := st.GetSessionByToken(context.Background(), "expired-token"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expired session row survived resolution: err = %v, want ErrNotFound", err)
	}
}

func TestResolveSessionReturnsOwningTenantOnly(t *testing.T) {
	st := newStore(t)
	acme := mustCreateTenant(t, st, "Acme")
	mustCreateTenant(t, st, "Globex")
	user := mustCreateUser(t, st, "owner@acme.test", "correct-horse", acme.ID, models.RoleAdmin)
	mustCreateSession(t, st, user.ID, "valid-token", time.Now().Add(time.Hour))

	auth, err := services.ResolveSession(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if auth.User.ID != user.ID {
		t.Errorf("resolved user = %s, want %s", auth.User.ID, user.ID)
	}
	if auth.Tenant == nil || auth.Tenant.ID != acme.ID {
		t.Errorf("resolved tenant = %v, want %s", auth.Tenant, acme.ID)
	}
}

// Deactivating a user invalidates their sessions without deleting the
// rows; only expiry deletes.
func TestResolveSessionRejectsInactiveUser(t *testing.T) {
	st := newStore(t)
	tenant := mustCreateTenant(t, st, "Acme")
	user := mustCreateUser(t, st, "owner@acme.test", "correct-horse", tenant.ID, models.RoleAdmin)
	mustCreateSession(t, st, user.ID, "valid-token", time.Now().Add(time.Hour))

	if err := st.SetUserActive(context.Background(), user.ID, false); err != nil {
		t.Fatalf("failed to deactivate user: %v", err)
	}

	_, err := services.ResolveSession(context.Background(), "valid-token")
	if !errors.Is(err, services.ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
	if _, err := st.GetSessionByToken(context.Background(), "valid-token"); err != nil {
		t.Errorf("session row of inactive user was deleted: %v", err)
	}
}

func TestResolveSessionSuperAdminHasNoTenant(t *testing.T) {
	st := newStore(t)
	root := mustCreateUser(t, st, "root@system.test", "correct-horse", "", models.RoleSuperAdmin)
	mustCreateSession(t, st, root.ID, "root-token", time.Now().Add(time.Hour))

	auth, err := services.ResolveSession(context.Background(), "root-token")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if auth.Tenant != nil {
		t.Errorf("super admin tenant = %v, want nil", auth.Tenant)
	}
}

// A user pointing at a tenant that no longer exists still resolves,
// with no tenant scope attached.
func TestResolveSessionToleratesDanglingTenant(t *testing.T) {
	st := newStore(t)
	user := mustCreateUser(t, st, "owner@acme.test", "correct-horse", "vanished-tenant", models.RoleAdmin)
	mustCreateSession(t, st, user.ID, "valid-token", time.Now().Add(time.Hour))

	auth, err := services.ResolveSession(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if auth.Tenant != nil {
		t.Errorf("dangling tenant resolved to %v, want nil", auth.Tenant)
	}
}
