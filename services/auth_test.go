package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"retail-admin/models"
	"retail-admin/services"
)

// Unknown email, wrong password and an inactive account all fail with
// the same sentinel.
func TestLoginFailuresShareOneError(t *testing.T) {
	st := newStore(t)
	tenant := mustCreateTenant(t, st, "Acme")
	mustCreateUser(t, st, "owner@acme.test", "correct-horse", tenant.ID, models.RoleAdmin)
	inactive := mustCreateUser(t, st, "gone@acme.test", "correct-horse", tenant.ID, models.RoleUser)
	if err := st.SetUserActive(context.Background(), inactive.ID, false); err != nil {
		t.Fatalf("failed to deactivate user: %v", err)
	}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "owner@acme.test", "wrong"},
		{"unknown email", "nobody@acme.test", "correct-horse"},
		{"inactive user", "gone@acme.test", "correct-horse"},
	}
	for _, tc := range cases {
		_, _, err := services.Login(context.Background(), tc.email, tc.password, "", "")
		if !errors.Is(err, services.ErrInvalidCredentials) {
			t.Errorf("%s: err = %v, want ErrInvalidCredentials", tc.name, err)
		}
	}
}

func TestLoginSessionCarriesFixedExpiry(t *testing.T) {
	st := newStore(t)
	tenant := mustCreateTenant(t, st, "Acme")
	mustCreateUser(t, st, "owner@acme.test", "correct-horse", tenant.ID, models.RoleAdmin)

	user, session, err := services.Login(context.Background(), "Owner@Acme.TEST", "correct-horse", "10.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Email != "owner@acme.test" {
		t.Errorf("login resolved email %q, want lowercase match", user.Email)
	}

	want := time.Now().Add(services.SessionDuration)
	if diff := session.ExpiresAt.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("session expiry = %v, want about %v", session.ExpiresAt, want)
	}

	stored, err := st.GetSessionByToken(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if stored.UserID != user.ID {
		t.Errorf("session user = %s, want %s", stored.UserID, user.ID)
	}
}

func TestChangePasswordGuards(t *testing.T) {
	st := newStore(t)
	tenant := mustCreateTenant(t, st, "Acme")
	user := mustCreateUser(t, st, "owner@acme.test", "correct-horse", tenant.ID, models.RoleAdmin)

	err := services.ChangePassword(context.Background(), user, "wrong", "brand-new-password")
	if !errors.Is(err, services.ErrPasswordMismatch) {
		t.Errorf("wrong current password: err = %v, want ErrPasswordMismatch", err)
	}

	err = services.ChangePassword(context.Background(), user, "correct-horse", "short")
	if !errors.Is(err, services.ErrPasswordTooShort) {
		t.Errorf("short new password: err = %v, want ErrPasswordTooShort", err)
	}

	if err := services.ChangePassword(context.Background(), user, "correct-horse", "brand-new-password"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	reloaded, err := st.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if !services.CheckPasswordHash("brand-new-password", reloaded.PasswordHash) {
		t.Error("new password does not verify against the stored hash")
	}
	if services.CheckPasswordHash("correct-horse", reloaded.PasswordHash) {
		t.Error("old password still verifies against the stored hash")
	}
}

func TestDestroySessionsIsIdempotent(t *testing.T) {
	st := newStore(t)
	tenant := mustCreateTenant(t, st, "Acme")
	user := mustCreateUser(t, st, "owner@acme.test", "correct-horse", tenant.ID, models.RoleAdmin)
	mustCreateSession(t, st, user.ID, "some-token", time.Now().Add(time.Hour))

	if err := services.DestroySessions(context.Background(), "some-token"); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}
	// A second destroy with nothing left to delete still succeeds.
	if err := services.DestroySessions(context.Background(), "some-token"); err != nil {
		t.Fatalf("repeated destroy failed: %v", err)
	}
}

func TestGenerateSessionTokenIsOpaqueAndUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		token, err := services.GenerateSessionToken()
		if err != nil {
			t.Fatalf("token generation failed: %v", err)
		}
		if len(token) != 64 {
			t.Fatalf("token length = %d, want 64 hex chars", len(token))
		}
		if seen[token] {
			t.Fatal("duplicate token generated")
		}
		seen[token] = true
	}
}
