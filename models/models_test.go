package models

import (
	"testing"
	"time"
)

func TestSessionExpiredBoundary(t *testing.T) {
	now := time.Now()
	session := &Session{ExpiresAt: now}

	// A session is valid only while now is strictly before the expiry.
	if !session.Expired(now) {
		t.Error("session at its exact expiry instant should be expired")
	}
	if session.Expired(now.Add(-time.Nanosecond)) {
		t.Error("session just before its expiry should not be expired")
	}
	if !session.Expired(now.Add(time.Hour)) {
		t.Error("session past its expiry should be expired")
	}
}

func TestTenantUsable(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name   string
		tenant Tenant
		want   bool
	}{
		{"active without plan bound", Tenant{Active: true}, true},
		{"inactive", Tenant{Active: false}, false},
		{"active with future plan expiry", Tenant{Active: true, PlanExpiresAt: now.Add(time.Hour)}, true},
		{"active with past plan expiry", Tenant{Active: true, PlanExpiresAt: now.Add(-time.Hour)}, false},
		{"active with plan expiring now", Tenant{Active: true, PlanExpiresAt: now}, false},
		{"inactive with future plan expiry", Tenant{Active: false, PlanExpiresAt: now.Add(time.Hour)}, false},
	}
	for _, tc := range cases {
		if got := tc.tenant.Usable(now); got != tc.want {
			t.Errorf("%s: Usable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{"user", "admin", "super_admin"} {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "owner", "SUPER_ADMIN", "superadmin"} {
		if IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = true, want false", role)
		}
	}
}

func TestIsSuperAdmin(t *testing.T) {
	if (&User{Role: RoleAdmin}).IsSuperAdmin() {
		t.Error("tenant admin reported as super admin")
	}
	if !(&User{Role: RoleSuperAdmin}).IsSuperAdmin() {
		t.Error("super admin not recognized")
	}
}
