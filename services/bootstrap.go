package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"retail-admin/models"
	"retail-admin/store"
)

// Bootstrap is the idempotent deployment-time replacement for the
// seed/reset endpoints of earlier iterations: it creates the initial
// super admin iff none exists and repairs the super-admin tenant
// invariant. It is invoked once at startup and is not reachable over
// HTTP.
func Bootstrap(ctx context.Context, adminEmail, adminPassword string) error {
	if repaired, err := RepairSuperAdmins(ctx); err != nil {
		return err
	} else if repaired > 0 {
		slog.Warn("Repaired super admins carrying a tenant reference", "count", repaired)
	}

	count, err := db.CountUsersByRole(ctx, models.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("failed to count super admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	if adminEmail == "" || adminPassword == "" {
		slog.Warn("No super admin exists and no bootstrap credentials configured")
		return nil
	}
	if len(adminPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	admin := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(adminEmail)),
		Name:         "Administrator",
		Role:         models.RoleSuperAdmin,
		PasswordHash: hash,
		Active:       true,
	}

	if err := db.CreateUser(ctx, admin); err != nil {
		// A concurrent replica may have created it first.
		if errors.Is(err, store.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("failed to create bootstrap super admin: %w", err)
	}

	slog.Info("Bootstrap super admin created", "email", admin.Email)
	return nil
}

// RepairSuperAdmins strips the tenant reference from every super admin
// that carries one. The invariant is repaired opportunistically rather
// than enforced at write time.
func RepairSuperAdmins(ctx context.Context) (int64, error) {
	repaired, err := db.ClearSuperAdminTenants(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to repair super admins: %w", err)
	}
	return repaired, nil
}
