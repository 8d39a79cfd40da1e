package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"retail-admin/models"
	"retail-admin/store"
)

// ErrUnauthenticated covers every way a presented token can fail to
// resolve: missing, unknown, expired, or belonging to an inactive user.
var ErrUnauthenticated = errors.New("unauthenticated")

// AuthContext is the result of a successful session resolution. Tenant
// is nil for super admins.
type AuthContext struct {
	User   *models.User
	Tenant *models.Tenant
}

// ResolveSession turns a presented token into an authenticated
// user/tenant context. It is read-mostly: the only write is the lazy
// deletion of an expired session on first access.
func ResolveSession(ctx context.Context, token string) (*AuthContext, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	session, err := db.GetSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if session.Expired(time.Now()) {
		if _, err := db.DeleteSessionsByToken(ctx, token); err != nil {
			slog.Error("Failed to delete expired session", "error", err)
		}
		return nil, ErrUnauthenticated
	}

	user, err := db.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if !user.Active {
		slog.Info("Session rejected for inactive user", "user_id", user.ID)
		return nil, ErrUnauthenticated
	}

	var tenant *models.Tenant
	if user.TenantID != "" {
		tenant, err = db.GetTenant(ctx, user.TenantID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
			// Dangling tenant reference resolves like no tenant at all.
			tenant = nil
		}
	}

	return &AuthContext{User: user, Tenant: tenant}, nil
}
