package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"retail-admin/models"
	"retail-admin/store"
)

// ErrInvalidCredentials is returned for a missing user, an inactive
// user, and a wrong password alike; callers must not distinguish them.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrPasswordMismatch is returned when the supplied current password
// does not re-verify against the stored hash.
var ErrPasswordMismatch = errors.New("current password is incorrect")

// ErrPasswordTooShort is returned when a new password is below the
// minimum length.
var ErrPasswordTooShort = errors.New("password too short")

// Login verifies the credentials and, on success, creates a session
// with the fixed seven-day expiry.
func Login(ctx context.Context, email, password, ipAddress, userAgent string) (*models.User, *models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := db.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !user.Active {
		slog.Info("Login attempt for inactive user", "email", email)
		return nil, nil, ErrInvalidCredentials
	}

	if !CheckPasswordHash(password, user.PasswordHash) {
		slog.Info("Invalid password attempt", "email", email)
		return nil, nil, ErrInvalidCredentials
	}

	session, err := CreateSession(ctx, user.ID, ipAddress, userAgent)
	if err != nil {
		return nil, nil, err
	}

	if err := db.UpdateUserLastLogin(ctx, user.ID); err != nil {
		slog.Error("Failed to update last login", "error", err, "user_id", user.ID)
	}

	return user, session, nil
}

// ChangePassword re-authenticates the caller with their current
// password before re-hashing and persisting the new one.
func ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error {
	if !CheckPasswordHash(currentPassword, user.PasswordHash) {
		return ErrPasswordMismatch
	}

	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := db.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		return err
	}

	slog.Info("Password changed", "user_id", user.ID)
	return nil
}
