package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"retail-admin/models"
)

const (
	// SessionDuration is the fixed absolute lifetime of a session.
	// Expiry is set once at login and never extended.
	SessionDuration = 7 * 24 * time.Hour

	// SessionCookieName is the single cookie governing every
	// authenticated route.
	SessionCookieName = "session-token"

	// HeaderSessionToken is where the edge gatekeeper copies the
	// presented token for downstream handlers.
	HeaderSessionToken = "X-Session-Token"
)

// GenerateSessionToken generates a secure random session token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CreateSession persists a new session for the user with the fixed
// seven-day expiry.
func CreateSession(ctx context.Context, userID, ipAddress, userAgent string) (*models.Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now()
	session := &models.Session{
		Token:     token,
		UserID:    userID,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionDuration),
	}

	if err := db.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// DestroySessions deletes every session row matching the token.
// Deleting zero rows is not an error; logout is idempotent.
func DestroySessions(ctx context.Context, token string) error {
	_, err := db.DeleteSessionsByToken(ctx, token)
	return err
}

// StartSessionCleanup starts a background goroutine that periodically
// deletes expired sessions. Lazy per-request deletion remains the
// primary mechanism; the sweep catches tokens never presented again.
func StartSessionCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("Session cleanup stopped")
				return
			case <-ticker.C:
				cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				count, err := db.DeleteExpiredSessions(cleanupCtx, time.Now())
				if err != nil {
					slog.Error("Failed to cleanup expired sessions", "error", err)
				} else if count > 0 {
					slog.Info("Cleaned up expired sessions", "count", count)
				}
				cancel()
			}
		}
	}()

	slog.Info("Session cleanup started")
}
