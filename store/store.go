package store

import (
	"context"
	"time"

	"retail-admin/models"
)

// SessionStore persists login sessions keyed by their opaque token.
type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error
	// GetSessionByToken returns the session regardless of expiry;
	// callers decide what an expired session means. ErrNotFound when
	// no row matches.
	GetSessionByToken(ctx context.Context, token string) (*models.Session, error)
	// DeleteSessionsByToken removes every session row matching the
	// token and reports how many were removed. Zero is not an error.
	DeleteSessionsByToken(ctx context.Context, token string) (int64, error)
	// DeleteExpiredSessions removes sessions whose expiry is at or
	// before the given instant.
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// UserStore persists users. Emails are stored lower-cased and unique.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, tenantID string) ([]models.User, error)
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error
	UpdateUserRole(ctx context.Context, userID string, role models.UserRole) error
	UpdateUserLastLogin(ctx context.Context, userID string) error
	SetUserActive(ctx context.Context, userID string, active bool) error
	SetUserTenant(ctx context.Context, userID, tenantID string) error
	CountUsersByRole(ctx context.Context, role models.UserRole) (int64, error)
	// ClearSuperAdminTenants strips the tenant reference from every
	// super admin that carries one and reports how many were repaired.
	ClearSuperAdminTenants(ctx context.Context) (int64, error)
}

// TenantStore persists tenants.
type TenantStore interface {
	CreateTenant(ctx context.Context, tenant *models.Tenant) error
	GetTenant(ctx context.Context, tenantID string) (*models.Tenant, error)
	ListTenants(ctx context.Context) ([]models.Tenant, error)
	UpdateTenantActivation(ctx context.Context, tenantID string, active bool, plan string, planExpiresAt time.Time) error
}

// CategoryStore persists tenant-scoped categories. The tenant ID is a
// mandatory parameter on every read and write so cross-tenant access
// is impossible to express.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, tenantID, categoryID string) (*models.Category, error)
	ListCategories(ctx context.Context, tenantID string) ([]models.Category, error)
	UpdateCategory(ctx context.Context, tenantID string, category *models.Category) error
	DeleteCategory(ctx context.Context, tenantID, categoryID string) error
}

// ClientStore persists tenant-scoped client records.
type ClientStore interface {
	CreateClient(ctx context.Context, client *models.Client) error
	GetClient(ctx context.Context, tenantID, clientID string) (*models.Client, error)
	ListClients(ctx context.Context, tenantID string) ([]models.Client, error)
	UpdateClient(ctx context.Context, tenantID string, client *models.Client) error
	DeleteClient(ctx context.Context, tenantID, clientID string) error
}

// MessageStore persists chat widget messages.
type MessageStore interface {
	CreateMessage(ctx context.Context, message *models.ChatMessage) error
	ListMessages(ctx context.Context, tenantID string, limit int) ([]models.ChatMessage, error)
	ListConversation(ctx context.Context, tenantID, conversationID string) ([]models.ChatMessage, error)
}

// Store is the single data-access capability of the application.
type Store interface {
	SessionStore
	UserStore
	TenantStore
	CategoryStore
	ClientStore
	MessageStore
}
