package models

import "time"

// UserRole represents the role of a user
type UserRole string

const (
	// RoleUser is an ordinary tenant user.
	RoleUser UserRole = "user"
	// RoleAdmin is a tenant administrator.
	RoleAdmin UserRole = "admin"
	// RoleSuperAdmin acts across all tenants and has no tenant affiliation.
	RoleSuperAdmin UserRole = "super_admin"
)

// User represents a user in the system
type User struct {
	ID    string `bson:"_id,omitempty" json:"id"`
	Email string `bson:"email" json:"email"`
	Name  string `bson:"name" json:"name"`

	// Tenant association. Empty for super admins; the bootstrap repair
	// routine strips it from super admins that acquired one.
	TenantID string `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`

	Role UserRole `bson:"role" json:"role"`

	// Authentication
	PasswordHash string `bson:"password_hash" json:"-"`

	// Status
	Active    bool      `bson:"active" json:"active"`
	LastLogin time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsSuperAdmin reports whether the user holds the cross-tenant role.
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// IsValidRole checks if a role is valid
func IsValidRole(role string) bool {
	switch UserRole(role) {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}
