package models

import "time"

// Tenant represents an isolated business account. Every tenant-owned
// entity carries the tenant ID and every query filters by it.
type Tenant struct {
	ID   string `bson:"_id,omitempty" json:"id"`
	Name string `bson:"name" json:"name"`

	// Activation state
	Active        bool      `bson:"active" json:"active"`
	Plan          string    `bson:"plan,omitempty" json:"plan,omitempty"`
	PlanExpiresAt time.Time `bson:"plan_expires_at,omitempty" json:"plan_expires_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Usable reports whether tenant-scoped requests may be served for this
// tenant: it must be active and its plan, if bounded, not yet expired.
func (t *Tenant) Usable(now time.Time) bool {
	if !t.Active {
		return false
	}
	if !t.PlanExpiresAt.IsZero() && !now.Before(t.PlanExpiresAt) {
		return false
	}
	return true
}
