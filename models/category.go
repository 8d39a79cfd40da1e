package models

import "time"

// Category is a tenant-scoped product category. Names are unique
// within a tenant.
type Category struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	TenantID    string    `bson:"tenant_id" json:"tenant_id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
