package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"retail-admin/models"
	"retail-admin/store"
)

func (s *Store) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	if tenant.ID == "" {
		tenant.ID = uuid.NewString()
	}
	now := time.Now()
	if tenant.CreatedAt.IsZero() {
		tenant.CreatedAt = now
	}
	tenant.UpdatedAt = now

	if _, err := s.db.Collection(colTenants).InsertOne(ctx, tenant); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	return nil
}

func (s *Store) GetTenant(ctx context.Context, tenantID string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.Collection(colTenants).FindOne(ctx, bson.M{"_id": tenantID}).Decode(&tenant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return &tenant, nil
}

func (s *Store) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	cursor, err := s.db.Collection(colTenants).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer cursor.Close(ctx)

	var tenants []models.Tenant
	if err := cursor.All(ctx, &tenants); err != nil {
		return nil, fmt.Errorf("failed to decode tenants: %w", err)
	}

	return tenants, nil
}

func (s *Store) UpdateTenantActivation(ctx context.Context, tenantID string, active bool, plan string, planExpiresAt time.Time) error {
	update := bson.M{
		"active":     active,
		"updated_at": time.Now(),
	}
	if plan != "" {
		update["plan"] = plan
	}
	if !planExpiresAt.IsZero() {
		update["plan_expires_at"] = planExpiresAt
	}

	result, err := s.db.Collection(colTenants).UpdateOne(
		ctx,
		bson.M{"_id": tenantID},
		bson.M{"$set": update},
	)
	if err != nil {
		return fmt.Errorf("failed to update tenant activation: %w", err)
	}

	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}

	return nil
}
