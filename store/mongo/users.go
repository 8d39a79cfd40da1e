package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"retail-admin/models"
	"retail-admin/store"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	if _, err := s.db.Collection(colUsers).InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(colUsers).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(colUsers).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context, tenantID string) ([]models.User, error) {
	filter := bson.M{}
	if tenantID != "" {
		filter["tenant_id"] = tenantID
	}

	cursor, err := s.db.Collection(colUsers).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

func (s *Store) updateUser(ctx context.Context, userID string, update bson.M) error {
	update["updated_at"] = time.Now()

	result, err := s.db.Collection(colUsers).UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": update},
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	return s.updateUser(ctx, userID, bson.M{"password_hash": passwordHash})
}

func (s *Store) UpdateUserRole(ctx context.Context, userID string, role models.UserRole) error {
	return s.updateUser(ctx, userID, bson.M{"role": role})
}

func (s *Store) UpdateUserLastLogin(ctx context.Context, userID string) error {
	return s.updateUser(ctx, userID, bson.M{"last_login": time.Now()})
}

func (s *Store) SetUserActive(ctx context.Context, userID string, active bool) error {
	return s.updateUser(ctx, userID, bson.M{"active": active})
}

func (s *Store) SetUserTenant(ctx context.Context, userID, tenantID string) error {
	return s.updateUser(ctx, userID, bson.M{"tenant_id": tenantID})
}

func (s *Store) CountUsersByRole(ctx context.Context, role models.UserRole) (int64, error) {
	count, err := s.db.Collection(colUsers).CountDocuments(ctx, bson.M{"role": role})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

func (s *Store) ClearSuperAdminTenants(ctx context.Context) (int64, error) {
	result, err := s.db.Collection(colUsers).UpdateMany(
		ctx,
		bson.M{
			"role":      models.RoleSuperAdmin,
			"tenant_id": bson.M{"$exists": true, "$ne": ""},
		},
		bson.M{
			"$unset": bson.M{"tenant_id": ""},
			"$set":   bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to repair super admin tenants: %w", err)
	}

	return result.ModifiedCount, nil
}
