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

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	if _, err := s.db.Collection(colCategories).InsertOne(ctx, category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

func (s *Store) GetCategory(ctx context.Context, tenantID, categoryID string) (*models.Category, error) {
	var category models.Category
	err := s.db.Collection(colCategories).FindOne(ctx, bson.M{
		"_id":       categoryID,
		"tenant_id": tenantID,
	}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &category, nil
}

func (s *Store) ListCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	cursor, err := s.db.Collection(colCategories).Find(ctx,
		bson.M{"tenant_id": tenantID},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	return categories, nil
}

func (s *Store) UpdateCategory(ctx context.Context, tenantID string, category *models.Category) error {
	result, err := s.db.Collection(colCategories).UpdateOne(
		ctx,
		bson.M{"_id": category.ID, "tenant_id": tenantID},
		bson.M{"$set": bson.M{
			"name":        category.Name,
			"description": category.Description,
			"updated_at":  time.Now(),
		}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, tenantID, categoryID string) error {
	result, err := s.db.Collection(colCategories).DeleteOne(ctx, bson.M{
		"_id":       categoryID,
		"tenant_id": tenantID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}

	return nil
}
