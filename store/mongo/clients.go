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

func (s *Store) CreateClient(ctx context.Context, client *models.Client) error {
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	now := time.Now()
	client.CreatedAt = now
	client.UpdatedAt = now

	if _, err := s.db.Collection(colClients).InsertOne(ctx, client); err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

func (s *Store) GetClient(ctx context.Context, tenantID, clientID string) (*models.Client, error) {
	var client models.Client
	err := s.db.Collection(colClients).FindOne(ctx, bson.M{
		"_id":       clientID,
		"tenant_id": tenantID,
	}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return &client, nil
}

func (s *Store) ListClients(ctx context.Context, tenantID string) ([]models.Client, error) {
	cursor, err := s.db.Collection(colClients).Find(ctx,
		bson.M{"tenant_id": tenantID},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer cursor.Close(ctx)

	var clients []models.Client
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, fmt.Errorf("failed to decode clients: %w", err)
	}

	return clients, nil
}

func (s *Store) UpdateClient(ctx context.Context, tenantID string, client *models.Client) error {
	result, err := s.db.Collection(colClients).UpdateOne(
		ctx,
		bson.M{"_id": client.ID, "tenant_id": tenantID},
		bson.M{"$set": bson.M{
			"name":       client.Name,
			"email":      client.Email,
			"phone":      client.Phone,
			"notes":      client.Notes,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteClient(ctx context.Context, tenantID, clientID string) error {
	result, err := s.db.Collection(colClients).DeleteOne(ctx, bson.M{
		"_id":       clientID,
		"tenant_id": tenantID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}

	return nil
}
