package db

import (
	"context"
	"fmt"
	"time"

	"github.com/greencity/waste-pickup/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PickupFilter narrows a pickup listing. Zero values match everything.
type PickupFilter struct {
	Status models.Status
	Search string
	UserID *primitive.ObjectID
}

// PickupCollection defines the interface for pickup database operations
type PickupCollection interface {
	InsertPickup(ctx context.Context, pickup models.PickupRequest) (*models.PickupRequest, error)
	FindPickupByID(ctx context.Context, id string) (*models.PickupRequest, error)
	FindPickups(ctx context.Context, filter PickupFilter) ([]models.PickupRequest, error)
	ApplyTransition(ctx context.Context, id string, expectedStatus models.Status, pickup models.PickupRequest) error
}

// MongoPickupCollection implements PickupCollection for MongoDB
type MongoPickupCollection struct {
	Collection *mongo.Collection
}

// InsertPickup inserts a new pickup request into the database
func (c *MongoPickupCollection) InsertPickup(ctx context.Context, pickup models.PickupRequest) (*models.PickupRequest, error) {
	if pickup.ID.IsZero() {
		pickup.ID = primitive.NewObjectID()
	}
	pickup.CreatedAt = time.Now()
	pickup.UpdatedAt = pickup.CreatedAt

	if _, err := c.Collection.InsertOne(ctx, pickup); err != nil {
		return nil, fmt.Errorf("insert pickup: %w", err)
	}
	return &pickup, nil
}

// FindPickupByID finds a pickup by its ID
func (c *MongoPickupCollection) FindPickupByID(ctx context.Context, id string) (*models.PickupRequest, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", ErrPickupNotFound, id)
	}

	var pickup models.PickupRequest
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&pickup)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPickupNotFound
		}
		return nil, err
	}
	return &pickup, nil
}

// FindPickups queries pickups filtered by status and a case-insensitive
// search across the owner name/email snapshots and the address, sorted
// newest-created-first.
func (c *MongoPickupCollection) FindPickups(ctx context.Context, filter PickupFilter) ([]models.PickupRequest, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.UserID != nil {
		query["user"] = *filter.UserID
	}
	if filter.Search != "" {
		regex := primitive.Regex{Pattern: filter.Search, Options: "i"}
		query["$or"] = bson.A{
			bson.M{"user_name": regex},
			bson.M{"email": regex},
			bson.M{"address": regex},
		}
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := c.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pickups []models.PickupRequest
	if err := cursor.All(ctx, &pickups); err != nil {
		return nil, err
	}
	return pickups, nil
}

// ApplyTransition persists a transitioned pickup with a compare-and-swap
// on status: the replace only matches when the stored status still equals
// the status the caller loaded. A lost race surfaces as
// ErrConcurrentModification, never as a silent overwrite. The replace is
// a single atomic operation, so the status, operational fields and new
// timeline entry commit together or not at all.
func (c *MongoPickupCollection) ApplyTransition(ctx context.Context, id string, expectedStatus models.Status, pickup models.PickupRequest) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid id %q", ErrPickupNotFound, id)
	}

	pickup.ID = objectID
	pickup.UpdatedAt = time.Now()

	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID, "status": expectedStatus}, pickup)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		count, err := c.Collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrPickupNotFound
		}
		return ErrConcurrentModification
	}
	return nil
}
