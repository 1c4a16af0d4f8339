package db

import (
	"context"
	"time"

	"github.com/greencity/waste-pickup/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SettingsCollection defines the interface for the system settings
// singleton. The document lives under a fixed _id so at most one can
// ever exist.
type SettingsCollection interface {
	GetConfig(ctx context.Context) (*models.SystemSettings, error)
	SaveConfig(ctx context.Context, settings models.SystemSettings) error
}

// MongoSettingsCollection implements SettingsCollection for MongoDB
type MongoSettingsCollection struct {
	Collection *mongo.Collection
}

// GetConfig returns the one settings document, materializing the
// default record on first access.
func (c *MongoSettingsCollection) GetConfig(ctx context.Context) (*models.SystemSettings, error) {
	var settings models.SystemSettings
	err := c.Collection.FindOne(ctx, bson.M{"_id": models.SettingsKey}).Decode(&settings)
	if err == nil {
		return &settings, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	settings = models.DefaultSystemSettings()
	settings.CreatedAt = time.Now()
	settings.UpdatedAt = settings.CreatedAt
	if _, err := c.Collection.InsertOne(ctx, settings); err != nil {
		// Another writer may have materialized it first; the fixed _id
		// makes that a duplicate key, so re-read.
		if mongo.IsDuplicateKeyError(err) {
			err = c.Collection.FindOne(ctx, bson.M{"_id": models.SettingsKey}).Decode(&settings)
			if err != nil {
				return nil, err
			}
			return &settings, nil
		}
		return nil, err
	}
	return &settings, nil
}

// SaveConfig replaces the settings document under its fixed key,
// creating it if it has never been materialized.
func (c *MongoSettingsCollection) SaveConfig(ctx context.Context, settings models.SystemSettings) error {
	settings.ID = models.SettingsKey
	settings.UpdatedAt = time.Now()
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = settings.UpdatedAt
	}
	opts := options.Replace().SetUpsert(true)
	_, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": models.SettingsKey}, settings, opts)
	return err
}
