package db

import (
	"context"
	"time"

	"github.com/greencity/waste-pickup/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditPageSize is the fixed page size for audit log listings.
const AuditPageSize = 20

// AuditCollection defines the interface for audit log operations. The
// store is append-only: there are deliberately no update or delete
// methods.
type AuditCollection interface {
	InsertEntry(ctx context.Context, entry models.AuditLogEntry) error
	FindEntries(ctx context.Context, page int64) ([]models.AuditLogEntry, error)
	CountEntries(ctx context.Context) (int64, error)
}

// MongoAuditCollection implements AuditCollection for MongoDB
type MongoAuditCollection struct {
	Collection *mongo.Collection
}

// InsertEntry appends an audit log entry
func (c *MongoAuditCollection) InsertEntry(ctx context.Context, entry models.AuditLogEntry) error {
	entry.CreatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, entry)
	return err
}

// FindEntries returns one page of entries, newest first
func (c *MongoAuditCollection) FindEntries(ctx context.Context, page int64) ([]models.AuditLogEntry, error) {
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip((page - 1) * AuditPageSize).
		SetLimit(AuditPageSize)

	cursor, err := c.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.AuditLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountEntries returns the total number of audit entries
func (c *MongoAuditCollection) CountEntries(ctx context.Context) (int64, error) {
	return c.Collection.CountDocuments(ctx, bson.M{})
}
