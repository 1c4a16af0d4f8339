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

// IssueFilter narrows an issue listing. Zero values match everything.
type IssueFilter struct {
	UserID *primitive.ObjectID
}

// IssueCollection defines the interface for issue database operations
type IssueCollection interface {
	InsertIssue(ctx context.Context, issue models.Issue) (*models.Issue, error)
	FindIssueByID(ctx context.Context, id string) (*models.Issue, error)
	FindIssues(ctx context.Context, filter IssueFilter) ([]models.Issue, error)
	UpdateIssue(ctx context.Context, id string, issue models.Issue) error
}

// MongoIssueCollection implements IssueCollection for MongoDB
type MongoIssueCollection struct {
	Collection *mongo.Collection
}

// InsertIssue inserts a new issue into the database
func (c *MongoIssueCollection) InsertIssue(ctx context.Context, issue models.Issue) (*models.Issue, error) {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	issue.CreatedAt = time.Now()
	issue.UpdatedAt = issue.CreatedAt

	if _, err := c.Collection.InsertOne(ctx, issue); err != nil {
		return nil, fmt.Errorf("insert issue: %w", err)
	}
	return &issue, nil
}

// FindIssueByID finds an issue by its ID
func (c *MongoIssueCollection) FindIssueByID(ctx context.Context, id string) (*models.Issue, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", ErrIssueNotFound, id)
	}

	var issue models.Issue
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrIssueNotFound
		}
		return nil, err
	}
	return &issue, nil
}

// FindIssues queries issues, optionally limited to one reporter, sorted
// newest-created-first.
func (c *MongoIssueCollection) FindIssues(ctx context.Context, filter IssueFilter) ([]models.Issue, error) {
	query := bson.M{}
	if filter.UserID != nil {
		query["user"] = *filter.UserID
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := c.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// UpdateIssue replaces an issue document
func (c *MongoIssueCollection) UpdateIssue(ctx context.Context, id string, issue models.Issue) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid id %q", ErrIssueNotFound, id)
	}

	issue.ID = objectID
	issue.UpdatedAt = time.Now()

	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, issue)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrIssueNotFound
	}
	return nil
}
