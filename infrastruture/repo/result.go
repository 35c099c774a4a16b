package repo

import (
	"context"
	"errors"
	"fmt"

	dmn "github.com/beka-birhanu/vinom-bot/domain"
	"github.com/beka-birhanu/vinom-bot/service/i"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	maxRecentLimit = 100
)

var (
	ErrNilResult = errors.New("nil run result")
)

var _ i.ResultRepo = &ResultRepo{}

// ResultRepo handles the persistence of finished runs.
type ResultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a new ResultRepo with the given MongoDB client, database name, and collection name.
func NewResultRepo(client *mongo.Client, dbName, collectionName string) *ResultRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &ResultRepo{
		collection: collection,
	}
}

// EnsureIndexes creates the index backing Recent.
func (r *ResultRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "finishedAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("creating result index: %w", err)
	}
	return nil
}

// Save inserts or replaces a run result keyed by its ID.
func (r *ResultRepo) Save(ctx context.Context, result *dmn.RunResult) error {
	if result == nil {
		return ErrNilResult
	}

	filter := bson.M{"_id": result.ID}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, filter, result, opts); err != nil {
		return unexpected(err)
	}
	return nil
}

// Recent returns up to limit results, newest first. The limit is clamped to [1, 100].
func (r *ResultRepo) Recent(ctx context.Context, limit int64) ([]dmn.RunResult, error) {
	limit = max(1, min(limit, maxRecentLimit))

	opts := options.Find().SetSort(bson.D{{Key: "finishedAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, unexpected(err)
	}
	defer cursor.Close(ctx)

	results := make([]dmn.RunResult, 0, limit)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, unexpected(err)
	}
	return results, nil
}

// unexpected wraps a driver error, keeping it reachable for errors.Is.
func unexpected(err error) error {
	return fmt.Errorf("unexpected error: %w", err)
}
