package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"booking-sync-service/internal/domain/entity"
	"booking-sync-service/internal/domain/repository"
)

// MongoSyncRunRepository persists the per-run audit trail.
type MongoSyncRunRepository struct {
	collection *mongo.Collection
}

// NewMongoSyncRunRepository creates a new MongoDB sync-run repository.
func NewMongoSyncRunRepository(db *mongo.Database) repository.SyncRunRepository {
	return &MongoSyncRunRepository{
		collection: db.Collection("sync_runs"),
	}
}

// Save stores one finished run.
func (r *MongoSyncRunRepository) Save(ctx context.Context, run *entity.SyncRun) error {
	_, err := r.collection.InsertOne(ctx, run)
	return err
}

// FindRecent returns the most recent runs, newest first.
func (r *MongoSyncRunRepository) FindRecent(ctx context.Context, limit int) ([]entity.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "startedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var runs []entity.SyncRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
