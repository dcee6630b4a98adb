package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"parcel-api/internal/models"
)

const trackingCollection = "tracking"

type TrackingStore struct {
	coll *mongo.Collection
}

func NewTrackingStore(db *mongo.Database) *TrackingStore {
	return &TrackingStore{coll: db.Collection(trackingCollection)}
}

// Append writes one tracking log entry. Entries are append-only.
func (s *TrackingStore) Append(ctx context.Context, entry models.TrackingEntry) (primitive.ObjectID, error) {
	result, err := s.coll.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert tracking entry: %w", err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return id, nil
}
