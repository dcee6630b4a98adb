package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parcel-api/internal/models"
	"parcel-api/internal/parcel"
)

const parcelsCollection = "parcels"

type ParcelStore struct {
	coll *mongo.Collection
}

func NewParcelStore(db *mongo.Database) *ParcelStore {
	return &ParcelStore{coll: db.Collection(parcelsCollection)}
}

// List returns parcels newest first, optionally filtered by creator.
func (s *ParcelStore) List(ctx context.Context, createdBy string) ([]models.Parcel, error) {
	filter := bson.M{}
	if createdBy != "" {
		filter["created_by"] = createdBy
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find parcels: %w", err)
	}
	defer cursor.Close(ctx)

	parcels := make([]models.Parcel, 0)
	if err := cursor.All(ctx, &parcels); err != nil {
		return nil, fmt.Errorf("failed to decode parcels: %w", err)
	}
	return parcels, nil
}

func (s *ParcelStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Parcel, error) {
	var p models.Parcel
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, parcel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find parcel: %w", err)
	}
	return &p, nil
}

func (s *ParcelStore) Insert(ctx context.Context, p models.Parcel) (primitive.ObjectID, error) {
	result, err := s.coll.InsertOne(ctx, p)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert parcel: %w", err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return id, nil
}

// Delete removes at most one parcel and reports how many were removed.
func (s *ParcelStore) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("failed to delete parcel: %w", err)
	}
	return result.DeletedCount, nil
}

// MarkPaid sets the payment status flag on a single parcel and reports
// how many records matched.
func (s *ParcelStore) MarkPaid(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"payment_status": models.PaymentStatusPaid}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark parcel paid: %w", err)
	}
	return result.MatchedCount, nil
}

// UnmarkPaid reverts MarkPaid. Used as the compensating step when the
// payment record insert fails after the parcel was already flagged.
func (s *ParcelStore) UnmarkPaid(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$unset": bson.M{"payment_status": ""}},
	)
	if err != nil {
		return fmt.Errorf("failed to unmark parcel paid: %w", err)
	}
	return nil
}
