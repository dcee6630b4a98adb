package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parcel-api/internal/models"
)

const paymentsCollection = "payments"

type PaymentStore struct {
	coll *mongo.Collection
}

func NewPaymentStore(db *mongo.Database) *PaymentStore {
	return &PaymentStore{coll: db.Collection(paymentsCollection)}
}

// List returns payments newest first, optionally filtered by payer email.
func (s *PaymentStore) List(ctx context.Context, email string) ([]models.Payment, error) {
	filter := bson.M{}
	if email != "" {
		filter["email"] = email
	}

	opts := options.Find().SetSort(bson.D{{Key: "paid_at", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find payments: %w", err)
	}
	defer cursor.Close(ctx)

	payments := make([]models.Payment, 0)
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}
	return payments, nil
}

func (s *PaymentStore) Insert(ctx context.Context, p models.Payment) (primitive.ObjectID, error) {
	result, err := s.coll.InsertOne(ctx, p)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert payment: %w", err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return id, nil
}
