package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Parcel is a shipment record. Details carries whatever the client sent
// at creation time and is stored verbatim, never validated.
type Parcel struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CreatedBy     string             `bson:"created_by" json:"created_by"`
	PaymentStatus string             `bson:"payment_status,omitempty" json:"payment_status,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	Details       map[string]any     `bson:"details,omitempty" json:"details,omitempty"`
}

const PaymentStatusPaid = "paid"
