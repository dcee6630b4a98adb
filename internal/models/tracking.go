package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackingEntry is an append-only status event for a parcel. Entries are
// never updated or deleted once written.
type TrackingEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TrackingID string             `bson:"tracking_id" json:"tracking_id"`
	ParcelID   string             `bson:"parcel_id,omitempty" json:"parcel_id,omitempty"`
	Status     string             `bson:"status" json:"status"`
	Message    string             `bson:"message" json:"message"`
	UpdatedBy  string             `bson:"updated_by" json:"updated_by"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}
