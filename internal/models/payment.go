package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ParcelID      string             `bson:"parcel_id" json:"parcel_id"`
	Email         string             `bson:"email" json:"email"`
	Amount        float64            `bson:"amount" json:"amount"`
	PaymentMethod string             `bson:"payment_method" json:"payment_method"`
	TransactionID string             `bson:"transaction_id" json:"transaction_id"`
	Status        string             `bson:"status" json:"status"`
	PaidAtString  string             `bson:"paid_at_string" json:"paid_at_string"`
	PaidAt        time.Time          `bson:"paid_at" json:"paid_at"`
}

const PaymentStatusSuccess = "success"
