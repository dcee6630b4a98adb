package payment

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"parcel-api/internal/models"
	"parcel-api/internal/telemetry"
)

var (
	ErrInvalidParcelID = errors.New("invalid parcel id")
	ErrParcelNotFound  = errors.New("parcel not found")
)

// Store is the payment persistence surface, implemented by
// mongodb.PaymentStore.
type Store interface {
	List(ctx context.Context, email string) ([]models.Payment, error)
	Insert(ctx context.Context, p models.Payment) (primitive.ObjectID, error)
}

// ParcelMarker flips the payment-status flag on a parcel. MarkPaid
// reports how many records matched; UnmarkPaid is the compensating
// action when the payment insert fails afterwards.
type ParcelMarker interface {
	MarkPaid(ctx context.Context, id primitive.ObjectID) (int64, error)
	UnmarkPaid(ctx context.Context, id primitive.ObjectID) error
}

// IntentCreator creates a charge intent at the payment gateway and
// returns its client secret.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amountCents int64) (string, error)
}

// RecordInput carries the fields of a completed payment to persist.
type RecordInput struct {
	ParcelID      string
	Email         string
	Amount        float64
	PaymentMethod string
	TransactionID string
}

type UseCase struct {
	payments Store
	parcels  ParcelMarker
	gateway  IntentCreator
	metrics  *telemetry.Metrics
	log      *zap.Logger
	tracer   trace.Tracer
}

func NewUseCase(payments Store, parcels ParcelMarker, gateway IntentCreator, metrics *telemetry.Metrics, log *zap.Logger, tracer trace.Tracer) *UseCase {
	return &UseCase{
		payments: payments,
		parcels:  parcels,
		gateway:  gateway,
		metrics:  metrics,
		log:      log,
		tracer:   tracer,
	}
}

// List returns payments newest first, optionally restricted to one payer
// email.
func (uc *UseCase) List(ctx context.Context, email string) ([]models.Payment, error) {
	ctx, span := uc.tracer.Start(ctx, "ListPayments",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("payment.email", email)),
	)
	defer span.End()

	payments, err := uc.payments.List(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("payment.count", len(payments)))
	span.SetStatus(codes.Ok, "")
	return payments, nil
}

// Record marks the parcel paid and then persists the payment record. If
// the insert fails after the parcel was flagged, the flag is reverted so
// a payment record never exists without its parcel being marked paid.
func (uc *UseCase) Record(ctx context.Context, in RecordInput) (*models.Payment, error) {
	ctx, span := uc.tracer.Start(ctx, "RecordPayment",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("payment.parcel_id", in.ParcelID),
			attribute.String("payment.email", in.Email),
			attribute.Float64("payment.amount", in.Amount),
		),
	)
	defer span.End()

	oid, err := primitive.ObjectIDFromHex(in.ParcelID)
	if err != nil {
		span.SetStatus(codes.Error, "invalid parcel id")
		return nil, ErrInvalidParcelID
	}

	matched, err := uc.parcels.MarkPaid(ctx, oid)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if matched == 0 {
		span.SetStatus(codes.Error, "parcel not found")
		return nil, ErrParcelNotFound
	}

	now := time.Now()
	p := models.Payment{
		ParcelID:      in.ParcelID,
		Email:         in.Email,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		TransactionID: in.TransactionID,
		Status:        models.PaymentStatusSuccess,
		PaidAtString:  now.Format(time.RFC1123),
		PaidAt:        now,
	}

	id, err := uc.payments.Insert(ctx, p)
	if err != nil {
		if revertErr := uc.parcels.UnmarkPaid(ctx, oid); revertErr != nil {
			uc.log.Error("failed to revert parcel payment status",
				zap.String("parcel_id", in.ParcelID),
				zap.Error(revertErr),
			)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	p.ID = id

	uc.metrics.PaymentsRecorded.Add(ctx, 1)
	uc.metrics.PaymentAmount.Record(ctx, in.Amount)

	span.SetAttributes(attribute.String("payment.id", id.Hex()))
	span.SetStatus(codes.Ok, "")

	uc.log.Info("payment recorded",
		zap.String("payment_id", id.Hex()),
		zap.String("parcel_id", in.ParcelID),
		zap.String("email", in.Email),
		zap.Float64("amount", in.Amount),
	)

	return &p, nil
}

// CreateIntent asks the gateway for a charge intent and returns the
// client secret.
func (uc *UseCase) CreateIntent(ctx context.Context, amountCents int64) (string, error) {
	ctx, span := uc.tracer.Start(ctx, "CreatePaymentIntent",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.Int64("payment.amount_cents", amountCents)),
	)
	defer span.End()

	secret, err := uc.gateway.CreateIntent(ctx, amountCents)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	uc.metrics.IntentsCreated.Add(ctx, 1)
	span.SetStatus(codes.Ok, "")

	uc.log.Info("payment intent created", zap.Int64("amount_cents", amountCents))
	return secret, nil
}
