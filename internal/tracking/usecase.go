package tracking

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"parcel-api/internal/models"
	"parcel-api/internal/telemetry"
)

// Store is the tracking persistence surface, implemented by
// mongodb.TrackingStore.
type Store interface {
	Append(ctx context.Context, entry models.TrackingEntry) (primitive.ObjectID, error)
}

// AppendInput carries a tracking event to record. ParcelID and UpdatedBy
// may be empty; the entry timestamp is always assigned server-side.
type AppendInput struct {
	TrackingID string
	ParcelID   string
	Status     string
	Message    string
	UpdatedBy  string
}

type UseCase struct {
	store   Store
	metrics *telemetry.Metrics
	log     *zap.Logger
	tracer  trace.Tracer
}

func NewUseCase(store Store, metrics *telemetry.Metrics, log *zap.Logger, tracer trace.Tracer) *UseCase {
	return &UseCase{store: store, metrics: metrics, log: log, tracer: tracer}
}

func (uc *UseCase) Append(ctx context.Context, in AppendInput) (*models.TrackingEntry, error) {
	ctx, span := uc.tracer.Start(ctx, "AppendTracking",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("tracking.id", in.TrackingID),
			attribute.String("tracking.status", in.Status),
		),
	)
	defer span.End()

	entry := models.TrackingEntry{
		TrackingID: in.TrackingID,
		ParcelID:   in.ParcelID,
		Status:     in.Status,
		Message:    in.Message,
		UpdatedBy:  in.UpdatedBy,
		Timestamp:  time.Now(),
	}

	id, err := uc.store.Append(ctx, entry)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	entry.ID = id

	uc.metrics.TrackingAppended.Add(ctx, 1)
	span.SetAttributes(attribute.String("tracking.entry_id", id.Hex()))
	span.SetStatus(codes.Ok, "")

	uc.log.Info("tracking entry appended",
		zap.String("tracking_id", in.TrackingID),
		zap.String("status", in.Status),
		zap.String("entry_id", id.Hex()),
	)

	return &entry, nil
}
