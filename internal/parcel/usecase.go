package parcel

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
	ErrInvalidID = errors.New("invalid parcel id")
	ErrNotFound  = errors.New("parcel not found")
)

// Store is the persistence surface the parcel use case depends on. The
// production implementation is mongodb.ParcelStore.
type Store interface {
	List(ctx context.Context, createdBy string) ([]models.Parcel, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Parcel, error)
	Insert(ctx context.Context, p models.Parcel) (primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
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

// List returns all parcels, newest first, optionally restricted to one
// creator email.
func (uc *UseCase) List(ctx context.Context, createdBy string) ([]models.Parcel, error) {
	ctx, span := uc.tracer.Start(ctx, "ListParcels",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("parcel.created_by", createdBy)),
	)
	defer span.End()

	parcels, err := uc.store.List(ctx, createdBy)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("parcel.count", len(parcels)))
	span.SetStatus(codes.Ok, "")
	return parcels, nil
}

func (uc *UseCase) Get(ctx context.Context, id string) (*models.Parcel, error) {
	ctx, span := uc.tracer.Start(ctx, "GetParcel",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("parcel.id", id)),
	)
	defer span.End()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		span.SetStatus(codes.Error, "invalid parcel id")
		return nil, ErrInvalidID
	}

	p, err := uc.store.Get(ctx, oid)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return p, nil
}

// Create stores a new parcel. The details document is persisted verbatim;
// the creation timestamp is assigned here and drives list ordering.
func (uc *UseCase) Create(ctx context.Context, createdBy string, details map[string]any) (*models.Parcel, error) {
	ctx, span := uc.tracer.Start(ctx, "CreateParcel",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("parcel.created_by", createdBy)),
	)
	defer span.End()

	p := models.Parcel{
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
		Details:   details,
	}

	id, err := uc.store.Insert(ctx, p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	p.ID = id

	uc.metrics.ParcelsCreated.Add(ctx, 1)
	span.SetAttributes(attribute.String("parcel.id", id.Hex()))
	span.SetStatus(codes.Ok, "")

	uc.log.Info("parcel created",
		zap.String("parcel_id", id.Hex()),
		zap.String("created_by", createdBy),
	)

	return &p, nil
}

// Delete removes at most one parcel and reports the number of records
// removed. A zero count is not an error; it means nothing matched.
func (uc *UseCase) Delete(ctx context.Context, id string) (int64, error) {
	ctx, span := uc.tracer.Start(ctx, "DeleteParcel",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("parcel.id", id)),
	)
	defer span.End()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		span.SetStatus(codes.Error, "invalid parcel id")
		return 0, ErrInvalidID
	}

	deleted, err := uc.store.Delete(ctx, oid)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	if deleted > 0 {
		uc.metrics.ParcelsDeleted.Add(ctx, deleted)
	}
	span.SetAttributes(attribute.Int64("parcel.deleted_count", deleted))
	span.SetStatus(codes.Ok, "")

	uc.log.Info("parcel delete processed",
		zap.String("parcel_id", id),
		zap.Int64("deleted_count", deleted),
	)

	return deleted, nil
}
