package tracking

import (
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Controller struct {
	useCase *UseCase
	log     *zap.Logger
	tracer  trace.Tracer
}

func NewController(useCase *UseCase, log *zap.Logger, tracer trace.Tracer) *Controller {
	return &Controller{useCase: useCase, log: log, tracer: tracer}
}

type appendTrackingRequest struct {
	TrackingID string `json:"tracking_id"`
	ParcelID   string `json:"parcel_id"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	UpdatedBy  string `json:"updated_by"`
}

func (ct *Controller) Append(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.AppendTracking",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	var req appendTrackingRequest
	if err := c.BodyParser(&req); err != nil {
		span.SetStatus(codes.Error, "invalid body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if req.TrackingID == "" || req.Status == "" {
		span.SetStatus(codes.Error, "missing required fields")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tracking_id and status are required"})
	}

	entry, err := ct.useCase.Append(ctx, AppendInput{
		TrackingID: req.TrackingID,
		ParcelID:   req.ParcelID,
		Status:     req.Status,
		Message:    req.Message,
		UpdatedBy:  req.UpdatedBy,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ct.log.Error("failed to append tracking entry", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record tracking entry"})
	}

	span.SetStatus(codes.Ok, "")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"inserted_id": entry.ID.Hex()})
}
