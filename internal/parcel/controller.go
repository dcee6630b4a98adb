package parcel

import (
	"errors"

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

type createParcelRequest struct {
	CreatedBy string         `json:"created_by"`
	Details   map[string]any `json:"details"`
}

func (ct *Controller) List(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.ListParcels",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	parcels, err := ct.useCase.List(ctx, c.Query("email"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ct.log.Error("failed to list parcels", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get parcels"})
	}

	span.SetStatus(codes.Ok, "")
	return c.JSON(parcels)
}

func (ct *Controller) Get(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.GetParcel",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	p, err := ct.useCase.Get(ctx, c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidID):
			span.SetStatus(codes.Error, "invalid parcel id")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid parcel id"})
		case errors.Is(err, ErrNotFound):
			span.SetStatus(codes.Error, "parcel not found")
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "parcel not found"})
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			ct.log.Error("failed to get parcel", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get parcel"})
		}
	}

	span.SetStatus(codes.Ok, "")
	return c.JSON(p)
}

func (ct *Controller) Create(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.CreateParcel",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	var req createParcelRequest
	if err := c.BodyParser(&req); err != nil {
		span.SetStatus(codes.Error, "invalid body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if req.CreatedBy == "" {
		span.SetStatus(codes.Error, "missing required fields")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "created_by is required"})
	}

	p, err := ct.useCase.Create(ctx, req.CreatedBy, req.Details)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ct.log.Error("failed to create parcel", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create parcel"})
	}

	span.SetStatus(codes.Ok, "")
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (ct *Controller) Delete(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.DeleteParcel",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	deleted, err := ct.useCase.Delete(ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrInvalidID) {
			span.SetStatus(codes.Error, "invalid parcel id")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid parcel id"})
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ct.log.Error("failed to delete parcel", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  "failed to delete parcel",
			"detail": err.Error(),
		})
	}

	span.SetStatus(codes.Ok, "")
	return c.JSON(fiber.Map{"deleted_count": deleted})
}
