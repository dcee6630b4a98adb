package payment

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

type recordPaymentRequest struct {
	ParcelID      string  `json:"parcel_id"`
	Email         string  `json:"email"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	TransactionID string  `json:"transaction_id"`
}

type createIntentRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

func (ct *Controller) List(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.ListPayments",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	payments, err := ct.useCase.List(ctx, c.Query("email"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ct.log.Error("failed to list payments", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get payments"})
	}

	span.SetStatus(codes.Ok, "")
	return c.JSON(payments)
}

func (ct *Controller) Record(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.RecordPayment",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	var req recordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		span.SetStatus(codes.Error, "invalid body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if req.ParcelID == "" || req.Email == "" || req.PaymentMethod == "" || req.TransactionID == "" || req.Amount <= 0 {
		span.SetStatus(codes.Error, "missing required fields")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "parcel_id, email, amount, payment_method and transaction_id are required",
		})
	}

	p, err := ct.useCase.Record(ctx, RecordInput{
		ParcelID:      req.ParcelID,
		Email:         req.Email,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidParcelID):
			span.SetStatus(codes.Error, "invalid parcel id")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid parcel id"})
		case errors.Is(err, ErrParcelNotFound):
			span.SetStatus(codes.Error, "parcel not found")
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "parcel not found"})
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			ct.log.Error("failed to record payment", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":  "failed to record payment",
				"detail": err.Error(),
			})
		}
	}

	span.SetStatus(codes.Ok, "")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"inserted_id": p.ID.Hex(), "payment": p})
}

func (ct *Controller) CreateIntent(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.CreatePaymentIntent",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	var req createIntentRequest
	if err := c.BodyParser(&req); err != nil {
		span.SetStatus(codes.Error, "invalid body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if req.AmountCents <= 0 {
		span.SetStatus(codes.Error, "amount_cents is required")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "amount_cents must be a positive integer"})
	}

	secret, err := ct.useCase.CreateIntent(ctx, req.AmountCents)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ct.log.Error("failed to create payment intent", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  "failed to create payment intent",
			"detail": err.Error(),
		})
	}

	span.SetStatus(codes.Ok, "")
	return c.JSON(fiber.Map{"client_secret": secret})
}
