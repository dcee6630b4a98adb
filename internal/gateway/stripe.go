package gateway

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Stripe creates charge intents against the Stripe API. Intents are
// fixed to USD and card payment methods.
type Stripe struct {
	api    *client.API
	tracer trace.Tracer
}

func NewStripe(secretKey string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &Stripe{
		api:    api,
		tracer: otel.Tracer("gateway/stripe"),
	}
}

// CreateIntent creates a card-only USD payment intent for the given
// amount in cents and returns the client secret the caller needs to
// complete the charge client-side.
func (s *Stripe) CreateIntent(ctx context.Context, amountCents int64) (string, error) {
	ctx, span := s.tracer.Start(ctx, "stripe.CreatePaymentIntent",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int64("payment.amount_cents", amountCents),
			attribute.String("payment.currency", "usd"),
		),
	)
	defer span.End()

	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amountCents),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}

	intent, err := s.api.PaymentIntents.New(params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return intent.ClientSecret, nil
}
