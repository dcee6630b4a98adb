package telemetry

import (
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	ParcelsCreated   metric.Int64Counter
	ParcelsDeleted   metric.Int64Counter
	TrackingAppended metric.Int64Counter
	PaymentsRecorded metric.Int64Counter
	IntentsCreated   metric.Int64Counter
	PaymentAmount    metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	parcelsCreated, err := meter.Int64Counter("parcels_created_total",
		metric.WithDescription("Total parcels created"),
		metric.WithUnit("{parcel}"),
	)
	if err != nil {
		return nil, err
	}

	parcelsDeleted, err := meter.Int64Counter("parcels_deleted_total",
		metric.WithDescription("Total parcel delete requests that removed a record"),
		metric.WithUnit("{parcel}"),
	)
	if err != nil {
		return nil, err
	}

	trackingAppended, err := meter.Int64Counter("tracking_entries_total",
		metric.WithDescription("Total tracking log entries appended"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	paymentsRecorded, err := meter.Int64Counter("payments_recorded_total",
		metric.WithDescription("Total payments recorded"),
		metric.WithUnit("{payment}"),
	)
	if err != nil {
		return nil, err
	}

	intentsCreated, err := meter.Int64Counter("payment_intents_created_total",
		metric.WithDescription("Total payment intents created at the gateway"),
		metric.WithUnit("{intent}"),
	)
	if err != nil {
		return nil, err
	}

	paymentAmount, err := meter.Float64Histogram("payment_amount",
		metric.WithDescription("Recorded payment amounts"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 50, 100, 500, 1000),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ParcelsCreated:   parcelsCreated,
		ParcelsDeleted:   parcelsDeleted,
		TrackingAppended: trackingAppended,
		PaymentsRecorded: paymentsRecorded,
		IntentsCreated:   intentsCreated,
		PaymentAmount:    paymentAmount,
	}, nil
}
