package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"parcel-api/internal/models"
	"parcel-api/internal/telemetry"
)

type fakeStore struct {
	entries   []models.TrackingEntry
	appendErr error
}

func (f *fakeStore) Append(_ context.Context, entry models.TrackingEntry) (primitive.ObjectID, error) {
	if f.appendErr != nil {
		return primitive.NilObjectID, f.appendErr
	}
	entry.ID = primitive.NewObjectID()
	f.entries = append(f.entries, entry)
	return entry.ID, nil
}

func newTestApp(t *testing.T, store Store) *fiber.App {
	t.Helper()

	metrics, err := telemetry.NewMetrics(noopmetric.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	log := zap.NewNop()
	tracer := nooptrace.NewTracerProvider().Tracer("test")

	ctrl := NewController(NewUseCase(store, metrics, log, tracer), log, tracer)

	app := fiber.New()
	app.Post("/tracking", ctrl.Append)
	return app
}

func postJSON(t *testing.T, app *fiber.App, body map[string]any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/tracking", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAppendAssignsTimestamp(t *testing.T) {
	store := &fakeStore{}
	app := newTestApp(t, store)

	resp := postJSON(t, app, map[string]any{
		"tracking_id": "TRK-001",
		"parcel_id":   primitive.NewObjectID().Hex(),
		"status":      "in_transit",
		"message":     "departed sorting facility",
		"updated_by":  "ops@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var ack struct {
		InsertedID string `json:"inserted_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	assert.NotEmpty(t, ack.InsertedID)

	require.Len(t, store.entries, 1)
	entry := store.entries[0]
	assert.Equal(t, "TRK-001", entry.TrackingID)
	assert.Equal(t, "in_transit", entry.Status)
	assert.False(t, entry.Timestamp.IsZero(), "timestamp must be server-assigned")
}

func TestAppendOptionalFieldsDefaultEmpty(t *testing.T) {
	store := &fakeStore{}
	app := newTestApp(t, store)

	resp := postJSON(t, app, map[string]any{
		"tracking_id": "TRK-002",
		"status":      "created",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.Len(t, store.entries, 1)
	assert.Empty(t, store.entries[0].ParcelID)
	assert.Empty(t, store.entries[0].UpdatedBy)
}

func TestAppendRequiresTrackingIDAndStatus(t *testing.T) {
	for _, body := range []map[string]any{
		{"status": "created"},
		{"tracking_id": "TRK-003"},
		{},
	} {
		store := &fakeStore{}
		app := newTestApp(t, store)

		resp := postJSON(t, app, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Empty(t, store.entries)
	}
}

func TestAppendStorageFailureProducesResponse(t *testing.T) {
	store := &fakeStore{appendErr: errors.New("connection reset")}
	app := newTestApp(t, store)

	resp := postJSON(t, app, map[string]any{
		"tracking_id": "TRK-004",
		"status":      "created",
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
