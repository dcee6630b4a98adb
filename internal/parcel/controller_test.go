package parcel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

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

// memStore is an in-memory Store honoring the same contract as the
// mongo-backed one: creator filtering and newest-first ordering.
type memStore struct {
	parcels     []models.Parcel
	listErr     error
	insertErr   error
	deleteErr   error
	deleteCalls int
}

func (s *memStore) List(_ context.Context, createdBy string) ([]models.Parcel, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Parcel, 0)
	for _, p := range s.parcels {
		if createdBy == "" || p.CreatedBy == createdBy {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) Get(_ context.Context, id primitive.ObjectID) (*models.Parcel, error) {
	for i := range s.parcels {
		if s.parcels[i].ID == id {
			p := s.parcels[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) Insert(_ context.Context, p models.Parcel) (primitive.ObjectID, error) {
	if s.insertErr != nil {
		return primitive.NilObjectID, s.insertErr
	}
	p.ID = primitive.NewObjectID()
	s.parcels = append(s.parcels, p)
	return p.ID, nil
}

func (s *memStore) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.deleteCalls++
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	for i := range s.parcels {
		if s.parcels[i].ID == id {
			s.parcels = append(s.parcels[:i], s.parcels[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func newTestApp(t *testing.T, store Store) *fiber.App {
	t.Helper()

	metrics, err := telemetry.NewMetrics(noopmetric.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	log := zap.NewNop()
	tracer := nooptrace.NewTracerProvider().Tracer("test")

	ctrl := NewController(NewUseCase(store, metrics, log, tracer), log, tracer)

	app := fiber.New()
	app.Get("/parcels", ctrl.List)
	app.Post("/parcels", ctrl.Create)
	app.Get("/parcels/:id", ctrl.Get)
	app.Delete("/parcels/:id", ctrl.Delete)
	return app
}

func seedParcel(createdBy string, age time.Duration) models.Parcel {
	return models.Parcel{
		ID:        primitive.NewObjectID(),
		CreatedBy: createdBy,
		CreatedAt: time.Now().Add(-age),
	}
}

func decodeParcels(t *testing.T, resp *http.Response) []models.Parcel {
	t.Helper()
	var parcels []models.Parcel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parcels))
	return parcels
}

func TestListReturnsAllNewestFirst(t *testing.T) {
	store := &memStore{parcels: []models.Parcel{
		seedParcel("alice@example.com", 2*time.Hour),
		seedParcel("bob@example.com", time.Hour),
		seedParcel("alice@example.com", 0),
	}}
	app := newTestApp(t, store)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/parcels", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	parcels := decodeParcels(t, resp)
	require.Len(t, parcels, 3)
	for i := 1; i < len(parcels); i++ {
		assert.False(t, parcels[i].CreatedAt.After(parcels[i-1].CreatedAt),
			"parcels must be ordered newest first")
	}
}

func TestListFiltersByCreator(t *testing.T) {
	store := &memStore{parcels: []models.Parcel{
		seedParcel("alice@example.com", time.Hour),
		seedParcel("bob@example.com", time.Minute),
		seedParcel("alice@example.com", 0),
	}}
	app := newTestApp(t, store)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/parcels?email=alice@example.com", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	parcels := decodeParcels(t, resp)
	require.Len(t, parcels, 2)
	for _, p := range parcels {
		assert.Equal(t, "alice@example.com", p.CreatedBy)
	}
}

func TestListStorageFailure(t *testing.T) {
	store := &memStore{listErr: errors.New("connection reset")}
	app := newTestApp(t, store)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/parcels", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	store := &memStore{}
	app := newTestApp(t, store)

	body, _ := json.Marshal(map[string]any{
		"created_by": "alice@example.com",
		"details": map[string]any{
			"title":  "books",
			"weight": 2.5,
			"region": "north",
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/parcels", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Parcel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.False(t, created.ID.IsZero())
	assert.False(t, created.CreatedAt.IsZero())

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/parcels/"+created.ID.Hex(), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched models.Parcel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "alice@example.com", fetched.CreatedBy)
	assert.Equal(t, "books", fetched.Details["title"])
	assert.Equal(t, "north", fetched.Details["region"])
}

func TestCreateRequiresCreator(t *testing.T) {
	store := &memStore{}
	app := newTestApp(t, store)

	body := []byte(`{"details": {"weight": 1}}`)
	req := httptest.NewRequest(http.MethodPost, "/parcels", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, store.parcels)
}

func TestGetMalformedID(t *testing.T) {
	app := newTestApp(t, &memStore{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/parcels/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetNotFound(t *testing.T) {
	app := newTestApp(t, &memStore{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/parcels/"+primitive.NewObjectID().Hex(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteMalformedIDSkipsStorage(t *testing.T) {
	store := &memStore{}
	app := newTestApp(t, store)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/parcels/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, store.deleteCalls, "malformed id must be rejected before any storage access")
}

func TestDeleteMissingParcelReportsZero(t *testing.T) {
	app := newTestApp(t, &memStore{})

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/parcels/"+primitive.NewObjectID().Hex(), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ack struct {
		DeletedCount int64 `json:"deleted_count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	assert.Zero(t, ack.DeletedCount)
}

func TestDeleteRemovesOne(t *testing.T) {
	p := seedParcel("alice@example.com", 0)
	store := &memStore{parcels: []models.Parcel{p}}
	app := newTestApp(t, store)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/parcels/"+p.ID.Hex(), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ack struct {
		DeletedCount int64 `json:"deleted_count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	assert.Equal(t, int64(1), ack.DeletedCount)
	assert.Empty(t, store.parcels)
}

func TestDeleteStorageFailureIncludesDetail(t *testing.T) {
	store := &memStore{deleteErr: fmt.Errorf("write conflict")}
	app := newTestApp(t, store)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/parcels/"+primitive.NewObjectID().Hex(), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Detail, "write conflict")
}
