package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"parcel-api/internal/telemetry"
)

var senders = []string{
	"alice@example.com",
	"bob@example.com",
	"carol@example.com",
	"dave@example.com",
	"eve@example.com",
}

var regions = []string{"north", "south", "east", "west"}

func apiAddr() string {
	if v := os.Getenv("PARCEL_API_ADDR"); v != "" {
		return v
	}
	return "http://localhost:3000"
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, _, _, shutdown, err := telemetry.Setup(ctx, "load-gen")
	if err != nil {
		panic("failed to initialize telemetry: " + err.Error())
	}
	defer shutdown(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down load-gen...")
		cancel()
	}()

	interval := 2 * time.Second
	if v := os.Getenv("INTERVAL_MS"); v != "" {
		if ms, err := time.ParseDuration(v + "ms"); err == nil {
			interval = ms
		}
	}

	addr := apiAddr()
	client := &http.Client{Timeout: 5 * time.Second}

	log.Info("load-gen started",
		zap.String("target", addr),
		zap.Duration("interval", interval),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			createParcel(ctx, client, addr, log)
		}
	}
}

// createParcel posts a parcel, then records a payment for it and appends
// a pickup tracking event, exercising the whole write surface.
func createParcel(ctx context.Context, client *http.Client, addr string, log *zap.Logger) {
	sender := senders[rand.IntN(len(senders))]
	weight := 0.5 + rand.Float64()*19.5
	cost := 50 + rand.Float64()*450

	body, _ := json.Marshal(map[string]any{
		"created_by": sender,
		"details": map[string]any{
			"title":  fmt.Sprintf("parcel-%d", rand.IntN(10000)),
			"weight": weight,
			"region": regions[rand.IntN(len(regions))],
			"cost":   cost,
		},
	})

	var created struct {
		ID string `json:"id"`
	}
	if !post(ctx, client, addr+"/parcels", body, &created, log) {
		return
	}

	log.Info("parcel created",
		zap.String("parcel_id", created.ID),
		zap.String("created_by", sender),
	)

	if rand.Float64() < 0.5 {
		payBody, _ := json.Marshal(map[string]any{
			"parcel_id":      created.ID,
			"email":          sender,
			"amount":         cost,
			"payment_method": "card",
			"transaction_id": uuid.NewString(),
		})
		post(ctx, client, addr+"/payments", payBody, nil, log)
	}

	trackBody, _ := json.Marshal(map[string]any{
		"tracking_id": uuid.NewString(),
		"parcel_id":   created.ID,
		"status":      "picked_up",
		"message":     "parcel picked up from sender",
		"updated_by":  sender,
	})
	post(ctx, client, addr+"/tracking", trackBody, nil, log)
}

func post(ctx context.Context, client *http.Client, url string, body []byte, out any, log *zap.Logger) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		log.Warn("request failed", zap.String("url", url), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Warn("request rejected",
			zap.String("url", url),
			zap.Int("http_status", resp.StatusCode),
		)
		return false
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Warn("failed to decode response", zap.String("url", url), zap.Error(err))
			return false
		}
	}
	return true
}
