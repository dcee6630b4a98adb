package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"parcel-api/internal/config"
	"parcel-api/internal/gateway"
	"parcel-api/internal/mongodb"
	"parcel-api/internal/parcel"
	"parcel-api/internal/payment"
	"parcel-api/internal/telemetry"
	"parcel-api/internal/tracking"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, tracer, meter, shutdown, err := telemetry.Setup(ctx, "parcel-api")
	if err != nil {
		panic("failed to initialize telemetry: " + err.Error())
	}
	defer shutdown(context.Background())

	metrics, err := telemetry.NewMetrics(meter)
	if err != nil {
		panic("failed to create metrics: " + err.Error())
	}

	cfg := config.Load()

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	client, err := mongodb.Connect(connectCtx, cfg.MongoURI)
	connectCancel()
	if err != nil {
		log.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer client.Disconnect(context.Background())
	log.Info("connected to mongodb", zap.String("database", cfg.DBName))

	db := client.Database(cfg.DBName)
	parcelStore := mongodb.NewParcelStore(db)
	paymentStore := mongodb.NewPaymentStore(db)
	trackingStore := mongodb.NewTrackingStore(db)
	stripeGateway := gateway.NewStripe(cfg.StripeSecretKey)

	parcelCtrl := parcel.NewController(
		parcel.NewUseCase(parcelStore, metrics, log, tracer), log, tracer)
	paymentCtrl := payment.NewController(
		payment.NewUseCase(paymentStore, parcelStore, stripeGateway, metrics, log, tracer), log, tracer)
	trackingCtrl := tracking.NewController(
		tracking.NewUseCase(trackingStore, metrics, log, tracer), log, tracer)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(cors.New())
	app.Use(otelfiber.Middleware())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Parcel server is running")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/parcels", parcelCtrl.List)
	app.Post("/parcels", parcelCtrl.Create)
	app.Get("/parcels/:id", parcelCtrl.Get)
	app.Delete("/parcels/:id", parcelCtrl.Delete)

	app.Post("/tracking", trackingCtrl.Append)

	app.Get("/payments", paymentCtrl.List)
	app.Post("/payments", paymentCtrl.Record)
	app.Post("/create-payment-intent", paymentCtrl.CreateIntent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down parcel-api...")
		_ = app.Shutdown()
		cancel()
	}()

	log.Info("parcel-api listening", zap.String("addr", ":"+cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("server error", zap.Error(err))
	}
}
