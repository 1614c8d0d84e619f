package main

import (
	"context"
	"time"

	bookinghandler "doctortravel/internal/bookings/handler"
	bookingrepo "doctortravel/internal/bookings/repository"
	bookingservice "doctortravel/internal/bookings/service"
	bookingvalidator "doctortravel/internal/bookings/validator"
	cataloghandler "doctortravel/internal/catalog/handler"
	catalogrepo "doctortravel/internal/catalog/repository"
	catalogservice "doctortravel/internal/catalog/service"
	favoritesvalidator "doctortravel/internal/favorites/validator"
	"doctortravel/internal/geocode"
	"doctortravel/internal/session"
	sessionhandler "doctortravel/internal/session/handler"
	"doctortravel/pkg/app"
	"doctortravel/pkg/config"
	"doctortravel/pkg/contracts"
	"doctortravel/pkg/kafka"
	kafka_config "doctortravel/pkg/kafka/config"
	kafkamw "doctortravel/pkg/kafka/middleware"
)

const (
	ServiceName     = "travel-bff"
	janitorInterval = time.Minute
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetPostgres()
	cfg.SetRedis()

	cfg.Log.Info("Starting travel BFF")

	publisher, metrics := initPublisher(cfg)
	events := kafka.NewEmitter(publisher, ServiceName, cfg.RemoteCallTimeout, cfg.Log)

	sessions := session.NewManager(session.NewDependencies(cfg, events), cfg.Log)
	sessions.StartJanitor(janitorInterval)

	catalog := catalogservice.NewCatalogService(catalogrepo.NewPackageRepository(cfg), cfg.Log)

	var lockRepo bookingrepo.BookingLockRepository
	if cfg.Client.Redis != nil {
		lockRepo = bookingrepo.NewRedisBookingLockRepository(cfg.Client.Redis)
	} else {
		lockRepo = bookingrepo.NewMemoryBookingLockRepository()
	}
	bookings := bookingservice.NewBookingService(
		bookingrepo.NewBookingRepository(cfg),
		lockRepo,
		catalog,
		bookingvalidator.NewBookingValidator(cfg.Log),
		events,
		cfg,
	)

	handlers := contracts.Handlers{
		cataloghandler.NewPackageHandler(catalog, cfg.Log),
		sessionhandler.NewSessionHandler(sessions, favoritesvalidator.NewPackageValidator(cfg.Log), cfg.Log),
		bookinghandler.NewBookingHandler(bookings, sessions, cfg.Log),
	}
	health := app.NewHealthHandler(cfg.Log, func() any { return metrics.Snapshot() }, cfg.Client.HealthChecks()...)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handlers, health)
	serverApp.OnShutdown(sessions.Shutdown)
	serverApp.OnShutdown(func(context.Context) {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	})

	// Geocoding runs once per process start; its outcome never blocks serving.
	geocode.NewTrigger(cfg).Start(context.Background())

	serverApp.Run()
}

func initPublisher(cfg *config.Config) (kafka.Publisher, *kafkamw.Metrics) {
	metrics := kafkamw.NewMetrics()

	kcfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kcfg.Enabled() {
		cfg.Log.Info("Kafka not configured, domain events are dropped")
		return kafka.NopPublisher{}, metrics
	}
	kcfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kcfg, cfg.EventsTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafkamw.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafkamw.MetricsProducerMiddleware(metrics))
	return producer, metrics
}
