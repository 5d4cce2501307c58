package main

import (
	"lockwatch/internal/contention/alerts"
	"lockwatch/internal/contention/handler"
	"lockwatch/internal/contention/repository"
	"lockwatch/internal/contention/sampler"
	"lockwatch/internal/contention/service"
	"lockwatch/internal/contention/validator"
	"lockwatch/pkg/app"
	"lockwatch/pkg/clock"
	"lockwatch/pkg/config"
	"lockwatch/pkg/kafka"
	kafka_config "lockwatch/pkg/kafka/config"
	kafka_middleware "lockwatch/pkg/kafka/middleware"
)

const ServiceName = "lockwatch"

func main() {
	cfg := config.Load(ServiceName)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	// Log all configuration values
	cfg.LogConfiguration()

	cfg.Log.Info("Starting lock contention monitor")
	cfg.SetMongo()
	cfg.SetPostgres()
	defer cfg.GracefulShutdown()

	clk := clock.New()
	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close alert publisher", "error", err)
		}
	}()

	monitorService := initServices(cfg, clk, publisher)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewMonitorHandler(monitorService, cfg.Log))
	serverApp.AddWorker(service.NewScheduler(monitorService, cfg))
	serverApp.AddWorker(service.NewRetentionService(repository.NewMongoContentionRepository(cfg), clk, cfg))
	serverApp.Run()
}

func initPublisher(cfg *config.Config) alerts.Publisher {
	if !cfg.AlertsEnabled {
		cfg.Log.Info("Alert publishing disabled")
		return alerts.NewNoopPublisher()
	}

	kafkaCfg := kafka_config.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.AlertTopic, cfg.AlertDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware())
	producer.Use(kafka_middleware.MetricsProducerMiddleware())

	cfg.Log.Info("Alert publisher initialized", "topic", cfg.AlertTopic, "dlq_topic", cfg.AlertDLQTopic)
	return alerts.NewKafkaPublisher(producer, cfg.Log)
}

func initServices(cfg *config.Config, clk clock.Clock, publisher alerts.Publisher) service.MonitorService {
	findingValidator := validator.NewFindingValidator(cfg.Log)
	contentionRepo := repository.NewMongoContentionRepository(cfg)
	lockSampler := sampler.New(cfg.Client.Postgres, sampler.IdentityResolver, clk, cfg.Log, cfg.SampleTimeout)

	monitorService := service.NewMonitorService(
		lockSampler,
		contentionRepo,
		publisher,
		findingValidator,
		clk,
		cfg,
	)

	cfg.Log.Info("Monitor service initialized", "database", cfg.MongoDatabaseName)
	return monitorService
}
