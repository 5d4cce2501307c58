package config

import (
	"time"

	"lockwatch/pkg/logger"
)

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "lockwatch"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPostgresDSN         = "postgres://localhost:5432/postgres"
	DefaultPostgresConnTimeout = 10 * time.Second
	DefaultSampleTimeout       = 5 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = logger.INFO

	DefaultSamplingInterval = 30 * time.Second

	// Severity ladder for blocking sessions. A holder blocking others for
	// less than MediumAfter is LOW.
	DefaultSeverityMediumAfter   = 60 * time.Second
	DefaultSeverityHighAfter     = 300 * time.Second
	DefaultSeverityCriticalAfter = 600 * time.Second
	DefaultKillThreshold         = 300 * time.Second

	DefaultRetentionHorizon  = 30 * 24 * time.Hour
	DefaultRetentionInterval = 6 * time.Hour

	// Efficiency score penalties per blocking edge / deadlock observed in
	// a window, and the noise band for trend classification.
	DefaultBlockingPenalty = 5
	DefaultDeadlockPenalty = 15
	DefaultTrendNoiseBand  = 3
	DefaultHotspotLimit    = 5

	// Recommendation thresholds.
	DefaultBlockingSessWarn  = 5
	DefaultCriticalLocksWarn = 10
	DefaultEfficiencyWarn    = 70

	DefaultAlertTopic    = "lockwatch.alerts"
	DefaultAlertDLQTopic = "lockwatch.alerts.dlq"
	DefaultAlertsEnabled = true

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
