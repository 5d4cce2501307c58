package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPostgresDSN         = "POSTGRES_DSN"
	EnvPostgresConnTimeout = "POSTGRES_CONN_TIMEOUT"
	EnvSampleTimeout       = "SAMPLE_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvSamplingInterval = "SAMPLING_INTERVAL"
	EnvTenantScopes     = "TENANT_SCOPES"

	EnvSeverityMediumAfter   = "SEVERITY_MEDIUM_AFTER"
	EnvSeverityHighAfter     = "SEVERITY_HIGH_AFTER"
	EnvSeverityCriticalAfter = "SEVERITY_CRITICAL_AFTER"
	EnvKillThreshold         = "KILL_THRESHOLD"

	EnvRetentionHorizon  = "RETENTION_HORIZON"
	EnvRetentionInterval = "RETENTION_INTERVAL"

	EnvBlockingPenalty   = "BLOCKING_PENALTY"
	EnvDeadlockPenalty   = "DEADLOCK_PENALTY"
	EnvTrendNoiseBand    = "TREND_NOISE_BAND"
	EnvHotspotLimit      = "HOTSPOT_LIMIT"
	EnvBlockingSessWarn  = "BLOCKING_SESSIONS_WARN"
	EnvCriticalLocksWarn = "CRITICAL_LOCKS_WARN"
	EnvEfficiencyWarn    = "EFFICIENCY_WARN"

	EnvAlertTopic    = "ALERT_TOPIC"
	EnvAlertDLQTopic = "ALERT_DLQ_TOPIC"
	EnvAlertsEnabled = "ALERTS_ENABLED"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
