package config

import (
	"fmt"
	"lockwatch/pkg/client"
	"lockwatch/pkg/logger"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	PostgresDSN         string
	PostgresConnTimeout time.Duration
	SampleTimeout       time.Duration

	Port string

	SamplingInterval time.Duration
	TenantScopes     []string

	SeverityMediumAfter   time.Duration
	SeverityHighAfter     time.Duration
	SeverityCriticalAfter time.Duration
	KillThreshold         time.Duration

	RetentionHorizon  time.Duration
	RetentionInterval time.Duration

	BlockingPenalty   int
	DeadlockPenalty   int
	TrendNoiseBand    int
	HotspotLimit      int
	BlockingSessWarn  int
	CriticalLocksWarn int
	EfficiencyWarn    int

	AlertTopic    string
	AlertDLQTopic string
	AlertsEnabled bool

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		PostgresDSN:         getEnvStr(EnvPostgresDSN, DefaultPostgresDSN),
		PostgresConnTimeout: getEnvDuration(EnvPostgresConnTimeout, DefaultPostgresConnTimeout),
		SampleTimeout:       getEnvDuration(EnvSampleTimeout, DefaultSampleTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		SamplingInterval: getEnvDuration(EnvSamplingInterval, DefaultSamplingInterval),
		TenantScopes:     getEnvList(EnvTenantScopes, nil),

		SeverityMediumAfter:   getEnvDuration(EnvSeverityMediumAfter, DefaultSeverityMediumAfter),
		SeverityHighAfter:     getEnvDuration(EnvSeverityHighAfter, DefaultSeverityHighAfter),
		SeverityCriticalAfter: getEnvDuration(EnvSeverityCriticalAfter, DefaultSeverityCriticalAfter),
		KillThreshold:         getEnvDuration(EnvKillThreshold, DefaultKillThreshold),

		RetentionHorizon:  getEnvDuration(EnvRetentionHorizon, DefaultRetentionHorizon),
		RetentionInterval: getEnvDuration(EnvRetentionInterval, DefaultRetentionInterval),

		BlockingPenalty:   getEnvNum(EnvBlockingPenalty, DefaultBlockingPenalty),
		DeadlockPenalty:   getEnvNum(EnvDeadlockPenalty, DefaultDeadlockPenalty),
		TrendNoiseBand:    getEnvNum(EnvTrendNoiseBand, DefaultTrendNoiseBand),
		HotspotLimit:      getEnvNum(EnvHotspotLimit, DefaultHotspotLimit),
		BlockingSessWarn:  getEnvNum(EnvBlockingSessWarn, DefaultBlockingSessWarn),
		CriticalLocksWarn: getEnvNum(EnvCriticalLocksWarn, DefaultCriticalLocksWarn),
		EfficiencyWarn:    getEnvNum(EnvEfficiencyWarn, DefaultEfficiencyWarn),

		AlertTopic:    getEnvStr(EnvAlertTopic, DefaultAlertTopic),
		AlertDLQTopic: getEnvStr(EnvAlertDLQTopic, DefaultAlertDLQTopic),
		AlertsEnabled: getEnvBool(EnvAlertsEnabled, DefaultAlertsEnabled),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetPostgres() {
	cfg.Client.SetPostgres(cfg.Log, cfg.PostgresDSN, cfg.PostgresConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.PostgresDSN == "" {
		errors = append(errors, "PostgresDSN cannot be empty")
	} else if !regexp.MustCompile(`^postgres(ql)?://`).MatchString(cfg.PostgresDSN) {
		errors = append(errors, fmt.Sprintf("PostgresDSN must start with 'postgres://' or 'postgresql://', got: %s", redactDSN(cfg.PostgresDSN)))
	}

	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"PostgresConnTimeout", cfg.PostgresConnTimeout},
		{"SampleTimeout", cfg.SampleTimeout},
		{"SamplingInterval", cfg.SamplingInterval},
		{"KillThreshold", cfg.KillThreshold},
		{"RetentionHorizon", cfg.RetentionHorizon},
		{"RetentionInterval", cfg.RetentionInterval},
		{"RequestTimeout", cfg.RequestTimeout},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
	} {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.SampleTimeout >= cfg.SamplingInterval {
		errors = append(errors, fmt.Sprintf("SampleTimeout (%s) must be shorter than SamplingInterval (%s)", cfg.SampleTimeout, cfg.SamplingInterval))
	}

	if cfg.SeverityMediumAfter <= 0 {
		errors = append(errors, fmt.Sprintf("SeverityMediumAfter must be positive, got: %s", cfg.SeverityMediumAfter))
	}
	if cfg.SeverityHighAfter <= cfg.SeverityMediumAfter {
		errors = append(errors, fmt.Sprintf("SeverityHighAfter (%s) must be greater than SeverityMediumAfter (%s)", cfg.SeverityHighAfter, cfg.SeverityMediumAfter))
	}
	if cfg.SeverityCriticalAfter <= cfg.SeverityHighAfter {
		errors = append(errors, fmt.Sprintf("SeverityCriticalAfter (%s) must be greater than SeverityHighAfter (%s)", cfg.SeverityCriticalAfter, cfg.SeverityHighAfter))
	}

	if cfg.BlockingPenalty < 0 {
		errors = append(errors, fmt.Sprintf("BlockingPenalty cannot be negative, got: %d", cfg.BlockingPenalty))
	}
	if cfg.DeadlockPenalty < 0 {
		errors = append(errors, fmt.Sprintf("DeadlockPenalty cannot be negative, got: %d", cfg.DeadlockPenalty))
	}
	if cfg.TrendNoiseBand < 0 {
		errors = append(errors, fmt.Sprintf("TrendNoiseBand cannot be negative, got: %d", cfg.TrendNoiseBand))
	}
	if cfg.HotspotLimit <= 0 {
		errors = append(errors, fmt.Sprintf("HotspotLimit must be positive, got: %d", cfg.HotspotLimit))
	}
	if cfg.BlockingSessWarn <= 0 {
		errors = append(errors, fmt.Sprintf("BlockingSessWarn must be positive, got: %d", cfg.BlockingSessWarn))
	}
	if cfg.CriticalLocksWarn <= 0 {
		errors = append(errors, fmt.Sprintf("CriticalLocksWarn must be positive, got: %d", cfg.CriticalLocksWarn))
	}
	if cfg.EfficiencyWarn < 0 || cfg.EfficiencyWarn > 100 {
		errors = append(errors, fmt.Sprintf("EfficiencyWarn must be between 0 and 100, got: %d", cfg.EfficiencyWarn))
	}

	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.AlertsEnabled && cfg.AlertTopic == "" {
		errors = append(errors, "AlertTopic cannot be empty when alerts are enabled")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactDSN(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"postgres_dsn", redactDSN(cfg.PostgresDSN),
		"sample_timeout", cfg.SampleTimeout,
		"port", cfg.Port,
		"sampling_interval", cfg.SamplingInterval,
		"tenant_scopes", cfg.TenantScopes,
		"severity_medium_after", cfg.SeverityMediumAfter,
		"severity_high_after", cfg.SeverityHighAfter,
		"severity_critical_after", cfg.SeverityCriticalAfter,
		"kill_threshold", cfg.KillThreshold,
		"retention_horizon", cfg.RetentionHorizon,
		"retention_interval", cfg.RetentionInterval,
		"alert_topic", cfg.AlertTopic,
		"alerts_enabled", cfg.AlertsEnabled,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
	)
}

func redactDSN(uri string) string {
	credentialRegex := regexp.MustCompile(`^(\w+(\+srv)?://)[^:@/]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
