package config

import "time"

const (
	envConfigFile     = "CONFIG_FILE"
	envPort           = "PORT"
	envLogLevel       = "LOG_LEVEL"
	envLogFormat      = "LOG_FORMAT"
	envStoreBackend   = "STORE_BACKEND"
	envSQLitePath     = "SQLITE_PATH"
	envMongoURI       = "MONGO_URI"
	envMongoDatabase  = "MONGO_DATABASE"
	envStoreRetries   = "STORE_RETRY_ATTEMPTS"
	envDefaultSeason  = "DEFAULT_SEASON_ID"
	envSeedFile       = "SEED_FILE"
	envAdminToken     = "ADMIN_TOKEN"
	envMetricsPort    = "METRICS_PORT"
	envMetricsOn      = "METRICS_ENABLED"
	envOtelEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService    = "OTEL_SERVICE_NAME"
	envOtelInsecure   = "OTEL_EXPORTER_OTLP_INSECURE"
	envShutdownPeriod = "SHUTDOWN_TIMEOUT"

	defaultPort          = "4000"
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
	defaultStoreBackend  = "memory"
	defaultSQLitePath    = "data/club-rank.db"
	defaultMongoDatabase = "club_rank"
	// Reads only; writes are never retried.
	defaultStoreRetries   = 3
	defaultSeasonID       = "2025"
	defaultMetricsPort    = "9090"
	defaultMetricsEnabled = true
	defaultServiceName    = "club-rank-service"
	defaultOtelInsecure   = true
	defaultShutdownPeriod = 10 * Duration(time.Second)
)
