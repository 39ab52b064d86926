package config

// EnvPrefix is empty because every tag already carries the RMS_ namespace.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv      = "RMS_APP_ENV"
	EnvPort        = "RMS_APP_PORT"
	EnvLogLevel    = "RMS_LOG_LEVEL"
	EnvTimezone    = "RMS_TIMEZONE"
	EnvDBDSN       = "RMS_DB_DSN"
	EnvDBHost      = "RMS_DB_HOST"
	EnvDBPort      = "RMS_DB_PORT"
	EnvDBUser      = "RMS_DB_USER"
	EnvDBPassword  = "RMS_DB_PASSWORD"
	EnvDBName      = "RMS_DB_NAME"
	EnvDBSSLMode   = "RMS_DB_SSLMODE"
	EnvUseSQLite   = "RMS_USE_SQLITE"
	EnvAutoMigrate = "RMS_AUTO_MIGRATE"
	EnvRedisURL    = "RMS_REDIS_URL"
	EnvGCPProject  = "RMS_GCP_PROJECT_ID"

	EnvPubSubOrdersTopic = "RMS_PUBSUB_ORDERS_TOPIC"
	EnvPubSubTablesTopic = "RMS_PUBSUB_TABLES_TOPIC"

	EnvOutboxBatchSize   = "RMS_OUTBOX_PUBLISH_BATCH_SIZE"
	EnvOutboxMaxAttempts = "RMS_OUTBOX_MAX_ATTEMPTS"

	EnvDefaultCurrency = "RMS_DEFAULT_CURRENCY"
	EnvDefaultTaxRate  = "RMS_DEFAULT_TAX_RATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
