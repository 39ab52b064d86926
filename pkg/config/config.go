package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Restaurant   RestaurantConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if _, err := cfg.App.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RMS_APP_ENV" required:"true"`
	Port         string `envconfig:"RMS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"RMS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RMS_LOG_WARN_STACK" default:"false"`
	// Timezone decides where a business day starts for the sales ledger.
	Timezone    string   `envconfig:"RMS_TIMEZONE" default:"UTC"`
	CORSOrigins []string `envconfig:"RMS_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

// Location resolves the configured business timezone.
func (a AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", EnvTimezone, name, err)
	}
	return loc, nil
}

type ServiceConfig struct {
	Kind string `envconfig:"RMS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"RMS_DB_DSN"`
	Driver string `envconfig:"RMS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RMS_DB_HOST"`
	LegacyPort     int    `envconfig:"RMS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RMS_DB_USER"`
	LegacyPassword string `envconfig:"RMS_DB_PASSWORD"`
	LegacyName     string `envconfig:"RMS_DB_NAME"`
	LegacySSLMode  string `envconfig:"RMS_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"RMS_SQLITE_PATH" default:"rms.db"`

	MaxOpenConns    int           `envconfig:"RMS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RMS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RMS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RMS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RMS_REDIS_URL"`
	Address      string        `envconfig:"RMS_REDIS_ADDR"`
	Password     string        `envconfig:"RMS_REDIS_PASSWORD"`
	DB           int           `envconfig:"RMS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RMS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RMS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RMS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RMS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RMS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any Redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"RMS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"RMS_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"RMS_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"RMS_PUBSUB_ORDERS_TOPIC" default:"rms-order-events"`
	TablesTopic string `envconfig:"RMS_PUBSUB_TABLES_TOPIC" default:"rms-table-events"`
	// Subscriptions are only checked for existence so Ping can detect a misconfigured project.
	OrdersSubscription string `envconfig:"RMS_PUBSUB_ORDERS_SUBSCRIPTION"`
	TablesSubscription string `envconfig:"RMS_PUBSUB_TABLES_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"RMS_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"RMS_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"RMS_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// RestaurantConfig seeds the settings row when none has been saved yet.
type RestaurantConfig struct {
	Currency   string  `envconfig:"RMS_DEFAULT_CURRENCY" default:"INR"`
	TaxRate    float64 `envconfig:"RMS_DEFAULT_TAX_RATE" default:"5"`
	TaxEnabled bool    `envconfig:"RMS_DEFAULT_TAX_ENABLED" default:"true"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
