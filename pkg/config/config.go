package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is the envconfig prefix shared by every binary.
	EnvPrefix = "dealerdesk"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "DEALERDESK_APP_ENV"
	EnvDBDSN  = "DEALERDESK_DB_DSN"
	EnvDBHost = "DEALERDESK_DB_HOST"
	EnvDBUser = "DEALERDESK_DB_USER"
	EnvDBName = "DEALERDESK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Sweeper      SweeperConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DEALERDESK_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"DEALERDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DEALERDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"DEALERDESK_SERVICE_KIND" default:"inventory"`
}

type DBConfig struct {
	DSN    string `envconfig:"DEALERDESK_DB_DSN"`
	Driver string `envconfig:"DEALERDESK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DEALERDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"DEALERDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DEALERDESK_DB_USER"`
	LegacyPassword string `envconfig:"DEALERDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"DEALERDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"DEALERDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DEALERDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DEALERDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DEALERDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DEALERDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DEALERDESK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DEALERDESK_REDIS_ADDR"`
	Password     string        `envconfig:"DEALERDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"DEALERDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DEALERDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DEALERDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DEALERDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DEALERDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DEALERDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DEALERDESK_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"DEALERDESK_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"DEALERDESK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"DEALERDESK_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	InventoryTopic    string `envconfig:"DEALERDESK_PUBSUB_INVENTORY_TOPIC" default:"dd-inventory-events"`
	ReservationsTopic string `envconfig:"DEALERDESK_PUBSUB_RESERVATIONS_TOPIC" default:"dd-reservation-events"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"DEALERDESK_OUTBOX_PUBLISH_BATCH_SIZE" default:"100"`
	PollIntervalMS int           `envconfig:"DEALERDESK_OUTBOX_PUBLISH_POLL_MS" default:"5000"`
	PublishRetries int           `envconfig:"DEALERDESK_OUTBOX_PUBLISH_RETRIES" default:"3"`
	MaxAttempts    int           `envconfig:"DEALERDESK_OUTBOX_MAX_ATTEMPTS" default:"30"`
	PublishTimeout time.Duration `envconfig:"DEALERDESK_OUTBOX_PUBLISH_TIMEOUT" default:"15s"`
}

type SweeperConfig struct {
	IntervalMS int `envconfig:"DEALERDESK_SWEEPER_INTERVAL_MS" default:"60000"`
	BatchSize  int `envconfig:"DEALERDESK_SWEEPER_BATCH_SIZE" default:"200"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
