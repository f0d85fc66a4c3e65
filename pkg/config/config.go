package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "TGCPOS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cart         CartConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TGCPOS_APP_ENV" default:"dev"`
	Port         string `envconfig:"TGCPOS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TGCPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TGCPOS_LOG_WARN_STACK" default:"false"`
	// CORSOrigins adds register UI origins beyond the localhost defaults.
	CORSOrigins []string `envconfig:"TGCPOS_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig selects the storage backend. The default is an embedded sqlite
// file next to the binary; a Postgres DSN switches to the shared deployment.
type DBConfig struct {
	Driver string `envconfig:"TGCPOS_DB_DRIVER" default:"sqlite"`
	// Path is the sqlite database file. Ignored for postgres.
	Path string `envconfig:"TGCPOS_DB_PATH" default:"tgcpos.db"`
	// DSN is required when Driver is postgres.
	DSN string `envconfig:"TGCPOS_DB_DSN"`

	MaxOpenConns    int           `envconfig:"TGCPOS_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"TGCPOS_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"TGCPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TGCPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch db.Driver {
	case DBDriverSQLite:
		if strings.TrimSpace(db.Path) == "" {
			return fmt.Errorf("%s_DB_PATH is required for the sqlite driver", EnvPrefix)
		}
		return nil
	case DBDriverPostgres:
		if strings.TrimSpace(db.DSN) == "" {
			return fmt.Errorf("%s_DB_DSN is required for the postgres driver", EnvPrefix)
		}
		return nil
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
}

// RedisConfig is optional; when URL is empty carts live in process memory.
type RedisConfig struct {
	URL          string        `envconfig:"TGCPOS_REDIS_URL"`
	Password     string        `envconfig:"TGCPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"TGCPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TGCPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TGCPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TGCPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TGCPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TGCPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type CartConfig struct {
	// SessionTTL bounds how long an idle cart survives in the redis store.
	SessionTTL time.Duration `envconfig:"TGCPOS_CART_SESSION_TTL" default:"12h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TGCPOS_AUTO_MIGRATE" default:"true"`
	SeedStaff   bool `envconfig:"TGCPOS_SEED_STAFF" default:"true"`
}
