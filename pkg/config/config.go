package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "TURKEYITEMS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "TURKEYITEMS_DB_DSN"
	EnvDBHost = "TURKEYITEMS_DB_HOST"
	EnvDBUser = "TURKEYITEMS_DB_USER"
	EnvDBName = "TURKEYITEMS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Admin   AdminConfig
	Session SessionConfig
	Sync    SyncConfig
	Media   MediaConfig
	Flags   FeatureFlagsConfig
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
	Env          string `envconfig:"TURKEYITEMS_APP_ENV" required:"true"`
	Port         string `envconfig:"TURKEYITEMS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TURKEYITEMS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TURKEYITEMS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TURKEYITEMS_DB_DSN"`
	Driver string `envconfig:"TURKEYITEMS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TURKEYITEMS_DB_HOST"`
	LegacyPort     int    `envconfig:"TURKEYITEMS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TURKEYITEMS_DB_USER"`
	LegacyPassword string `envconfig:"TURKEYITEMS_DB_PASSWORD"`
	LegacyName     string `envconfig:"TURKEYITEMS_DB_NAME"`
	LegacySSLMode  string `envconfig:"TURKEYITEMS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TURKEYITEMS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TURKEYITEMS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TURKEYITEMS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TURKEYITEMS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TURKEYITEMS_REDIS_URL"`
	Address      string        `envconfig:"TURKEYITEMS_REDIS_ADDR"`
	Password     string        `envconfig:"TURKEYITEMS_REDIS_PASSWORD"`
	DB           int           `envconfig:"TURKEYITEMS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TURKEYITEMS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TURKEYITEMS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TURKEYITEMS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TURKEYITEMS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TURKEYITEMS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AdminConfig holds the shared password gate for the admin panel. There is no
// per-user account model.
type AdminConfig struct {
	Password string `envconfig:"TURKEYITEMS_ADMIN_PASSWORD" required:"true"`
}

type SessionConfig struct {
	TTLMinutes int `envconfig:"TURKEYITEMS_SESSION_TTL_MINUTES" default:"720"`
}

// TTL returns the session lifetime.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

type SyncConfig struct {
	Interval time.Duration `envconfig:"TURKEYITEMS_SYNC_INTERVAL" default:"5m"`
	LockTTL  time.Duration `envconfig:"TURKEYITEMS_SYNC_LOCK_TTL" default:"10m"`
}

type MediaConfig struct {
	Root string `envconfig:"TURKEYITEMS_MEDIA_ROOT" default:"uploads"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TURKEYITEMS_AUTO_MIGRATE" default:"true"`
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
