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
	DB           DBConfig
	Redis        RedisConfig
	Media        MediaConfig
	Catalog      CatalogConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
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
	Env          string `envconfig:"WRAPNEST_APP_ENV" required:"true"`
	Port         string `envconfig:"WRAPNEST_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WRAPNEST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WRAPNEST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"WRAPNEST_DB_DSN"`
	Driver string `envconfig:"WRAPNEST_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"WRAPNEST_DB_HOST"`
	LegacyPort     int    `envconfig:"WRAPNEST_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WRAPNEST_DB_USER"`
	LegacyPassword string `envconfig:"WRAPNEST_DB_PASSWORD"`
	LegacyName     string `envconfig:"WRAPNEST_DB_NAME"`
	LegacySSLMode  string `envconfig:"WRAPNEST_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WRAPNEST_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WRAPNEST_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WRAPNEST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WRAPNEST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WRAPNEST_REDIS_URL" required:"true"`
	Address      string        `envconfig:"WRAPNEST_REDIS_ADDR"`
	Password     string        `envconfig:"WRAPNEST_REDIS_PASSWORD"`
	DB           int           `envconfig:"WRAPNEST_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WRAPNEST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WRAPNEST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WRAPNEST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WRAPNEST_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WRAPNEST_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"WRAPNEST_MAX_UPLOAD_MB" default:"8"`
}

type CatalogConfig struct {
	SlugCacheTTL     time.Duration `envconfig:"WRAPNEST_CATALOG_SLUG_CACHE_TTL" default:"5m"`
	SlugCacheCleanup time.Duration `envconfig:"WRAPNEST_CATALOG_SLUG_CACHE_CLEANUP" default:"10m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"WRAPNEST_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"WRAPNEST_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"WRAPNEST_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
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
