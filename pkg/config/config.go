package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	Storage       StorageConfig
	Media         MediaConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = "file:backoffice.db?_foreign_keys=on"
		}
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"BACKOFFICE_APP_ENV" required:"true"`
	Port           string   `envconfig:"BACKOFFICE_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"BACKOFFICE_LOG_LEVEL" default:"info"`
	LogFormat      string   `envconfig:"BACKOFFICE_LOG_FORMAT" default:"json"`
	LogWarnStack   bool     `envconfig:"BACKOFFICE_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"BACKOFFICE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"BACKOFFICE_DB_DSN"`

	LegacyHost     string `envconfig:"BACKOFFICE_DB_HOST"`
	LegacyPort     int    `envconfig:"BACKOFFICE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BACKOFFICE_DB_USER"`
	LegacyPassword string `envconfig:"BACKOFFICE_DB_PASSWORD"`
	LegacyName     string `envconfig:"BACKOFFICE_DB_NAME"`
	LegacySSLMode  string `envconfig:"BACKOFFICE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BACKOFFICE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BACKOFFICE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BACKOFFICE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BACKOFFICE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional: an empty URL and address disables login
// throttling and idempotency replay.
type RedisConfig struct {
	URL          string        `envconfig:"BACKOFFICE_REDIS_URL"`
	Address      string        `envconfig:"BACKOFFICE_REDIS_ADDR"`
	Password     string        `envconfig:"BACKOFFICE_REDIS_PASSWORD"`
	DB           int           `envconfig:"BACKOFFICE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BACKOFFICE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BACKOFFICE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BACKOFFICE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BACKOFFICE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BACKOFFICE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"BACKOFFICE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BACKOFFICE_JWT_ISSUER" default:"backoffice-api"`
	ExpirationMinutes int    `envconfig:"BACKOFFICE_JWT_EXPIRATION_MINUTES" default:"720"`
}

func (j JWTConfig) TTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"BACKOFFICE_BCRYPT_COST" default:"10"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"BACKOFFICE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"BACKOFFICE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"BACKOFFICE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BACKOFFICE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BACKOFFICE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BACKOFFICE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"BACKOFFICE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BACKOFFICE_GOOGLE_APPLICATION_CREDENTIALS"`
}

// StorageConfig names the bucket backing the media proxy and the public
// origin its objects are served from.
type StorageConfig struct {
	Bucket        string `envconfig:"BACKOFFICE_STORAGE_BUCKET"`
	PublicBaseURL string `envconfig:"BACKOFFICE_STORAGE_PUBLIC_BASE_URL"`
}

func (s StorageConfig) Enabled() bool {
	return strings.TrimSpace(s.Bucket) != ""
}

type MediaConfig struct {
	MaxUploadBytes int64 `envconfig:"BACKOFFICE_MEDIA_MAX_UPLOAD_BYTES" default:"2097152"`
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
