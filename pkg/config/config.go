package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full runtime configuration for the portal binaries.
type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
	Geocoder      GeocoderConfig
	Push          PushConfig
	Cron          CronConfig
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
	Env          string `envconfig:"PORTAL_APP_ENV" required:"true"`
	Port         string `envconfig:"PORTAL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PORTAL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PORTAL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"PORTAL_DB_DSN"`
	Driver string `envconfig:"PORTAL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PORTAL_DB_HOST"`
	LegacyPort     int    `envconfig:"PORTAL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PORTAL_DB_USER"`
	LegacyPassword string `envconfig:"PORTAL_DB_PASSWORD"`
	LegacyName     string `envconfig:"PORTAL_DB_NAME"`
	LegacySSLMode  string `envconfig:"PORTAL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PORTAL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PORTAL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PORTAL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PORTAL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PORTAL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PORTAL_REDIS_ADDR"`
	Password     string        `envconfig:"PORTAL_REDIS_PASSWORD"`
	DB           int           `envconfig:"PORTAL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PORTAL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PORTAL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PORTAL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PORTAL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PORTAL_REDIS_WRITE_TIMEOUT" default:"5s"`
	KeyPrefix    string        `envconfig:"PORTAL_REDIS_KEY_PREFIX" default:"cc"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PORTAL_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PORTAL_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PORTAL_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"PORTAL_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PORTAL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PORTAL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PORTAL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PORTAL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PORTAL_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"PORTAL_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"PORTAL_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"PORTAL_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"PORTAL_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"PORTAL_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"PORTAL_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PORTAL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PORTAL_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"PORTAL_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

// GeocoderConfig points at a Nominatim-compatible search endpoint.
type GeocoderConfig struct {
	BaseURL   string        `envconfig:"PORTAL_GEOCODER_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	UserAgent string        `envconfig:"PORTAL_GEOCODER_USER_AGENT" default:"CardChase-LocationPortal/1.0"`
	Timeout   time.Duration `envconfig:"PORTAL_GEOCODER_TIMEOUT" default:"5s"`
	RatePerS  float64       `envconfig:"PORTAL_GEOCODER_RATE_PER_SECOND" default:"1"`
	CacheTTL  time.Duration `envconfig:"PORTAL_GEOCODER_CACHE_TTL" default:"24h"`
}

type PushConfig struct {
	AppID   string        `envconfig:"PORTAL_ONESIGNAL_APP_ID"`
	RESTKey string        `envconfig:"PORTAL_ONESIGNAL_REST_KEY"`
	BaseURL string        `envconfig:"PORTAL_ONESIGNAL_BASE_URL" default:"https://onesignal.com/api/v1"`
	Timeout time.Duration `envconfig:"PORTAL_ONESIGNAL_TIMEOUT" default:"5s"`
}

// Enabled reports whether push credentials are configured.
func (p PushConfig) Enabled() bool {
	return strings.TrimSpace(p.AppID) != "" && strings.TrimSpace(p.RESTKey) != ""
}

type CronConfig struct {
	Interval               time.Duration `envconfig:"PORTAL_CRON_INTERVAL" default:"24h"`
	LockTTL                time.Duration `envconfig:"PORTAL_CRON_LOCK_TTL" default:"30m"`
	BlockedTimeRetentionDs int           `envconfig:"PORTAL_CRON_BLOCKED_TIME_RETENTION_DAYS" default:"90"`
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
