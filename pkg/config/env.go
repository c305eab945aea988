package config

// EnvPrefix is empty because every tag already carries the PORTAL_ namespace.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "PORTAL_APP_ENV"
	EnvPort                   = "PORTAL_APP_PORT"
	EnvDBDSN                  = "PORTAL_DB_DSN"
	EnvDBHost                 = "PORTAL_DB_HOST"
	EnvDBUser                 = "PORTAL_DB_USER"
	EnvDBName                 = "PORTAL_DB_NAME"
	EnvRedisURL               = "PORTAL_REDIS_URL"
	EnvJWTSecret              = "PORTAL_JWT_SECRET"
	EnvJWTIssuer              = "PORTAL_JWT_ISSUER"
	EnvJWTExpMins             = "PORTAL_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "PORTAL_REFRESH_TOKEN_TTL_MINUTES"
	EnvOneSignalAppID         = "PORTAL_ONESIGNAL_APP_ID"
	EnvOneSignalRESTKey       = "PORTAL_ONESIGNAL_REST_KEY"
	EnvCORSAllowedOrigins     = "PORTAL_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
