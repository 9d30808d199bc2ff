package config

// envconfig prefix; every tag above is fully qualified so the prefix only matters for unnamed fields.
const EnvPrefix = "BUGIE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "BUGIE_APP_ENV"
	EnvPort                   = "BUGIE_APP_PORT"
	EnvDBDSN                  = "BUGIE_DB_DSN"
	EnvDBHost                 = "BUGIE_DB_HOST"
	EnvDBUser                 = "BUGIE_DB_USER"
	EnvDBPassword             = "BUGIE_DB_PASSWORD"
	EnvDBName                 = "BUGIE_DB_NAME"
	EnvDBMaxOpenConns         = "BUGIE_DB_MAX_OPEN_CONNS"
	EnvDBMaxIdleConns         = "BUGIE_DB_MAX_IDLE_CONNS"
	EnvRedisURL               = "BUGIE_REDIS_URL"
	EnvJWTSecret              = "BUGIE_JWT_SECRET"
	EnvJWTIssuer              = "BUGIE_JWT_ISSUER"
	EnvJWTExpMins             = "BUGIE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "BUGIE_REFRESH_TOKEN_TTL_MINUTES"
	EnvUseSQLite              = "BUGIE_USE_SQLITE"
	EnvSQLitePath             = "BUGIE_SQLITE_PATH"
	EnvAutoMigrate            = "BUGIE_AUTO_MIGRATE"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
