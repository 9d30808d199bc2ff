package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Idempotency   IdempotencyConfig
	Metrics       MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every inconsistent setting at once.
func (c *Config) Validate() error {
	var errs error
	if c.JWT.ExpirationMinutes <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be positive", EnvJWTExpMins))
	}
	if c.JWT.RefreshTokenTTL() <= time.Duration(c.JWT.ExpirationMinutes)*time.Minute {
		errs = multierr.Append(errs, fmt.Errorf("%s must exceed %s", EnvRefreshTokenTTLMinutes, EnvJWTExpMins))
	}
	if c.FeatureFlags.UseSQLite && strings.TrimSpace(c.FeatureFlags.SQLitePath) == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s is required when %s is set", EnvSQLitePath, EnvUseSQLite))
	}
	if c.FeatureFlags.UseSQLite && c.App.IsProd() {
		errs = multierr.Append(errs, fmt.Errorf("%s is not allowed in %s", EnvUseSQLite, AppEnvProd))
	}
	if c.DB.MaxIdleConns > c.DB.MaxOpenConns && c.DB.MaxOpenConns > 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s cannot exceed %s", EnvDBMaxIdleConns, EnvDBMaxOpenConns))
	}
	return errs
}

type AppConfig struct {
	Env          string `envconfig:"BUGIE_APP_ENV" required:"true"`
	Port         string `envconfig:"BUGIE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BUGIE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BUGIE_LOG_WARN_STACK" default:"false"`
	// Timezone dates entries created without an explicit transaction date.
	Timezone string `envconfig:"BUGIE_DEFAULT_TIMEZONE" default:"Asia/Seoul"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"BUGIE_DB_DSN"`

	Host     string `envconfig:"BUGIE_DB_HOST"`
	Port     int    `envconfig:"BUGIE_DB_PORT" default:"5432"`
	User     string `envconfig:"BUGIE_DB_USER"`
	Password string `envconfig:"BUGIE_DB_PASSWORD"`
	Name     string `envconfig:"BUGIE_DB_NAME"`
	SSLMode  string `envconfig:"BUGIE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BUGIE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BUGIE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BUGIE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BUGIE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BUGIE_REDIS_URL"`
	Address      string        `envconfig:"BUGIE_REDIS_ADDR"`
	Password     string        `envconfig:"BUGIE_REDIS_PASSWORD"`
	DB           int           `envconfig:"BUGIE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BUGIE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BUGIE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BUGIE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BUGIE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BUGIE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BUGIE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BUGIE_JWT_ISSUER" default:"bugie"`
	ExpirationMinutes      int    `envconfig:"BUGIE_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"BUGIE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BUGIE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BUGIE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BUGIE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BUGIE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BUGIE_ARGON_KEY_LEN" default:"32"`
	MinLength        int `envconfig:"BUGIE_PASSWORD_MIN_LENGTH" default:"8"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BUGIE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BUGIE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BUGIE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BUGIE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BUGIE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BUGIE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"BUGIE_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"BUGIE_SQLITE_PATH" default:"bugie.db"`
	AutoMigrate bool   `envconfig:"BUGIE_AUTO_MIGRATE" default:"false"`
}

// IdempotencyConfig controls how long replayable responses are kept.
type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"BUGIE_IDEMPOTENCY_TTL" default:"24h"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"BUGIE_METRICS_ENABLED" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
