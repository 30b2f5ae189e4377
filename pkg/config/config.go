package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App             AppConfig
	DB              DBConfig
	Redis           RedisConfig
	JWT             JWTConfig
	Password        PasswordConfig
	Cart            CartConfig
	Recommendations RecommendationsConfig
	AuthRateLimit   AuthRateLimitConfig
	FeatureFlags    FeatureFlagsConfig
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
	Env          string `envconfig:"ATTARMART_APP_ENV" required:"true"`
	Port         string `envconfig:"ATTARMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ATTARMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ATTARMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ATTARMART_DB_DSN"`
	Driver string `envconfig:"ATTARMART_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"ATTARMART_DB_HOST"`
	Port     int    `envconfig:"ATTARMART_DB_PORT" default:"5432"`
	User     string `envconfig:"ATTARMART_DB_USER"`
	Password string `envconfig:"ATTARMART_DB_PASSWORD"`
	Name     string `envconfig:"ATTARMART_DB_NAME"`
	SSLMode  string `envconfig:"ATTARMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ATTARMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ATTARMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ATTARMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ATTARMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ATTARMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ATTARMART_REDIS_ADDR"`
	Password     string        `envconfig:"ATTARMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"ATTARMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ATTARMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ATTARMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ATTARMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ATTARMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ATTARMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ATTARMART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ATTARMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ATTARMART_JWT_EXPIRATION_MINUTES" default:"60"`
	SessionTTLMinutes int    `envconfig:"ATTARMART_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the Redis session lifetime configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ATTARMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ATTARMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ATTARMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ATTARMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ATTARMART_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	GuestTTL     time.Duration `envconfig:"ATTARMART_CART_GUEST_TTL" default:"720h"`
	MaxLineQty   int           `envconfig:"ATTARMART_CART_MAX_LINE_QTY" default:"99"`
	MaxLineCount int           `envconfig:"ATTARMART_CART_MAX_LINE_COUNT" default:"100"`
}

type RecommendationsConfig struct {
	HistoryCap int           `envconfig:"ATTARMART_RECS_HISTORY_CAP" default:"20"`
	HistoryTTL time.Duration `envconfig:"ATTARMART_RECS_HISTORY_TTL" default:"720h"`
	MaxJitter  float64       `envconfig:"ATTARMART_RECS_MAX_JITTER" default:"5"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ATTARMART_LOGIN_RATE_WINDOW" default:"5m"`
	LoginIPLimit       int           `envconfig:"ATTARMART_LOGIN_RATE_IP_LIMIT" default:"20"`
	LoginEmailLimit    int           `envconfig:"ATTARMART_LOGIN_RATE_EMAIL_LIMIT" default:"5"`
	RegisterWindow     time.Duration `envconfig:"ATTARMART_REGISTER_RATE_WINDOW" default:"15m"`
	RegisterIPLimit    int           `envconfig:"ATTARMART_REGISTER_RATE_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"ATTARMART_REGISTER_RATE_EMAIL_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ATTARMART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ATTARMART_AUTO_MIGRATE" default:"false"`
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
	for _, env := range requiredDBEnvVars {
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
