package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Receipt       ReceiptConfig
	Seed          SeedConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Receipt.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"INVENPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"INVENPOS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"INVENPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"INVENPOS_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"INVENPOS_LOG_FORMAT" default:"json"`
	CORSOrigins  string `envconfig:"INVENPOS_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ConsoleLogs reports whether logs should use the human readable writer.
func (a AppConfig) ConsoleLogs() bool {
	return strings.EqualFold(strings.TrimSpace(a.LogFormat), "console")
}

// AllowedOrigins splits the comma separated origin list.
func (a AppConfig) AllowedOrigins() []string {
	var out []string
	for _, origin := range strings.Split(a.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type DBConfig struct {
	DSN    string `envconfig:"INVENPOS_DB_DSN"`
	Driver string `envconfig:"INVENPOS_DB_DRIVER" default:"sqlite"`

	LegacyHost     string `envconfig:"INVENPOS_DB_HOST"`
	LegacyPort     int    `envconfig:"INVENPOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"INVENPOS_DB_USER"`
	LegacyPassword string `envconfig:"INVENPOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"INVENPOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"INVENPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"INVENPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"INVENPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"INVENPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"INVENPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"INVENPOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"INVENPOS_REDIS_ADDR"`
	Password     string        `envconfig:"INVENPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"INVENPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"INVENPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"INVENPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"INVENPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"INVENPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"INVENPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"INVENPOS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"INVENPOS_JWT_ISSUER" default:"invenpos"`
	ExpirationMinutes int    `envconfig:"INVENPOS_JWT_EXPIRATION_MINUTES" default:"480"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"INVENPOS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"INVENPOS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"INVENPOS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"INVENPOS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"INVENPOS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"INVENPOS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"INVENPOS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"INVENPOS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// ReceiptConfig carries the business header printed on receipts and the
// reference link encoded in the receipt QR code.
type ReceiptConfig struct {
	BusinessName    string        `envconfig:"INVENPOS_BUSINESS_NAME" default:"InvenPOS Restaurant"`
	BusinessAddress string        `envconfig:"INVENPOS_BUSINESS_ADDRESS" default:"123 Main Street, New York, NY 10001"`
	BusinessPhone   string        `envconfig:"INVENPOS_BUSINESS_PHONE" default:"+1 (555) 123-4567"`
	BusinessEmail   string        `envconfig:"INVENPOS_BUSINESS_EMAIL" default:"contact@invenpos.com"`
	BaseURL         string        `envconfig:"INVENPOS_RECEIPT_BASE_URL" default:"https://invenpos.com/receipt"`
	CacheTTL        time.Duration `envconfig:"INVENPOS_RECEIPT_CACHE_TTL" default:"24h"`
	RecentLimit     int           `envconfig:"INVENPOS_RECEIPT_RECENT_LIMIT" default:"50"`
	Timezone        string        `envconfig:"INVENPOS_RECEIPT_TIMEZONE" default:"UTC"`
}

// Location resolves Timezone; receipts print their date and time in it.
func (r ReceiptConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvReceiptTZ, err)
	}
	return loc, nil
}

func (r *ReceiptConfig) validate() error {
	u, err := url.Parse(r.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute url", EnvReceiptURL)
	}
	r.BaseURL = strings.TrimRight(r.BaseURL, "/")
	if r.CacheTTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvReceiptTTL)
	}
	if _, err := r.Location(); err != nil {
		return err
	}
	return nil
}

type SeedConfig struct {
	DemoUsers       bool   `envconfig:"INVENPOS_SEED_DEMO_USERS" default:"false"`
	AdminEmail      string `envconfig:"INVENPOS_SEED_ADMIN_EMAIL" default:"admin@example.com"`
	AdminPassword   string `envconfig:"INVENPOS_SEED_ADMIN_PASSWORD" default:"password"`
	CashierEmail    string `envconfig:"INVENPOS_SEED_CASHIER_EMAIL" default:"cashier@example.com"`
	CashierPassword string `envconfig:"INVENPOS_SEED_CASHIER_PASSWORD" default:"password"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"INVENPOS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	if db.IsSQLite() {
		db.DSN = "file:invenpos.db?cache=shared&_foreign_keys=on"
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
