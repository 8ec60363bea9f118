package config

const (
	EnvPrefix = "INVENPOS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv      = "INVENPOS_APP_ENV"
	EnvPort        = "INVENPOS_APP_PORT"
	EnvLogLevel    = "INVENPOS_LOG_LEVEL"
	EnvDBDriver    = "INVENPOS_DB_DRIVER"
	EnvDBDSN       = "INVENPOS_DB_DSN"
	EnvDBHost      = "INVENPOS_DB_HOST"
	EnvDBUser      = "INVENPOS_DB_USER"
	EnvDBName      = "INVENPOS_DB_NAME"
	EnvRedisURL    = "INVENPOS_REDIS_URL"
	EnvJWTSecret   = "INVENPOS_JWT_SECRET"
	EnvJWTIssuer   = "INVENPOS_JWT_ISSUER"
	EnvJWTExpMins  = "INVENPOS_JWT_EXPIRATION_MINUTES"
	EnvReceiptURL  = "INVENPOS_RECEIPT_BASE_URL"
	EnvReceiptTTL  = "INVENPOS_RECEIPT_CACHE_TTL"
	EnvReceiptTZ   = "INVENPOS_RECEIPT_TIMEZONE"
	EnvSeedDemo    = "INVENPOS_SEED_DEMO_USERS"
	EnvAutoMigrate = "INVENPOS_AUTO_MIGRATE"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
