package config

const (
	EnvPrefix = "BACKOFFICE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "BACKOFFICE_APP_ENV"
	EnvPort     = "BACKOFFICE_APP_PORT"
	EnvLogLevel = "BACKOFFICE_LOG_LEVEL"

	EnvDBDSN  = "BACKOFFICE_DB_DSN"
	EnvDBHost = "BACKOFFICE_DB_HOST"
	EnvDBUser = "BACKOFFICE_DB_USER"
	EnvDBName = "BACKOFFICE_DB_NAME"

	EnvRedisURL = "BACKOFFICE_REDIS_URL"

	EnvJWTSecret  = "BACKOFFICE_JWT_SECRET"
	EnvJWTIssuer  = "BACKOFFICE_JWT_ISSUER"
	EnvJWTExpMins = "BACKOFFICE_JWT_EXPIRATION_MINUTES"

	EnvBcryptCost = "BACKOFFICE_BCRYPT_COST"

	EnvUseSQLite = "BACKOFFICE_USE_SQLITE"

	EnvGCPProjectID     = "BACKOFFICE_GCP_PROJECT_ID"
	EnvStorageBucket    = "BACKOFFICE_STORAGE_BUCKET"
	EnvStoragePublicURL = "BACKOFFICE_STORAGE_PUBLIC_BASE_URL"
	EnvMaxUploadBytes   = "BACKOFFICE_MEDIA_MAX_UPLOAD_BYTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
