package config

const EnvPrefix = "SUPERBOX"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv          = "SUPERBOX_APP_ENV"
	EnvPort            = "SUPERBOX_APP_PORT"
	EnvDBDSN           = "SUPERBOX_DB_DSN"
	EnvDBHost          = "SUPERBOX_DB_HOST"
	EnvDBUser          = "SUPERBOX_DB_USER"
	EnvDBName          = "SUPERBOX_DB_NAME"
	EnvDBPassword      = "SUPERBOX_DB_PASSWORD"
	EnvRedisURL        = "SUPERBOX_REDIS_URL"
	EnvJWTSecret       = "SUPERBOX_JWT_SECRET"
	EnvJWTIssuer       = "SUPERBOX_JWT_ISSUER"
	EnvBackendBaseURL  = "SUPERBOX_BACKEND_BASE_URL"
	EnvPricingShipping = "SUPERBOX_PRICING_SHIPPING_PER_ITEM"
	EnvPricingCODFee   = "SUPERBOX_PRICING_COD_FEE"
	EnvPricingCurrency = "SUPERBOX_PRICING_GATEWAY_CURRENCY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
