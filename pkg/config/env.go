package config

const (
	EnvPrefix = "LOYALTEEZ"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "LOYALTEEZ_APP_ENV"
	EnvPort     = "LOYALTEEZ_APP_PORT"
	EnvLogLevel = "LOYALTEEZ_LOG_LEVEL"

	EnvLoyalteezBrandID   = "LOYALTEEZ_BRAND_ID"
	EnvLoyalteezAPIURL    = "LOYALTEEZ_API_URL"
	EnvLoyalteezDomain    = "LOYALTEEZ_DOMAIN"
	EnvLoyalteezSourceURL = "LOYALTEEZ_SOURCE_URL"
	EnvLoyalteezTimeout   = "LOYALTEEZ_TIMEOUT"

	// EnvLegacyBrandID is the variable name the web frontend used.
	EnvLegacyBrandID = "NEXT_PUBLIC_BRAND_ID"

	EnvRedisURL = "LOYALTEEZ_REDIS_URL"

	EnvEventsRateLimitWindow = "LOYALTEEZ_RATE_LIMIT_EVENTS_WINDOW"
	EnvCORSAllowedOrigins    = "LOYALTEEZ_CORS_ALLOWED_ORIGINS"
)
