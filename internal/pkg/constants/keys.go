package constants

const (
	ViperServerAddrKey           = "server.addr"
	ViperLogLevelKey             = "log.level"
	ViperGatewayDriverKey        = "gateway.driver"
	ViperPostgresDSNKey          = "postgres.dsn"
	ViperPostgresConnectRetries  = "postgres.connect_retries"
	ViperPostgresConnectInterval = "postgres.connect_interval"
	ViperSecretKey               = "auth.secret"
	ViperTokenTTLKey             = "auth.token_ttl"
	ViperCookieNameKey           = "auth.cookie_name"
	ViperMemoryAdminEmailKey     = "memory.admin_email"
	ViperMemoryAdminPasswordKey  = "memory.admin_password"
	ViperMemoryViewerEmailKey    = "memory.viewer_email"
	ViperMemoryViewerPasswordKey = "memory.viewer_password"
	ViperCORSAllowOriginsKey     = "cors.allow_origins"
)

const (
	GatewayDriverMemory   = "memory"
	GatewayDriverPostgres = "postgres"
)

const (
	CtxKeyDashboard = "dashboard"
	CtxKeySessionID = "session_id"
)
