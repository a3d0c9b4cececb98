package logger

// Level names accepted by ParseLevel
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

const (
	DefaultServiceName = "tapquest"
	DefaultVersion     = "dev"
)

const (
	ComponentServer  = "server"
	ComponentSession = "session"
)

// Attribute keys
const (
	AttrKeyService     = "service"
	AttrKeyComponent   = "component"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
	AttrKeyIdentity    = "identity"
)
