package config

// this holds the resolved configuration values from CLI
var (
	DB              string // connection string for the database
	LogLevel        string // sets the log level (zap log level values)
	LogFormat       string // text vs json
	LogFilters      string // zapfilter rules for per-subsystem log levels
	WaitForServices string // duration to wait for other services to be ready
)
