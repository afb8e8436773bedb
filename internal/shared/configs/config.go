package configs

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Log      LogConfig      `mapstructure:"log" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Realtime RealtimeConfig `mapstructure:"realtime" validate:"required"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port              int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadHeaderTimeout int `mapstructure:"read_header_timeout" validate:"required,min=1"` // seconds
	ReadTimeout       int `mapstructure:"read_timeout" validate:"required,min=1"`        // seconds (headers+body)
	WriteTimeout      int `mapstructure:"write_timeout" validate:"required,min=1"`       // seconds (response)
	IdleTimeout       int `mapstructure:"idle_timeout" validate:"required,min=1"`        // seconds (keep-alive)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// DatabaseConfig holds event store configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// AuthConfig holds the static credentials verified by the thin auth layer.
// APIKey guards webhook ingestion; BearerToken guards the query endpoints.
type AuthConfig struct {
	APIKey      string `mapstructure:"api_key" validate:"required"`
	BearerToken string `mapstructure:"bearer_token" validate:"required"`
}

// RealtimeConfig holds websocket push configuration.
type RealtimeConfig struct {
	WriteTimeout int `mapstructure:"write_timeout" validate:"required,min=1"` // seconds per client send
}
