package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`

	// Connection pool sizing. Zero values fall back to the defaults set
	// during Load.
	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// DenialMode controls how policy refusals are shaped for clients.
type DenialMode string

const (
	// DenialModeForbidden answers refused requests with a 403, making the
	// existence of the resource visible.
	DenialModeForbidden DenialMode = "forbidden"

	// DenialModeNotFound answers refused requests exactly like a missing
	// resource, hiding whether it exists.
	DenialModeNotFound DenialMode = "not_found"
)

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string     `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int        `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	DenialMode           DenialMode `mapstructure:"denial_mode"            validate:"required,oneof=forbidden not_found"`
}
