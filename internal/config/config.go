// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when present), loads them into structured Go types and validates them
// so the rest of the application can rely on a complete configuration.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional blocks (storage, jobs, observability).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process environment before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

// EnvPrefix is the prefix every configuration variable carries.
//
// Nesting uses a double underscore:
//
//	CAMPUS_SERVER__PORT        -> server.port
//	CAMPUS_DATABASE__MAX_CONNS -> database.max_conns
const EnvPrefix = "CAMPUS_"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Storage       StorageConfig        `koanf:"storage"`
	Database      DatabaseConfig       `koanf:"database"`
	Redis         RedisConfig          `koanf:"redis"`
	Auth          AuthConfig           `koanf:"auth"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Jobs          JobsConfig           `koanf:"jobs"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
// Used to tag logs and to switch behaviour (e.g. SQL logging in "local").
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"gte=0"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
	// RateLimit is the number of requests per second allowed per client IP
	// on the API group. Zero disables the limiter.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Driver string `koanf:"driver" validate:"omitempty,oneof=memory postgres"`
	// AutoMigrate runs the embedded migrations on startup when Driver is postgres.
	AutoMigrate bool `koanf:"auto_migrate"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
// Only consulted when Storage.Driver is "postgres".
type DatabaseConfig struct {
	Host            string `koanf:"host"`
	Port            int    `koanf:"port"`
	User            string `koanf:"user"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port"; an empty address runs the service without Redis
// (no report cache, no background jobs).
type RedisConfig struct {
	Address  string `koanf:"address"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// AuthConfig stores authentication-related secrets.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key"`
	// Disabled skips bearer token checks. Only honoured outside production.
	Disabled bool `koanf:"disabled"`
}

// IntegrationConfig holds credentials for third-party services.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	MailFrom     string `koanf:"mail_from" validate:"omitempty,email"`
	MailFromName string `koanf:"mail_from_name"`
}

// JobsConfig controls the asynq worker.
type JobsConfig struct {
	Enabled     bool `koanf:"enabled"`
	Concurrency int  `koanf:"concurrency" validate:"gte=0"`
	// OccupancyReportCron is a standard 5-field cron spec for the periodic
	// hostel occupancy report. Empty disables it.
	OccupancyReportCron string `koanf:"occupancy_report_cron"`
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, applies defaults and validates the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	mainConfig.applyDefaults()

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// envKey maps CAMPUS_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) applyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageMemory
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Jobs.Concurrency == 0 {
		c.Jobs.Concurrency = 10
	}
	if c.Integration.MailFrom == "" {
		c.Integration.MailFrom = "noreply@campus.local"
	}
	if c.Integration.MailFromName == "" {
		c.Integration.MailFromName = "Campus Office"
	}

	// If observability config wasn't provided, inject a default.
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed, environment follows Primary.Env.
	c.Observability.ServiceName = "campus-manager"
	c.Observability.Environment = c.Primary.Env
}

// Validate checks struct tags first and then the cross-block rules that
// tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Storage.Driver == StoragePostgres {
		missing := []string{}
		if c.Database.Host == "" {
			missing = append(missing, "database.host")
		}
		if c.Database.User == "" {
			missing = append(missing, "database.user")
		}
		if c.Database.Name == "" {
			missing = append(missing, "database.name")
		}
		if len(missing) > 0 {
			return fmt.Errorf("postgres storage requires %s", strings.Join(missing, ", "))
		}
	}

	if !c.Auth.Disabled && c.Auth.SecretKey == "" {
		return fmt.Errorf("auth.secret_key is required unless auth.disabled is set")
	}
	if c.Auth.Disabled && c.IsProduction() {
		return fmt.Errorf("auth cannot be disabled in production")
	}

	if c.Jobs.Enabled && c.Redis.Address == "" {
		return fmt.Errorf("jobs.enabled requires redis.address")
	}

	if c.Jobs.OccupancyReportCron != "" {
		if _, err := cron.ParseStandard(c.Jobs.OccupancyReportCron); err != nil {
			return fmt.Errorf("invalid jobs.occupancy_report_cron: %w", err)
		}
	}

	if c.Observability != nil {
		if err := c.Observability.Validate(); err != nil {
			return fmt.Errorf("invalid observability config: %w", err)
		}
	}

	return nil
}

// IsProduction reports whether Primary.Env is "production".
func (c *Config) IsProduction() bool {
	return c.Primary.Env == "production"
}

// UsesPostgres reports whether repositories are backed by PostgreSQL.
func (c *Config) UsesPostgres() bool {
	return c.Storage.Driver == StoragePostgres
}
