package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultMailTo receives reservations when neither MAIL_TO nor SMTP_USER is set
	DefaultMailTo = "rezervacie@letiskotransfer.sk"

	// SenderName is the display name used when MAIL_FROM is not configured
	SenderName = "Letisko Transfer"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Mail          MailConfig
	Site          SiteConfig
	RateLimit     RateLimitConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// MailConfig describes the SMTP relay. Host, Port, User and Password are
// required at send time, not at startup.
type MailConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	To             string
	From           string
	TimeoutSeconds int
}

type SiteConfig struct {
	URL string
}

type RateLimitConfig struct {
	ReservationsPerMinute float64
	ReservationBurst      int
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://letiskotransfer.sk,https://www.letiskotransfer.sk")
	v.SetDefault("MAX_BODY_BYTES", 64*1024)
	v.SetDefault("MAIL_TIMEOUT_SECONDS", 15)
	v.SetDefault("RESERVATION_RATE_PER_MINUTE", 6)
	v.SetDefault("RESERVATION_RATE_BURST", 3)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "transfer-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "letiskotransfer")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "transfer-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := FromViper(v)

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
			MaxBodyBytes:   v.GetInt64("MAX_BODY_BYTES"),
		},
		Mail: MailConfig{
			Host:           strings.TrimSpace(v.GetString("SMTP_HOST")),
			Port:           v.GetInt("SMTP_PORT"),
			User:           strings.TrimSpace(v.GetString("SMTP_USER")),
			Password:       v.GetString("SMTP_PASS"),
			To:             strings.TrimSpace(v.GetString("MAIL_TO")),
			From:           strings.TrimSpace(v.GetString("MAIL_FROM")),
			TimeoutSeconds: v.GetInt("MAIL_TIMEOUT_SECONDS"),
		},
		Site: SiteConfig{
			URL: strings.TrimRight(strings.TrimSpace(v.GetString("SITE_URL")), "/"),
		},
		RateLimit: RateLimitConfig{
			ReservationsPerMinute: v.GetFloat64("RESERVATION_RATE_PER_MINUTE"),
			ReservationBurst:      v.GetInt("RESERVATION_RATE_BURST"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}
}

func splitList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if required configuration values are set.
// Mail relay settings are not checked here; see MailConfig.Missing.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	if c.RateLimit.ReservationsPerMinute <= 0 || c.RateLimit.ReservationBurst <= 0 {
		return fmt.Errorf("RESERVATION_RATE_PER_MINUTE and RESERVATION_RATE_BURST must be positive")
	}
	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// Missing lists the environment variables of the four required relay
// settings that are not set.
func (m MailConfig) Missing() []string {
	var missing []string
	if m.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if m.Port <= 0 {
		missing = append(missing, "SMTP_PORT")
	}
	if m.User == "" {
		missing = append(missing, "SMTP_USER")
	}
	if m.Password == "" {
		missing = append(missing, "SMTP_PASS")
	}
	return missing
}

// Recipient returns MAIL_TO, falling back to the relay user and then DefaultMailTo
func (m MailConfig) Recipient() string {
	if m.To != "" {
		return m.To
	}
	if m.User != "" {
		return m.User
	}
	return DefaultMailTo
}

// Sender returns MAIL_FROM, falling back to "<SenderName> <relay user>"
func (m MailConfig) Sender() string {
	if m.From != "" {
		return m.From
	}
	return fmt.Sprintf("%s <%s>", SenderName, m.User)
}
