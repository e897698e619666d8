package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: true,
		},
		{
			name: "debug gin mode",
			config: &Config{
				Server: ServerConfig{GinMode: "debug"},
			},
			expected: true,
		},
		{
			name: "production environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "production"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsDevelopment())
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		name     string
		appEnv   string
		expected bool
	}{
		{name: "production environment", appEnv: "production", expected: true},
		{name: "development environment", appEnv: "development", expected: false},
		{name: "staging environment", appEnv: "staging", expected: false},
		{name: "unset environment", appEnv: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Server: ServerConfig{AppEnv: tt.appEnv}}
			assert.Equal(t, tt.expected, cfg.IsProduction())
		})
	}
}

func TestMailConfig_Missing(t *testing.T) {
	complete := MailConfig{Host: "smtp.example.com", Port: 465, User: "relay@example.com", Password: "secret"}
	assert.Empty(t, complete.Missing())

	assert.Equal(t, []string{"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS"}, MailConfig{}.Missing())

	partial := complete
	partial.Password = ""
	assert.Equal(t, []string{"SMTP_PASS"}, partial.Missing())
}

func TestMailConfig_Recipient(t *testing.T) {
	assert.Equal(t, "dispatch@example.com", MailConfig{To: "dispatch@example.com", User: "relay@example.com"}.Recipient())
	assert.Equal(t, "relay@example.com", MailConfig{User: "relay@example.com"}.Recipient())
	assert.Equal(t, DefaultMailTo, MailConfig{}.Recipient())
}

func TestMailConfig_Sender(t *testing.T) {
	assert.Equal(t, "Bookings <b@example.com>", MailConfig{From: "Bookings <b@example.com>", User: "relay@example.com"}.Sender())
	assert.Equal(t, "Letisko Transfer <relay@example.com>", MailConfig{User: "relay@example.com"}.Sender())
}

func TestFromViper(t *testing.T) {
	v := viper.New()
	v.Set("PORT", "9000")
	v.Set("APP_ENV", "development")
	v.Set("ALLOWED_CORS_ORIGINS", " https://a.example , ,https://b.example")
	v.Set("MAX_BODY_BYTES", 1024)
	v.Set("SMTP_HOST", " smtp.example.com ")
	v.Set("SMTP_PORT", "587")
	v.Set("SMTP_USER", "relay@example.com")
	v.Set("SMTP_PASS", "secret")
	v.Set("SITE_URL", "https://letiskotransfer.sk/")
	v.Set("RESERVATION_RATE_PER_MINUTE", 6)
	v.Set("RESERVATION_RATE_BURST", 3)

	cfg := FromViper(v)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, "https://letiskotransfer.sk", cfg.Site.URL)
	assert.True(t, cfg.IsDevelopment())
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080", AllowedOrigins: []string{"https://letiskotransfer.sk"}, MaxBodyBytes: 1024},
			RateLimit: RateLimitConfig{ReservationsPerMinute: 6, ReservationBurst: 3},
		}
	}

	require.NoError(t, valid().Validate())

	noPort := valid()
	noPort.Server.Port = ""
	assert.ErrorContains(t, noPort.Validate(), "PORT")

	noOrigins := valid()
	noOrigins.Server.AllowedOrigins = nil
	assert.ErrorContains(t, noOrigins.Validate(), "ALLOWED_CORS_ORIGINS")

	profiling := valid()
	profiling.Profiling.Enabled = true
	assert.ErrorContains(t, profiling.Validate(), "O11Y_PROFILING_ENDPOINT")

	// Mail settings are checked per request, not at startup
	assert.NoError(t, valid().Validate())
}
