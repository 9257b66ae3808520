package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AuthConfig holds settings for verifying identity-provider tokens.
// Tokens are issued externally; this service only verifies them.
type AuthConfig struct {
	TokenSigningSecret string `mapstructure:"token_signing_secret"`
	Issuer             string `mapstructure:"issuer"`
}

type EmailConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	SMTPHost    string `mapstructure:"smtp_host"`
	SMTPPort    int    `mapstructure:"smtp_port"`
	SMTPUser    string `mapstructure:"smtp_user"`
	SMTPPass    string `mapstructure:"smtp_password"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// BillingConfig holds payment-processor webhook settings.
type BillingConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"`
	// WebhookMaxAgeSeconds bounds the accepted age of a webhook timestamp.
	// Zero disables the freshness check.
	WebhookMaxAgeSeconds int    `mapstructure:"webhook_max_age_seconds"`
	CatalogPath          string `mapstructure:"catalog_path"`
	// Environment selects the customer portal host: sandbox or production.
	Environment string `mapstructure:"environment"`
}

// ReadingConfig holds settings for the discussion consumption path.
type ReadingConfig struct {
	// MinSessionSeconds is the minimum connected duration for a discussion
	// to count against the session quota.
	MinSessionSeconds int    `mapstructure:"min_session_seconds"`
	Timezone          string `mapstructure:"timezone"`
}

type SchedulerConfig struct {
	ResetEnabled         bool `mapstructure:"reset_enabled"`
	ResetIntervalMinutes int  `mapstructure:"reset_interval_minutes"`
}
