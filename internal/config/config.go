package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	JWT       JWTConfig       `yaml:"jwt"`
	Renderer  RendererConfig  `yaml:"renderer"`
	Storage   StorageConfig   `yaml:"storage"`
	WhatsApp  WhatsAppConfig  `yaml:"whatsapp"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// SMTPConfig contains email service settings
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// JWTConfig contains bearer token verification settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// RendererConfig contains the external PDF renderer settings
type RendererConfig struct {
	BaseURL             string `yaml:"base_url"`
	APIKey              string `yaml:"api_key"`
	TimeoutSeconds      int    `yaml:"timeout_seconds"`
	PollAttempts        int    `yaml:"poll_attempts"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
	InvoiceTemplateID   string `yaml:"invoice_template_id"`
	AgreementTemplateID string `yaml:"agreement_template_id"`
	SignaturePagePath   string `yaml:"signature_page_path"`
}

// StorageConfig contains document storage settings
type StorageConfig struct {
	Type      string `yaml:"type"`       // "local"
	UploadDir string `yaml:"upload_dir"` // For local storage
	BaseURL   string `yaml:"base_url"`   // Public base URL for stored documents
}

// WhatsAppConfig contains the messaging gateway settings; empty base URL
// disables the channel.
type WhatsAppConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	RecomputeMonthlyStats string `yaml:"recompute_monthly_stats"`
	RecomputeYearlyStats  string `yaml:"recompute_yearly_stats"`
	ScanReminders         string `yaml:"scan_reminders"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// SMTP
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.SMTP.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.SMTP.Port)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.SMTP.User = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.SMTP.Password = val
	}
	if val := os.Getenv("SMTP_FROM"); val != "" {
		c.SMTP.From = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Renderer
	if val := os.Getenv("RENDERER_BASE_URL"); val != "" {
		c.Renderer.BaseURL = val
	}
	if val := os.Getenv("RENDERER_API_KEY"); val != "" {
		c.Renderer.APIKey = val
	}

	// Storage
	if val := os.Getenv("UPLOAD_DIR"); val != "" {
		c.Storage.UploadDir = val
	}

	// WhatsApp
	if val := os.Getenv("WHATSAPP_BASE_URL"); val != "" {
		c.WhatsApp.BaseURL = val
	}
	if val := os.Getenv("WHATSAPP_API_KEY"); val != "" {
		c.WhatsApp.APIKey = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// SMTP validation
	if c.SMTP.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTP.Port)
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	// Renderer validation
	if c.Renderer.BaseURL == "" {
		return fmt.Errorf("renderer base URL is required")
	}
	if c.Renderer.InvoiceTemplateID == "" {
		return fmt.Errorf("renderer invoice template id is required")
	}
	if c.Renderer.AgreementTemplateID == "" {
		return fmt.Errorf("renderer agreement template id is required")
	}

	// Storage validation
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("upload directory is required")
	}

	// Renderer defaults
	if c.Renderer.TimeoutSeconds == 0 {
		c.Renderer.TimeoutSeconds = 15
	}
	if c.Renderer.PollAttempts == 0 {
		c.Renderer.PollAttempts = 10
	}
	if c.Renderer.PollIntervalSeconds == 0 {
		c.Renderer.PollIntervalSeconds = 2
	}

	// WhatsApp defaults
	if c.WhatsApp.TimeoutSeconds == 0 {
		c.WhatsApp.TimeoutSeconds = 10
	}

	// Scheduler defaults
	if c.Scheduler.RecomputeMonthlyStats == "" {
		c.Scheduler.RecomputeMonthlyStats = "0 10 * * * *" // Hourly at :10 UTC
	}
	if c.Scheduler.RecomputeYearlyStats == "" {
		c.Scheduler.RecomputeYearlyStats = "0 25 * * * *" // Hourly at :25 UTC
	}
	if c.Scheduler.ScanReminders == "" {
		c.Scheduler.ScanReminders = "0 0 * * * *" // Hourly on the hour UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
