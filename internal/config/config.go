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
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Booking   BookingConfig   `yaml:"booking"`
	Notify    NotifyConfig    `yaml:"notify"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	CronSecret string `yaml:"cron_secret"` // shared secret for the cron trigger endpoint
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

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// BookingConfig contains booking lifecycle settings
type BookingConfig struct {
	ApprovalDeadlineHours    int     `yaml:"approval_deadline_hours"`
	ChatUnreadWindowMinutes  int     `yaml:"chat_unread_window_minutes"`
	ModerationWindowMinutes  int     `yaml:"moderation_window_minutes"`
	ReviewReminderDelayHours int     `yaml:"review_reminder_delay_hours"`
	CommissionRate           float64 `yaml:"commission_rate"`
	InsuranceRate            float64 `yaml:"insurance_rate"`
	PrepaymentRate           float64 `yaml:"prepayment_rate"`
}

// NotifyConfig contains outbound channel settings
type NotifyConfig struct {
	BaseURL                 string `yaml:"base_url"`
	SendgridAPIKey          string `yaml:"sendgrid_api_key"`
	EmailFrom               string `yaml:"email_from"`
	EmailFromName           string `yaml:"email_from_name"`
	TelegramToken           string `yaml:"telegram_token"`
	FirebaseCredentialsFile string `yaml:"firebase_credentials_file"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	NotificationSweep string `yaml:"notification_sweep"`
	DeadlineSweep     string `yaml:"deadline_sweep"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

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
	if val := os.Getenv("CRON_SECRET"); val != "" {
		c.Server.CronSecret = val
	}

	// Notification channels
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Notify.SendgridAPIKey = val
	}
	if val := os.Getenv("TELEGRAM_BOT_TOKEN"); val != "" {
		c.Notify.TelegramToken = val
	}
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		c.Notify.FirebaseCredentialsFile = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	// Booking defaults
	if c.Booking.ApprovalDeadlineHours == 0 {
		c.Booking.ApprovalDeadlineHours = 24
	}
	if c.Booking.ChatUnreadWindowMinutes == 0 {
		c.Booking.ChatUnreadWindowMinutes = 30
	}
	if c.Booking.ModerationWindowMinutes == 0 {
		c.Booking.ModerationWindowMinutes = 30
	}
	if c.Booking.ReviewReminderDelayHours == 0 {
		c.Booking.ReviewReminderDelayHours = 24
	}
	if c.Booking.CommissionRate == 0 {
		c.Booking.CommissionRate = 0.15
	}
	if c.Booking.InsuranceRate == 0 {
		c.Booking.InsuranceRate = 0.10
	}
	if c.Booking.PrepaymentRate == 0 {
		c.Booking.PrepaymentRate = 0.30
	}

	// Scheduler defaults
	if c.Scheduler.NotificationSweep == "" {
		c.Scheduler.NotificationSweep = "0 */30 * * * *" // every 30 minutes
	}
	if c.Scheduler.DeadlineSweep == "" {
		c.Scheduler.DeadlineSweep = "0 */10 * * * *" // every 10 minutes
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
