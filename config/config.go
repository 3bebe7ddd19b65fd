package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBDsn      string `mapstructure:"DB_DSN"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBPort     string `mapstructure:"DB_PORT"`

	JWTKey     string        `mapstructure:"JWT_SECRET_KEY"`
	JWTTTL     time.Duration `mapstructure:"JWT_TTL"`
	SaltRound  int           `mapstructure:"SALT_ROUND"`
	AdminEmail string        `mapstructure:"ADMIN_EMAIL"`

	SendgridApiKey  string `mapstructure:"SENDGRID_API_KEY"`
	EmailSender     string `mapstructure:"EMAIL_SENDER"`
	EmailSenderName string `mapstructure:"EMAIL_SENDER_NAME"`

	StorageBucket  string `mapstructure:"STORAGE_BUCKET"`
	StorageBaseURL string `mapstructure:"STORAGE_BASE_URL"`
	StorageToken   string `mapstructure:"STORAGE_TOKEN"`

	ReconcileCron string `mapstructure:"RECONCILE_CRON"`
	ReminderCron  string `mapstructure:"REMINDER_CRON"`

	RateLimitPerSecond float64 `mapstructure:"RATE_LIMIT_PER_SECOND"`
	RateLimitBurst     int     `mapstructure:"RATE_LIMIT_BURST"`
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

var defaults = map[string]any{
	"PORT":      "5001",
	"LOG_LEVEL": "INFO",

	"DB_DRIVER":   "postgres",
	"DB_DSN":      "",
	"DB_HOST":     "localhost",
	"DB_USER":     "postgres",
	"DB_PASSWORD": "",
	"DB_NAME":     "opportunities",
	"DB_PORT":     "5432",

	"JWT_SECRET_KEY": "defaultSecret",
	"JWT_TTL":        "720h",
	"SALT_ROUND":     10,
	"ADMIN_EMAIL":    "",

	"SENDGRID_API_KEY":  "",
	"EMAIL_SENDER":      "no-reply@student-opportunities.local",
	"EMAIL_SENDER_NAME": "Student Opportunities Team",

	"STORAGE_BUCKET":   "student-opportunities",
	"STORAGE_BASE_URL": "https://storage.googleapis.com",
	"STORAGE_TOKEN":    "",

	"RECONCILE_CRON": "*/15 * * * *",
	"REMINDER_CRON":  "0 8 * * *",

	"RATE_LIMIT_PER_SECOND": 5.0,
	"RATE_LIMIT_BURST":      10,
}

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Info(".env file not found, using system environment variables")
	}

	cfg, err := Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	AppConfig = cfg

	if AppConfig.JWTKey == "defaultSecret" {
		log.Warn("Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendgridApiKey == "" {
		log.Warn("SENDGRID_API_KEY is not set, outgoing emails will fail.")
	}
}

// Load reads the configuration from the environment without touching AppConfig.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.LogLevel = strings.ToUpper(strings.TrimSpace(cfg.LogLevel))
	cfg.AdminEmail = strings.ToLower(strings.TrimSpace(cfg.AdminEmail))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	if c.DBDriver == "sqlite" && c.DBDsn == "" {
		errs = append(errs, errors.New("missing variable: DB_DSN is required for sqlite"))
	}
	if c.JWTKey == "" {
		errs = append(errs, errors.New("missing variable: JWT_SECRET_KEY"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.SaltRound < 4 || c.SaltRound > 31 {
		errs = append(errs, fmt.Errorf("SALT_ROUND must be between 4 and 31, got %d", c.SaltRound))
	}
	if c.RateLimitPerSecond <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("rate limit values must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}
	return nil
}
