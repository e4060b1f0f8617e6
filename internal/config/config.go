package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port       string `yaml:"port" env:"SERVER_PORT"`
		Mode       string `yaml:"mode" env:"SERVER_MODE"`
		APIKey     string `yaml:"api_key" env:"API_KEY"`
		APIKeyHash string `yaml:"api_key_hash" env:"API_KEY_HASH"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
		MongoURI        string `yaml:"mongo_uri" env:"MONGO_URI"`
		MongoDBName     string `yaml:"mongo_db_name" env:"MONGO_DB_NAME"`
	} `yaml:"database"`

	Connector struct {
		BaseURL   string  `yaml:"base_url" env:"CONNECTOR_BASE_URL"`
		APIKey    string  `yaml:"api_key" env:"CONNECTOR_API_KEY"`
		Timeout   string  `yaml:"timeout" env:"CONNECTOR_TIMEOUT"`
		RateLimit float64 `yaml:"rate_limit" env:"CONNECTOR_RATE_LIMIT"`
		RateBurst int     `yaml:"rate_burst" env:"CONNECTOR_RATE_BURST"`
	} `yaml:"connector"`

	Events struct {
		WebhookEnabled bool   `yaml:"webhook_enabled" env:"EVENTS_WEBHOOK_ENABLED"`
		RedisURL       string `yaml:"redis_url" env:"EVENTS_REDIS_URL"`
		RedisChannel   string `yaml:"redis_channel" env:"EVENTS_REDIS_CHANNEL"`
		SettleDelay    string `yaml:"settle_delay" env:"EVENTS_SETTLE_DELAY"`
	} `yaml:"events"`

	School struct {
		Name           string `yaml:"name" env:"SCHOOL_NAME"`
		AssetsLocation string `yaml:"assets_location" env:"SCHOOL_ASSETS_LOCATION"`
		PlayStoreLink  string `yaml:"play_store_link" env:"SCHOOL_PLAY_STORE_LINK"`
		AppStoreLink   string `yaml:"app_store_link" env:"SCHOOL_APP_STORE_LINK"`
		NewQRFormat    bool   `yaml:"new_qr_format" env:"SCHOOL_NEW_QR_FORMAT"`
	} `yaml:"school"`

	Offboarding struct {
		AutoMail          bool   `yaml:"auto_mail" env:"OFFBOARDING_AUTO_MAIL"`
		MailFailurePolicy string `yaml:"mail_failure_policy" env:"OFFBOARDING_MAIL_FAILURE_POLICY"`
	} `yaml:"offboarding"`

	Batch struct {
		Concurrency int `yaml:"concurrency" env:"BATCH_CONCURRENCY"`
	} `yaml:"batch"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// Supported values for Database.Driver
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Supported values for Offboarding.MailFailurePolicy
const (
	MailFailurePolicyFail   = "fail"
	MailFailurePolicyIgnore = "ignore"
)

// LoadConfig loads configuration from a file, a .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// A missing .env is normal outside of local development.
	_ = godotenv.Load()

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "school"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"
	config.Database.MongoDBName = "school"

	config.Connector.BaseURL = "http://localhost:80"
	config.Connector.Timeout = "30s"
	config.Connector.RateLimit = 20
	config.Connector.RateBurst = 10

	config.Events.WebhookEnabled = true
	config.Events.RedisChannel = "connector-events"
	config.Events.SettleDelay = "500ms"

	config.School.AssetsLocation = "assets"

	config.Offboarding.MailFailurePolicy = MailFailurePolicyFail

	config.Batch.Concurrency = 4

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return applyEnv(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case DriverMongo:
		if config.Database.MongoURI == "" {
			return fmt.Errorf("mongo uri is required for the mongo driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Server.APIKey == "" && config.Server.APIKeyHash == "" {
		return fmt.Errorf("an API key or API key hash is required")
	}

	if strings.TrimSpace(config.School.Name) == "" {
		return fmt.Errorf("school name is required")
	}

	if config.School.AssetsLocation == "" {
		return fmt.Errorf("assets location is required")
	}

	if config.Connector.BaseURL == "" {
		return fmt.Errorf("connector base url is required")
	}

	if _, err := time.ParseDuration(config.Connector.Timeout); err != nil {
		return fmt.Errorf("invalid connector timeout format: %w", err)
	}

	if _, err := time.ParseDuration(config.Events.SettleDelay); err != nil {
		return fmt.Errorf("invalid settle delay format: %w", err)
	}

	switch config.Offboarding.MailFailurePolicy {
	case MailFailurePolicyFail, MailFailurePolicyIgnore:
	default:
		return fmt.Errorf("unsupported offboarding mail failure policy %q", config.Offboarding.MailFailurePolicy)
	}

	if config.Batch.Concurrency < 1 {
		return fmt.Errorf("batch concurrency must be at least 1")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// ConfigPath returns the config file location, honouring CONFIG_PATH.
func ConfigPath(defaultPath string) string {
	if p, ok := os.LookupEnv("CONFIG_PATH"); ok && p != "" {
		return p
	}
	return defaultPath
}
