package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
		// BaseURL is the public origin used for verification links
		// and uploaded photo URLs, e.g. https://cards.uos.edu.pk
		BaseURL     string `yaml:"base_url" env:"SERVER_BASE_URL"`
		StoragePath string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
	} `yaml:"server"`

	Auth struct {
		JWTSecret             string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"AUTH_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"AUTH_ISSUER"`
		AdminUsername         string `yaml:"admin_username" env:"AUTH_ADMIN_USERNAME"`
		// Bcrypt hash of the admin password
		AdminPasswordHash string `yaml:"admin_password_hash" env:"AUTH_ADMIN_PASSWORD_HASH"`
	} `yaml:"auth"`

	Store struct {
		// WriteDelay simulates backend latency on create/update,
		// standing in for a future remote persistence call.
		WriteDelay  string `yaml:"write_delay" env:"STORE_WRITE_DELAY"`
		DeleteDelay string `yaml:"delete_delay" env:"STORE_DELETE_DELAY"`
		SeedDemo    bool   `yaml:"seed_demo" env:"STORE_SEED_DEMO"`
	} `yaml:"store"`

	Card struct {
		InstitutionName string `yaml:"institution_name" env:"CARD_INSTITUTION_NAME"`
		Tagline         string `yaml:"tagline" env:"CARD_TAGLINE"`
	} `yaml:"card"`

	Import struct {
		MaxFileSizeMB int `yaml:"max_file_size_mb" env:"IMPORT_MAX_FILE_SIZE_MB"`
		MaxRows       int `yaml:"max_rows" env:"IMPORT_MAX_ROWS"`
	} `yaml:"import"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// Config file is optional; defaults plus env vars are enough to run
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

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
	config.Server.BaseURL = "http://localhost:8080"
	config.Server.StoragePath = "uploads"

	config.Auth.AccessTokenExpiration = "12h"
	config.Auth.Issuer = "campuscard"
	config.Auth.AdminUsername = "admin"

	config.Store.WriteDelay = "500ms"
	config.Store.DeleteDelay = "300ms"
	config.Store.SeedDemo = true

	config.Card.InstitutionName = "University of Sahiwal"
	config.Card.Tagline = "Student Identity Card"

	config.Import.MaxFileSizeMB = 10
	config.Import.MaxRows = 1000

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if config.Auth.AdminPasswordHash == "" {
		return fmt.Errorf("admin password hash is required")
	}

	if _, err := time.ParseDuration(config.Auth.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Store.WriteDelay); err != nil {
		return fmt.Errorf("invalid store write delay format: %w", err)
	}

	if _, err := time.ParseDuration(config.Store.DeleteDelay); err != nil {
		return fmt.Errorf("invalid store delete delay format: %w", err)
	}

	if config.Import.MaxFileSizeMB <= 0 {
		return fmt.Errorf("import max file size must be positive")
	}

	return nil
}
