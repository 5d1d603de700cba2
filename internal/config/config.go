package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sms-dispatch-gateway/pkg/logger"

	"go.uber.org/zap"
)

// SenderMapping maps a logical team key to a provider sending identity.
// The table is static configuration; it is never mutated at runtime.
type SenderMapping struct {
	TeamKey  string `json:"team_key"`
	SenderID string `json:"sender_id"`
	Name     string `json:"name"`
}

// Config holds all configuration settings
type Config struct {
	Server struct {
		Port int    `json:"port"`
		Host string `json:"host"`
	} `json:"server"`
	Database struct {
		DSN string `json:"dsn"`
	} `json:"database"`
	JWT struct {
		Secret      string        `json:"secret"`
		TokenExpiry time.Duration `json:"token_expiry"`
	} `json:"jwt"`
	Logging struct {
		Level string `json:"level"`
		Path  string `json:"path"`
	} `json:"logging"`
	Provider struct {
		BaseURL    string        `json:"base_url"`
		APIKey     string        `json:"api_key"`
		TemplateID string        `json:"template_id"`
		Timeout    time.Duration `json:"timeout"`
	} `json:"provider"`
	Dispatch struct {
		TestDestination   string        `json:"test_destination"`   // Where every message goes while live sending is off
		MaxMessageLength  int           `json:"max_message_length"`
		BulkPacingDelay   time.Duration `json:"bulk_pacing_delay"`  // Delay between provider calls within one batch
		SchedulerInterval time.Duration `json:"scheduler_interval"` // 0 disables the scheduled-dispatch loop
	} `json:"dispatch"`
	Senders struct {
		DefaultSenderID string          `json:"default_sender_id"`
		Mappings        []SenderMapping `json:"mappings"`
	} `json:"senders"`
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	// Validate path to prevent directory traversal
	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("config path must be absolute")
	}

	// Check if file exists and is a regular file
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("config file error: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("config path is not a regular file")
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.Warn("Failed to close config file", zap.Error(closeErr))
		}
	}()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	config := &Config{}
	config.Server.Port = 8080
	config.Server.Host = "localhost"
	config.Database.DSN = "file:dispatch.db?cache=shared&mode=rwc"
	config.JWT.Secret = "your-secret-key" // This should be changed in production
	config.JWT.TokenExpiry = 24 * time.Hour
	config.Logging.Level = "info"
	config.Logging.Path = "server.log"
	config.Provider.BaseURL = "https://api.notify.example/v1"
	config.Provider.TemplateID = "sms-dispatch"
	config.Provider.Timeout = 15 * time.Second
	config.Dispatch.MaxMessageLength = 160
	config.Dispatch.BulkPacingDelay = 500 * time.Millisecond
	config.Dispatch.SchedulerInterval = 0
	return config
}
