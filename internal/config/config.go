// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	DocDB     DocDBConfig
	WhatsApp  WhatsAppConfig
	Messenger MessengerConfig
	Paynow    PaynowConfig
	Notify    NotifyConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host    string
	Port    int
	GinMode string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds cache-related configuration.
type CacheConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// DocDBConfig holds document database configuration.
type DocDBConfig struct {
	URI      string
	Database string
}

// WhatsAppConfig holds WhatsApp Cloud API configuration.
type WhatsAppConfig struct {
	PhoneNumberID string
	AccessToken   string
	AppSecret     string
	VerifyToken   string
	SendTimeout   time.Duration
}

// MessengerConfig holds Facebook Messenger configuration.
type MessengerConfig struct {
	PageAccessToken string
	AppSecret       string
	VerifyToken     string
	SendTimeout     time.Duration
}

// PaynowConfig holds Paynow payment gateway configuration.
type PaynowConfig struct {
	IntegrationID  string
	IntegrationKey string
	ResultURL      string
	ReturnURL      string
	Timeout        time.Duration
}

// Enabled reports whether the gateway integration is configured.
func (c PaynowConfig) Enabled() bool {
	return c.IntegrationID != "" && c.IntegrationKey != ""
}

// NotifyConfig holds operator notification configuration.
type NotifyConfig struct {
	AdminNumbers []string
	Timeout      time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvAsInt("SERVER_PORT", 8080),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Cache: CacheConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvAsInt("SESSION_CACHE_TTL_SECONDS", 1800)) * time.Second,
		},
		DocDB: DocDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "techrehub"),
		},
		WhatsApp: WhatsAppConfig{
			PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			AccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
			AppSecret:     getEnv("WHATSAPP_APP_SECRET", ""),
			VerifyToken:   getEnv("WHATSAPP_VERIFY_TOKEN", ""),
			SendTimeout:   time.Duration(getEnvAsInt("WHATSAPP_SEND_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Messenger: MessengerConfig{
			PageAccessToken: getEnv("MESSENGER_PAGE_ACCESS_TOKEN", ""),
			AppSecret:       getEnv("MESSENGER_APP_SECRET", ""),
			VerifyToken:     getEnv("MESSENGER_VERIFY_TOKEN", ""),
			SendTimeout:     time.Duration(getEnvAsInt("MESSENGER_SEND_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Paynow: PaynowConfig{
			IntegrationID:  getEnv("PAYNOW_INTEGRATION_ID", ""),
			IntegrationKey: getEnv("PAYNOW_INTEGRATION_KEY", ""),
			ResultURL:      getEnv("PAYNOW_RESULT_URL", ""),
			ReturnURL:      getEnv("PAYNOW_RETURN_URL", ""),
			Timeout:        time.Duration(getEnvAsInt("PAYNOW_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Notify: NotifyConfig{
			AdminNumbers: getEnvAsList("ADMIN_PHONE_NUMBERS"),
			Timeout:      time.Duration(getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsList gets a comma-separated environment variable as a string slice.
func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
