package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Email       EmailConfig
	OTP         OTPConfig
	Pricing     PricingConfig
	Admin       AdminConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers           []string
	NotificationTopic string
}

type EmailConfig struct {
	ResendAPIKey string
	FromAddress  string
	AppURL       string
}

type OTPConfig struct {
	Secret        string
	Length        int
	ExpirySeconds int
}

type PricingConfig struct {
	FreeShippingThreshold float64
	FlatShippingFee       float64
}

type AdminConfig struct {
	APIKeyHash string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", "0")
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_NOTIFICATION_TOPIC", "notifications")
	viper.SetDefault("EMAIL_FROM", "Pehenava <noreply@pehenava.com>")
	viper.SetDefault("APP_URL", "http://localhost:5173")
	viper.SetDefault("OTP_LENGTH", "6")
	viper.SetDefault("OTP_EXPIRY_SECONDS", "600")
	viper.SetDefault("FREE_SHIPPING_THRESHOLD", "2000")
	viper.SetDefault("FLAT_SHIPPING_FEE", "150")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "pehenava"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrViper("REDIS_PASSWORD", ""),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Brokers:           strings.Split(getEnvOrViper("KAFKA_BROKERS", "localhost:9092"), ","),
			NotificationTopic: getEnvOrViper("KAFKA_NOTIFICATION_TOPIC", "notifications"),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnvOrViper("RESEND_API_KEY", ""),
			FromAddress:  getEnvOrViper("EMAIL_FROM", "Pehenava <noreply@pehenava.com>"),
			AppURL:       getEnvOrViper("APP_URL", "http://localhost:5173"),
		},
		OTP: OTPConfig{
			Secret:        getEnvOrViper("OTP_SECRET", "change-me-otp-secret"),
			Length:        viper.GetInt("OTP_LENGTH"),
			ExpirySeconds: viper.GetInt("OTP_EXPIRY_SECONDS"),
		},
		Pricing: PricingConfig{
			FreeShippingThreshold: viper.GetFloat64("FREE_SHIPPING_THRESHOLD"),
			FlatShippingFee:       viper.GetFloat64("FLAT_SHIPPING_FEE"),
		},
		Admin: AdminConfig{
			APIKeyHash: getEnvOrViper("ADMIN_API_KEY_HASH", ""),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Environment == "production" {
		if cfg.Email.ResendAPIKey == "" {
			return nil, fmt.Errorf("RESEND_API_KEY is required in production")
		}
		if cfg.OTP.Secret == "" || cfg.OTP.Secret == "change-me-otp-secret" {
			return nil, fmt.Errorf("OTP_SECRET must be set in production")
		}
		if cfg.Admin.APIKeyHash == "" {
			return nil, fmt.Errorf("ADMIN_API_KEY_HASH is required in production")
		}
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
