package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	LogLevel    string
	MetricsAddr string
	Mongo       MongoConfig
	NATS        NATSConfig
	Email       EmailConfig
	Shipping    ShippingConfig
	Admin       AdminConfig
}

// MongoConfig holds connection settings for the order/inventory document store.
type MongoConfig struct {
	URI      string
	Database string
}

// NATSConfig holds connection settings for the notification job queue.
type NATSConfig struct {
	URL        string
	QueueGroup string
}

// EmailConfig holds credentials for the transactional email API.
// When ServiceID or PublicKey is empty the application falls back to a
// demo sender that logs instead of sending.
type EmailConfig struct {
	APIURL          string
	ServiceID       string
	PublicKey       string
	OrderTemplateID string
	AdminTemplateID string
	FromName        string
}

// ShippingConfig holds storefront shipping settings.
// LocalCity is the courier hub city; deliveries elsewhere pay the remote
// surcharge and get the longer ETA.
type ShippingConfig struct {
	LocalCity string
}

// AdminConfig contains the back-office contact that receives new-order
// notifications.
type AdminConfig struct {
	Email string
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:         getEnv("ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MetricsAddr: getEnv("METRICS_ADDR", ":9091"),
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "printstudio"),
		},
		NATS: NATSConfig{
			URL:        getEnv("NATS_URL", "nats://localhost:4222"),
			QueueGroup: getEnv("NATS_QUEUE_GROUP", "notifications"),
		},
		Email: EmailConfig{
			APIURL:          getEnv("EMAIL_API_URL", "https://api.emailjs.com/api/v1.0/email/send"),
			ServiceID:       getEnv("EMAIL_SERVICE_ID", ""),
			PublicKey:       getEnv("EMAIL_PUBLIC_KEY", ""),
			OrderTemplateID: getEnv("EMAIL_ORDER_TEMPLATE_ID", "template_order_confirmation"),
			AdminTemplateID: getEnv("EMAIL_ADMIN_TEMPLATE_ID", "template_admin_notification"),
			FromName:        getEnv("EMAIL_FROM_NAME", "3D Print Studio"),
		},
		Shipping: ShippingConfig{
			LocalCity: getEnv("SHIPPING_LOCAL_CITY", "София"),
		},
		Admin: AdminConfig{
			Email: getEnv("ADMIN_EMAIL", "admin@3dprintstudio.bg"),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Env == "prod" {
		if cfg.Mongo.URI == "" {
			return nil, fmt.Errorf("MONGO_URI must be set in production environment")
		}
		if cfg.Email.ServiceID == "" || cfg.Email.PublicKey == "" {
			slog.Default().Warn("Email credentials not set; notifications run in demo mode")
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
