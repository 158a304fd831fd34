package global

import (
	"errors"
	"time"
)

type ServerConfig struct {
	Port             string
	Env              string
	CORSAllowOrigins []string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Address    string
	Password   string
	DB         int
	ProductTTL time.Duration
	Enabled    bool
}

// MailConfig holds the outbound transport settings. Provider selects which
// transport is built: smtp, postmark, sendgrid or none.
type MailConfig struct {
	Provider       string
	Host           string
	Port           int
	Secure         bool
	Username       string
	Password       string
	From           string
	PostmarkToken  string
	SendGridAPIKey string
	StoreName      string
}

type EventsConfig struct {
	RabbitMQURL string
}

// Config is built once at start-up and passed down explicitly.
type Config struct {
	Server        ServerConfig
	Mongo         MongoConfig
	Redis         RedisConfig
	Mail          MailConfig
	Events        EventsConfig
	NotifyTimeout time.Duration
}

func LoadConfig() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Port:             GetEnvOrDefault("PORT", "8000"),
			Env:              GetEnvOrDefault("ENV", "development"),
			CORSAllowOrigins: SplitCSV(GetEnvOrDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Mongo: MongoConfig{
			URI:      GetEnvOrDefault("MONGODB_URI", ""),
			Database: GetEnvOrDefault("MONGODB_DATABASE", "storefront"),
		},
		Redis: RedisConfig{
			Address:    GetEnvOrDefault("REDIS_ADDRESS", ""),
			Password:   GetEnvOrDefault("REDIS_PASSWORD", ""),
			DB:         GetEnvIntOrDefault("REDIS_DB", 0),
			ProductTTL: GetEnvDurationOrDefault("PRODUCT_CACHE_TTL", 10*time.Minute),
		},
		Mail: MailConfig{
			Provider:       GetEnvOrDefault("EMAIL_PROVIDER", "smtp"),
			Host:           GetEnvOrDefault("EMAIL_HOST", ""),
			Port:           GetEnvIntOrDefault("EMAIL_PORT", 587),
			Secure:         GetEnvBoolOrDefault("EMAIL_SECURE", false),
			Username:       GetEnvOrDefault("EMAIL_USER", ""),
			Password:       GetEnvOrDefault("EMAIL_PASSWORD", ""),
			From:           GetEnvOrDefault("EMAIL_FROM", ""),
			PostmarkToken:  GetEnvOrDefault("POSTMARK_API_TOKEN", ""),
			SendGridAPIKey: GetEnvOrDefault("SENDGRID_API_KEY", ""),
			StoreName:      GetEnvOrDefault("STORE_NAME", "Storefront"),
		},
		Events: EventsConfig{
			RabbitMQURL: GetEnvOrDefault("RABBITMQ_URL", ""),
		},
		NotifyTimeout: GetEnvDurationOrDefault("NOTIFY_TIMEOUT", 30*time.Second),
	}
	cfg.Redis.Enabled = cfg.Redis.Address != ""

	if cfg.Mongo.URI == "" {
		return cfg, errors.New("MONGODB_URI is not set in environment variables")
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Server.Env == "production"
}
