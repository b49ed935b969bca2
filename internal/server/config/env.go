package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from the environment, after loading a local
// .env file if one exists. Only variables that are actually set override
// the current value.
func parseEnv(config *Config) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	setString := func(target *string, key string) {
		if v, ok := os.LookupEnv(key); ok {
			*target = v
		}
	}
	setDuration := func(target *time.Duration, key string) {
		if v, ok := os.LookupEnv(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*target = d
			}
		}
	}

	setString(&config.EndpointAddr, "ENDPOINT_ADDR")
	setString(&config.BotToken, "BOT_TOKEN")
	setString(&config.BotName, "BOT_NAME")
	setString(&config.BotAPIBaseURL, "BOT_API_BASE_URL")
	setString(&config.WebhookURL, "WEBHOOK_URL")
	setString(&config.WebhookSecret, "WEBHOOK_SECRET")
	setString(&config.AppSecureKey, "APP_SECURE_KEY")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.AdminSecretKey, "ADMIN_SECRET_KEY")
	setDuration(&config.AdminTokenValidity, "ADMIN_TOKEN_VALIDITY")
	setDuration(&config.RateLimitCooldown, "RATE_LIMIT_COOLDOWN")
	setDuration(&config.ConversationTTL, "CONVERSATION_TTL")
	setDuration(&config.ArchiveFlushInterval, "ARCHIVE_FLUSH_INTERVAL")
	setString(&config.S3RootUser, "S3_ROOT_USER")
	setString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
}
