// Package config handles configuration for the server component,
// including defaults, environment variables, JSON overlay, and
// command-line flags.
package config

import "time"

// Config holds runtime settings for the relay server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP endpoint (webhook + admin).
//   - BotToken / BotName: bot API credentials and the public bot handle.
//   - BotAPIBaseURL: override for the bot API host, mainly for tests.
//   - WebhookURL: public URL registered with setWebhook; empty skips
//     registration (useful behind a tunnel already registered).
//   - WebhookSecret: shared secret echoed back by the platform per update.
//   - AppSecureKey: extra key mixed into ticket derivation and sealing.
//     Changing it orphans every stored conversation.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - AdminSecretKey: shared secret exchanged for admin stats tokens.
//   - AdminTokenValidity: admin token lifetime.
//   - RateLimitCooldown: minimum gap between outbound messages per user.
//   - ConversationTTL: retention for sealed conversation records.
//   - ArchiveFlushInterval: how often buffered event lines go to S3.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
type Config struct {
	EndpointAddr         string
	BotToken             string
	BotName              string
	BotAPIBaseURL        string
	WebhookURL           string
	WebhookSecret        string
	AppSecureKey         string
	DatabaseDSN          string
	AdminSecretKey       string
	AdminTokenValidity   time.Duration
	RateLimitCooldown    time.Duration
	ConversationTTL      time.Duration
	ArchiveFlushInterval time.Duration
	S3RootUser           string
	S3RootPassword       string
	S3Bucket             string
	S3Region             string
	S3BaseEndpoint       string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.BotName = "anongap_bot"
	c.WebhookSecret = "webhook-secret"
	c.AdminSecretKey = "admin-secret"
	c.AdminTokenValidity = 15 * time.Minute
	c.RateLimitCooldown = 10 * time.Second
	c.ConversationTTL = 30 * 24 * time.Hour
	c.ArchiveFlushInterval = 1 * time.Minute
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "relay-logs"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file and finally command-line
// flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
