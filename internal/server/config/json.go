package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/anongap/anongap/internal/flagx"
	"github.com/anongap/anongap/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "10s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its non-zero fields are copied
// into the runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr         string         `json:"endpoint_addr"`
	BotToken             string         `json:"bot_token"`
	BotName              string         `json:"bot_name"`
	BotAPIBaseURL        string         `json:"bot_api_base_url"`
	WebhookURL           string         `json:"webhook_url"`
	WebhookSecret        string         `json:"webhook_secret"`
	AppSecureKey         string         `json:"app_secure_key"`
	DatabaseDSN          string         `json:"database_dsn"`
	AdminSecretKey       string         `json:"admin_secret_key"`
	AdminTokenValidity   timex.Duration `json:"admin_token_validity"`
	RateLimitCooldown    timex.Duration `json:"rate_limit_cooldown"`
	ConversationTTL      timex.Duration `json:"conversation_ttl"`
	ArchiveFlushInterval timex.Duration `json:"archive_flush_interval"`
	S3RootUser           string         `json:"s3_root_user"`
	S3RootPassword       string         `json:"s3_root_password"`
	S3Bucket             string         `json:"s3_bucket"`
	S3Region             string         `json:"s3_region"`
	S3BaseEndpoint       string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; if neither
// is set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics. Only fields present in the file
// override the current values.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString := func(target *string, v string) {
		if v != "" {
			*target = v
		}
	}
	setDuration := func(target *time.Duration, v timex.Duration) {
		if v.Duration != 0 {
			*target = time.Duration(v.Duration)
		}
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.BotToken, c.BotToken)
	setString(&config.BotName, c.BotName)
	setString(&config.BotAPIBaseURL, c.BotAPIBaseURL)
	setString(&config.WebhookURL, c.WebhookURL)
	setString(&config.WebhookSecret, c.WebhookSecret)
	setString(&config.AppSecureKey, c.AppSecureKey)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AdminSecretKey, c.AdminSecretKey)
	setDuration(&config.AdminTokenValidity, c.AdminTokenValidity)
	setDuration(&config.RateLimitCooldown, c.RateLimitCooldown)
	setDuration(&config.ConversationTTL, c.ConversationTTL)
	setDuration(&config.ArchiveFlushInterval, c.ArchiveFlushInterval)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}
