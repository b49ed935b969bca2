package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.Equal(t, "anongap_bot", c.BotName)
	assert.Equal(t, 10*time.Second, c.RateLimitCooldown)
	assert.Equal(t, 15*time.Minute, c.AdminTokenValidity)
	assert.Equal(t, 30*24*time.Hour, c.ConversationTTL)
	assert.Equal(t, "", c.DatabaseDSN)
	assert.Equal(t, "http://127.0.0.1:9000/", c.S3BaseEndpoint)
}

func TestParseEnvOverlay(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:env-token")
	t.Setenv("DATABASE_DSN", "postgres://env")
	t.Setenv("RATE_LIMIT_COOLDOWN", "30s")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, "123:env-token", c.BotToken)
	assert.Equal(t, "postgres://env", c.DatabaseDSN)
	assert.Equal(t, 30*time.Second, c.RateLimitCooldown)
	// Untouched values keep their defaults.
	assert.Equal(t, ":8080", c.EndpointAddr)
}

func TestParseEnvIgnoresBadDuration(t *testing.T) {
	t.Setenv("RATE_LIMIT_COOLDOWN", "soon")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, 10*time.Second, c.RateLimitCooldown)
}

func TestParseJsonOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"endpoint_addr": ":9090",
		"bot_token": "123:json-token",
		"rate_limit_cooldown": "45s",
		"conversation_ttl": 3600000000000
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"server", "-c", path}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, ":9090", c.EndpointAddr)
	assert.Equal(t, "123:json-token", c.BotToken)
	assert.Equal(t, 45*time.Second, c.RateLimitCooldown)
	assert.Equal(t, time.Hour, c.ConversationTTL)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, "anongap_bot", c.BotName)
	assert.Equal(t, "admin-secret", c.AdminSecretKey)
}

func TestParseFlagsOverlay(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{
		"server",
		"-a", ":7070",
		"-k", "123:flag-token",
		"-n", "other_bot",
		"-l", "20",
		"-t", "5",
	}

	c := &Config{}
	c.LoadDefaults()
	parseFlags(c)

	assert.Equal(t, ":7070", c.EndpointAddr)
	assert.Equal(t, "123:flag-token", c.BotToken)
	assert.Equal(t, "other_bot", c.BotName)
	assert.Equal(t, 20*time.Second, c.RateLimitCooldown)
	assert.Equal(t, 5*time.Minute, c.AdminTokenValidity)
	// Flags not passed keep their defaults.
	assert.Equal(t, "relay-logs", c.S3Bucket)
}

func TestParseFlagsIgnoresForeignFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"server", "-c", "ignored.json", "-a", ":6060"}

	c := &Config{}
	c.LoadDefaults()
	parseFlags(c)

	assert.Equal(t, ":6060", c.EndpointAddr)
}
