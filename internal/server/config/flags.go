package config

import (
	"flag"
	"os"
	"time"

	"github.com/anongap/anongap/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN (empty selects the in-memory store)
//	-k string   bot API token
//	-n string   bot handle used in shareable links
//	-w string   public webhook URL
//	-x string   webhook secret token
//	-s string   app secure key mixed into ticket derivation
//	-m string   admin secret key
//	-t int      admin token validity, minutes
//	-l int      rate limit cooldown, seconds
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers and then converted to
//     time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-k", "-n", "-w", "-x", "-s", "-m", "-t", "-l",
		"-u", "-p", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.BotToken, "k", config.BotToken, "bot API token")
	fs.StringVar(&config.BotName, "n", config.BotName, "bot handle")
	fs.StringVar(&config.WebhookURL, "w", config.WebhookURL, "public webhook URL")
	fs.StringVar(&config.WebhookSecret, "x", config.WebhookSecret, "webhook secret token")
	fs.StringVar(&config.AppSecureKey, "s", config.AppSecureKey, "app secure key")
	fs.StringVar(&config.AdminSecretKey, "m", config.AdminSecretKey, "admin secret key")

	adminTokenValidity := fs.Int("t", int(config.AdminTokenValidity.Minutes()), "admin_token_validity (in minutes)")
	rateLimitCooldown := fs.Int("l", int(config.RateLimitCooldown.Seconds()), "rate_limit_cooldown (in seconds)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AdminTokenValidity = time.Duration(*adminTokenValidity) * time.Minute
	config.RateLimitCooldown = time.Duration(*rateLimitCooldown) * time.Second
}
