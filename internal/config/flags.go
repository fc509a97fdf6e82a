package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/notevault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-k string   bot token
//	-n string   bot account name (for share links)
//	-w string   webhook secret token
//	-m string   comma-separated admin user ids
//	-s string   JWT HMAC secret key
//	-l int      session TTL, minutes
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-o string   public base URL for stored objects
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-n", "-w", "-m", "-s", "-l", "-u", "-p", "-b", "-g", "-e", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.BotToken, "k", config.BotToken, "bot token")
	fs.StringVar(&config.BotUserName, "n", config.BotUserName, "bot account name")
	fs.StringVar(&config.WebhookSecret, "w", config.WebhookSecret, "webhook secret token")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	admins := fs.String("m", "", "comma-separated admin user ids")
	sessionTTL := fs.Int("l", int(config.SessionTTL.Minutes()), "session TTL (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.PublicObjectBaseURL, "o", config.PublicObjectBaseURL, "public object base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *admins != "" {
		ids, err := parseIDList(*admins)
		if err != nil {
			panic(err)
		}
		config.AdminIDs = ids
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
}
