package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays configuration from environment variables. A .env file
// loaded by the caller (godotenv) ends up here as well. Malformed numeric
// values panic: an explicitly set but unusable variable is a startup error.
func parseEnv(config *Config) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString("ENDPOINT_ADDR", &config.EndpointAddr)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("BOT_TOKEN", &config.BotToken)
	setString("BOT_USERNAME", &config.BotUserName)
	setString("TELEGRAM_API_BASE_URL", &config.TelegramAPIBaseURL)
	setString("WEBHOOK_SECRET", &config.WebhookSecret)
	setString("SECRET_KEY", &config.SecretKey)
	setString("S3_ROOT_USER", &config.S3RootUser)
	setString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("S3_BUCKET", &config.S3Bucket)
	setString("S3_REGION", &config.S3Region)
	setString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	setString("PUBLIC_OBJECT_BASE_URL", &config.PublicObjectBaseURL)

	if v, ok := os.LookupEnv("ADMIN_IDS"); ok && v != "" {
		ids, err := parseIDList(v)
		if err != nil {
			panic(fmt.Errorf("ADMIN_IDS: %w", err))
		}
		config.AdminIDs = ids
	}

	if v, ok := os.LookupEnv("SESSION_TTL_MINUTES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("SESSION_TTL_MINUTES: %w", err))
		}
		config.SessionTTL = time.Duration(n) * time.Minute
	}
}

// parseIDList parses a comma-separated list of platform user ids.
func parseIDList(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
