package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/notevault/internal/flagx"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. Duration fields are integers in minutes. It is an
// intermediate DTO: after unmarshalling, set fields are copied into the
// runtime Config.
type JsonConfig struct {
	EndpointAddr        string  `json:"endpoint_addr"`
	DatabaseDSN         string  `json:"database_dsn"`
	BotToken            string  `json:"bot_token"`
	BotUserName         string  `json:"bot_username"`
	TelegramAPIBaseURL  string  `json:"telegram_api_base_url"`
	WebhookSecret       string  `json:"webhook_secret"`
	AdminIDs            []int64 `json:"admin_ids"`
	SecretKey           string  `json:"secret_key"`
	SessionTTLMinutes   int     `json:"session_ttl_minutes"`
	S3RootUser          string  `json:"s3_root_user"`
	S3RootPassword      string  `json:"s3_root_password"`
	S3Bucket            string  `json:"s3_bucket"`
	S3Region            string  `json:"s3_region"`
	S3BaseEndpoint      string  `json:"s3_base_endpoint"`
	PublicObjectBaseURL string  `json:"public_object_base_url"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config. The file path comes from the -c/-config flags; when neither is
// set, no file is loaded. An unreadable or malformed file panics: a broken
// explicit config is a startup error.
func parseJson(config *Config) {

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

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.BotToken != "" {
		config.BotToken = c.BotToken
	}
	if c.BotUserName != "" {
		config.BotUserName = c.BotUserName
	}
	if c.TelegramAPIBaseURL != "" {
		config.TelegramAPIBaseURL = c.TelegramAPIBaseURL
	}
	if c.WebhookSecret != "" {
		config.WebhookSecret = c.WebhookSecret
	}
	if len(c.AdminIDs) > 0 {
		config.AdminIDs = c.AdminIDs
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.SessionTTLMinutes > 0 {
		config.SessionTTL = time.Duration(c.SessionTTLMinutes) * time.Minute
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.PublicObjectBaseURL != "" {
		config.PublicObjectBaseURL = c.PublicObjectBaseURL
	}
}
