package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	body := `{
		"endpoint_addr": ":9999",
		"bot_token": "json-token",
		"admin_ids": [11, 12],
		"session_ttl_minutes": 10,
		"s3_bucket": "json-bucket"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	os.Args = []string{"cmd", "-c", path}

	config := &Config{}
	config.LoadDefaults()
	parseJson(config)

	assert.Equal(t, ":9999", config.EndpointAddr)
	assert.Equal(t, "json-token", config.BotToken)
	assert.Equal(t, []int64{11, 12}, config.AdminIDs)
	assert.Equal(t, 10*time.Minute, config.SessionTTL)
	assert.Equal(t, "json-bucket", config.S3Bucket)

	// fields absent from the file keep their defaults
	assert.Equal(t, "https://api.telegram.org", config.TelegramAPIBaseURL)
}

func TestParseJson_NoFileFlag(t *testing.T) {
	os.Args = []string{"cmd"}

	config := &Config{}
	config.LoadDefaults()
	require.NotPanics(t, func() { parseJson(config) })
}

func TestParseJson_MalformedFilePanics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	os.Args = []string{"cmd", "-c", path}

	config := &Config{}
	require.Panics(t, func() { parseJson(config) })
}
