package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	dir := t.TempDir()

	t.Run("loads every key", func(t *testing.T) {
		path := writeTempJSON(t, dir, "full.json", map[string]any{
			"http_addr":                      ":8080",
			"grpc_addr":                      ":6000",
			"database_dsn":                   "postgres://db",
			"secret_key":                     "my_secret_key",
			"access_token_validity_duration": "10h",
			"bcrypt_cost":                    11,
			"max_upload_size":                2048,
			"s3_root_user":                   "user",
			"s3_root_password":               "password",
			"s3_bucket":                      "bucket",
			"s3_region":                      "region",
			"s3_base_endpoint":               "http://minio:9000",
			"s3_public_url":                  "https://files.example.com",
			"log_backend":                    "zap",
			"log_format":                     "text",
			"log_level":                      "debug",
		})

		cfg := &Config{}
		require.NoError(t, parseJson(cfg, path))

		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, ":6000", cfg.GRPCAddr)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 10*time.Hour, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 11, cfg.BcryptCost)
		assert.Equal(t, int64(2048), cfg.MaxUploadSize)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "http://minio:9000", cfg.S3BaseEndpoint)
		assert.Equal(t, "https://files.example.com", cfg.S3PublicURL)
		assert.Equal(t, "zap", cfg.LogBackend)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		path := writeTempJSON(t, dir, "partial.json", map[string]any{"s3_bucket": "only-bucket"})

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, path))

		assert.Equal(t, "only-bucket", cfg.S3Bucket)
		assert.Equal(t, ":8000", cfg.HTTPAddr)
		assert.Equal(t, 10*time.Hour, cfg.AccessTokenValidityDuration)
	})

	t.Run("empty path is a no-op", func(t *testing.T) {
		cfg := &Config{HTTPAddr: ":1"}
		require.NoError(t, parseJson(cfg, ""))
		assert.Equal(t, ":1", cfg.HTTPAddr)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Error(t, parseJson(&Config{}, bad))
	})
}
