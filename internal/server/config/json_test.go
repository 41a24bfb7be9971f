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
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("CONFIG", "")

	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"endpoint_addr_http":   "www.example:9000",
		"secret_key":           "my_secret_key",
		"session_ttl":          "2h",
		"allowed_roles":        []string{"Analyst", "medic"},
		"s3_root_user":         "user",
		"s3_root_password":     "password",
		"s3_bucket":            "bucket",
		"s3_inputs_bucket":     "inputs-bucket",
		"s3_region":            "region",
		"s3_base_endpoint":     "base_endpoint",
		"s3_use_path_style":    false,
		"presign_expiry":       "90s",
		"inline_uploads":       false,
		"namespace_by_subject": true,
		"cors_allowed_origin":  "https://app.example",
		"auth_rate_per_minute": 10,
		"log_level":            "warn",
	})

	t.Run("loads every field from json", func(t *testing.T) {
		os.Args = []string{"csvdrop", "-config", full}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
		assert.Equal(t, []string{"analyst", "medic"}, cfg.AllowedRoles)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "inputs-bucket", cfg.S3InputsBucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.False(t, cfg.S3UsePathStyle)
		assert.Equal(t, 90*time.Second, cfg.PresignExpiry)
		assert.False(t, cfg.InlineUploads)
		assert.True(t, cfg.NamespaceBySubject)
		assert.Equal(t, "https://app.example", cfg.CORSAllowedOrigin)
		assert.Equal(t, 10, cfg.AuthRatePerMinute)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"s3_bucket": "only-bucket"})
		os.Args = []string{"csvdrop", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "only-bucket", cfg.S3Bucket)
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
		assert.True(t, cfg.InlineUploads)
		assert.Equal(t, 60*time.Second, cfg.PresignExpiry)
	})

	t.Run("path from CONFIG env", func(t *testing.T) {
		os.Args = []string{"csvdrop"}
		t.Setenv("CONFIG", full)

		cfg := &Config{}
		parseJson(cfg)
		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"csvdrop"}

		cfg := &Config{EndpointAddrHTTP: "defaults:1234", S3Bucket: "s3bucket"}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "s3bucket", cfg.S3Bucket)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		os.Args = []string{"csvdrop", "-c", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"csvdrop", "-c", filepath.Join(dir, "absent.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
