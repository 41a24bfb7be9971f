package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDefaults(t *testing.T, c *Config) {
	t.Helper()
	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.Equal(t, []string{"analyst", "coach", "scout"}, c.AllowedRoles)
	assert.Equal(t, "admin", c.S3RootUser)
	assert.Equal(t, "secretpassword", c.S3RootPassword)
	assert.Equal(t, "raw-data", c.S3Bucket)
	assert.Equal(t, "inputs", c.S3InputsBucket)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Equal(t, "http://127.0.0.1:9000/", c.S3BaseEndpoint)
	assert.True(t, c.S3UsePathStyle)
	assert.Equal(t, 60*time.Second, c.PresignExpiry)
	assert.True(t, c.InlineUploads)
	assert.False(t, c.NamespaceBySubject)
	assert.Equal(t, "*", c.CORSAllowedOrigin)
	assert.Equal(t, 30, c.AuthRatePerMinute)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assertDefaults(t, &c)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"csvdrop"}
	t.Setenv("CONFIG", "")
	for _, name := range []string{"RAW_DATA_BUCKET", "INPUT_BUCKET", "S3_ROOT_USER", "S3_ROOT_PASSWORD", "S3_REGION", "S3_ENDPOINT", "SECRET_KEY", "INLINE_UPLOADS"} {
		t.Setenv(name, "")
	}

	c := LoadConfig()
	require.NotNil(t, c)
	assertDefaults(t, c)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("CONFIG", "")

	path := writeTempJSON(t, "", "", map[string]any{
		"endpoint_addr_http": ":7000",
		"s3_bucket":          "from-json",
	})
	os.Args = []string{"csvdrop", "-c", path, "-b", "from-flag"}

	c := LoadConfig()
	assert.Equal(t, ":7000", c.EndpointAddrHTTP)
	assert.Equal(t, "from-flag", c.S3Bucket)
}

func TestLoadConfig_EnvBetweenJSONAndFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("CONFIG", "")
	t.Setenv("RAW_DATA_BUCKET", "from-env")
	t.Setenv("INPUT_BUCKET", "inputs-env")

	path := writeTempJSON(t, "", "", map[string]any{
		"s3_bucket":        "from-json",
		"s3_inputs_bucket": "inputs-json",
	})
	os.Args = []string{"csvdrop", "-c", path, "-ib", "inputs-flag"}

	c := LoadConfig()
	assert.Equal(t, "from-env", c.S3Bucket)
	assert.Equal(t, "inputs-flag", c.S3InputsBucket)
}

func TestLoadConfig_JSONDurationsSurviveFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("CONFIG", "")

	path := writeTempJSON(t, "", "", map[string]any{
		"session_ttl":    "30s",
		"presign_expiry": "90s",
	})
	os.Args = []string{"csvdrop", "-config", path}

	c := LoadConfig()
	assert.Equal(t, 30*time.Second, c.SessionTTL)
	assert.Equal(t, 90*time.Second, c.PresignExpiry)

	os.Args = []string{"csvdrop", "-config", path, "-t", "5"}
	c = LoadConfig()
	assert.Equal(t, 5*time.Minute, c.SessionTTL)
	assert.Equal(t, 90*time.Second, c.PresignExpiry)
}
