package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/dmitrijs2005/csvdrop/internal/flagx"
	"github.com/dmitrijs2005/csvdrop/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept "60s"-style strings or integer nanoseconds. Pointer fields
// distinguish "absent" from the zero value.
type JsonConfig struct {
	EndpointAddrHTTP   string          `json:"endpoint_addr_http"`
	SecretKey          string          `json:"secret_key"`
	SessionTTL         *timex.Duration `json:"session_ttl"`
	AllowedRoles       []string        `json:"allowed_roles"`
	S3RootUser         string          `json:"s3_root_user"`
	S3RootPassword     string          `json:"s3_root_password"`
	S3Bucket           string          `json:"s3_bucket"`
	S3InputsBucket     string          `json:"s3_inputs_bucket"`
	S3Region           string          `json:"s3_region"`
	S3BaseEndpoint     string          `json:"s3_base_endpoint"`
	S3UsePathStyle     *bool           `json:"s3_use_path_style"`
	PresignExpiry      *timex.Duration `json:"presign_expiry"`
	InlineUploads      *bool           `json:"inline_uploads"`
	NamespaceBySubject *bool           `json:"namespace_by_subject"`
	CORSAllowedOrigin  string          `json:"cors_allowed_origin"`
	AuthRatePerMinute  *int            `json:"auth_rate_per_minute"`
	LogLevel           string          `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c/-config (or
// $CONFIG) onto config. Fields missing from the file keep their current
// value. An unreadable or malformed file panics.
func parseJson(config *Config) {
	path := flagx.JSONConfigPath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if len(c.AllowedRoles) > 0 {
		config.AllowedRoles = splitRoles(strings.Join(c.AllowedRoles, ","))
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3InputsBucket, c.S3InputsBucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.S3UsePathStyle != nil {
		config.S3UsePathStyle = *c.S3UsePathStyle
	}
	if c.PresignExpiry != nil {
		config.PresignExpiry = c.PresignExpiry.Duration
	}
	if c.InlineUploads != nil {
		config.InlineUploads = *c.InlineUploads
	}
	if c.NamespaceBySubject != nil {
		config.NamespaceBySubject = *c.NamespaceBySubject
	}
	setString(&config.CORSAllowedOrigin, c.CORSAllowedOrigin)
	if c.AuthRatePerMinute != nil {
		config.AuthRatePerMinute = *c.AuthRatePerMinute
	}
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
