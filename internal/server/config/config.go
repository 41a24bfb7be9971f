// Package config handles configuration for the csvdrop server,
// including defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the csvdrop server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API and upload form.
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - SessionTTL: lifetime of a session token issued at register/login.
//   - AllowedRoles: roles an account may register with or switch to.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket: bucket receiving uploaded CSV files.
//   - S3InputsBucket: bucket receiving analysis input records.
//   - S3Region / S3BaseEndpoint / S3UsePathStyle: object storage addressing.
//   - PresignExpiry: lifetime of presigned upload URLs.
//   - InlineUploads: enables the legacy POST /upload endpoint.
//   - NamespaceBySubject: prefixes inline upload keys with the subject id.
//   - CORSAllowedOrigin: value for Access-Control-Allow-Origin.
//   - AuthRatePerMinute: per-client budget for /login and /register.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP   string
	SecretKey          string
	SessionTTL         time.Duration
	AllowedRoles       []string
	S3RootUser         string
	S3RootPassword     string
	S3Bucket           string
	S3InputsBucket     string
	S3Region           string
	S3BaseEndpoint     string
	S3UsePathStyle     bool
	PresignExpiry      time.Duration
	InlineUploads      bool
	NamespaceBySubject bool
	CORSAllowedOrigin  string
	AuthRatePerMinute  int
	LogLevel           string
}

// LoadDefaults populates Config with development defaults pointing at a
// local MinIO. The secret key must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.SecretKey = "secretKey"
	c.SessionTTL = 24 * time.Hour
	c.AllowedRoles = []string{"analyst", "coach", "scout"}
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "raw-data"
	c.S3InputsBucket = "inputs"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3UsePathStyle = true
	c.PresignExpiry = 60 * time.Second
	c.InlineUploads = true
	c.NamespaceBySubject = false
	c.CORSAllowedOrigin = "*"
	c.AuthRatePerMinute = 30
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, then from the environment (and an optional
// .env file) and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
