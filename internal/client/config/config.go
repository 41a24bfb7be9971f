package config

import "time"

// Config holds runtime settings for the csvdrop CLI.
//
// Fields:
//   - ServerURL: base URL of the csvdrop HTTP API.
//   - RequestTimeout: bound on each API call and on the storage PUT.
//   - Inline: send file content through the server instead of using a
//     presigned URL.
//   - OnlineCheckInterval: how often the client checks server reachability.
type Config struct {
	ServerURL           string
	RequestTimeout      time.Duration
	Inline              bool
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 30 * time.Second
	c.Inline = false
	c.OnlineCheckInterval = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
