// Package config loads runtime configuration for the csvdrop CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c/-config or $CONFIG.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "30s",
//	  "inline": false,
//	  "online_check_interval": "10s"
//	}
package config
