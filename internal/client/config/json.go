package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/csvdrop/internal/flagx"
	"github.com/dmitrijs2005/csvdrop/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent
// fields keep their current values.
type JsonConfig struct {
	ServerURL      string          `json:"server_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	Inline         *bool           `json:"inline"`

	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
}

// parseJson overlays Config with values from the file named by -c/-config
// or $CONFIG. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.JSONConfigPath()
	if path == "" {
		return
	}
	loadJSONFile(cfg, path)
}

func loadJSONFile(cfg *Config, path string) {
	var jc JsonConfig

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.Inline != nil {
		cfg.Inline = *jc.Inline
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}
