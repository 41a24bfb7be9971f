package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "both short and long present, preserve order",
			args:         []string{"--config=first.json", "-c", "second.json", "-x", "1"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=first.json", "-c", "second.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-c"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c"},
		},
		{
			name:         "flag followed by another flag (no value)",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c"},
		},
		{
			name:         "value that looks like a flag but with equals form",
			args:         []string{"--config=--weird.json"},
			allowedFlags: []string{"--config"},
			want:         []string{"--config=--weird.json"},
		},
		{
			name:         "multiple allowed flags kept",
			args:         []string{"-a", ":8080", "-c", "csvdrop.json", "--other", "x"},
			allowedFlags: []string{"-c", "-a"},
			want:         []string{"-a", ":8080", "-c", "csvdrop.json"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "path with spaces remains single arg",
			args:         []string{"-c", "/home/user/conf.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "/home/user/conf.json"},
		},
		{
			name:         "do not treat next dash-starting token as value",
			args:         []string{"-c", "--config=alt.json"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "--config=alt.json"},
		},
		{
			name:         "repeated allowed flag is preserved in order",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestJSONConfigPath(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		t.Setenv(ConfigEnvName, "")
		os.Args = []string{"csvdrop", "-c", "/etc/csvdrop/short.json"}
		assert.Equal(t, "/etc/csvdrop/short.json", JSONConfigPath())
	})

	t.Run("long -config with value", func(t *testing.T) {
		t.Setenv(ConfigEnvName, "")
		os.Args = []string{"csvdrop", "-config", "/etc/csvdrop/long.json"}
		assert.Equal(t, "/etc/csvdrop/long.json", JSONConfigPath())
	})

	t.Run("flag beats environment", func(t *testing.T) {
		t.Setenv(ConfigEnvName, "/env.json")
		os.Args = []string{"csvdrop", "-c", "/flag.json"}
		assert.Equal(t, "/flag.json", JSONConfigPath())
	})

	t.Run("environment used when no flag", func(t *testing.T) {
		t.Setenv(ConfigEnvName, "/env.json")
		os.Args = []string{"csvdrop", "-a", ":8080"}
		assert.Equal(t, "/env.json", JSONConfigPath())
	})

	t.Run("nothing set", func(t *testing.T) {
		t.Setenv(ConfigEnvName, "")
		os.Args = []string{"csvdrop", "-x", "1"}
		assert.Empty(t, JSONConfigPath())
	})
}
