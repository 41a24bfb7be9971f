package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/csvdrop/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the server
//	-t int      request timeout in seconds
//	-inline     upload through the server
//	-i int      online check interval in seconds
func parseFlags(cfg *Config) {
	parseArgs(cfg, os.Args[1:])
}

func parseArgs(cfg *Config, osArgs []string) {
	args := flagx.FilterArgs(osArgs, []string{"-a", "-t", "-inline", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the csvdrop server")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.BoolVar(&cfg.Inline, "inline", cfg.Inline, "send file content through the server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
}
