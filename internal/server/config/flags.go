package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/csvdrop/internal/flagx"
)

var knownFlags = []string{
	"-a", "-s", "-t", "-roles", "-u", "-p", "-b", "-ib", "-g", "-e",
	"-path-style", "-x", "-inline", "-ns", "-o", "-rl", "-l",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string        HTTP bind address (e.g. ":8080")
//	-s string        session token HMAC secret
//	-t int           session TTL, minutes
//	-roles string    comma separated list of allowed roles
//	-u string        S3 root user
//	-p string        S3 root password
//	-b string        S3 bucket for uploaded files
//	-ib string       S3 bucket for analysis inputs
//	-g string        S3 region
//	-e string        S3 base endpoint (e.g. "http://127.0.0.1:9000/")
//	-path-style bool use path-style S3 addressing
//	-x int           presigned URL expiry, seconds
//	-inline bool     enable inline POST /upload
//	-ns bool         namespace inline keys by subject id
//	-o string        CORS allowed origin
//	-rl int          login/register requests per minute per client
//	-l string        log level
//
// Boolean flags must be given as -flag or -flag=false. Durations are given
// as integers and converted; when -t or -x is absent the current value is
// kept as is.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session TTL (in minutes)")
	roles := fs.String("roles", strings.Join(config.AllowedRoles, ","), "allowed roles, comma separated")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket for uploads")
	fs.StringVar(&config.S3InputsBucket, "ib", config.S3InputsBucket, "S3 bucket for analysis inputs")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.BoolVar(&config.S3UsePathStyle, "path-style", config.S3UsePathStyle, "use path-style S3 addressing")

	presignExpiry := fs.Int("x", int(config.PresignExpiry.Seconds()), "presigned URL expiry (in seconds)")
	fs.BoolVar(&config.InlineUploads, "inline", config.InlineUploads, "enable inline uploads")
	fs.BoolVar(&config.NamespaceBySubject, "ns", config.NamespaceBySubject, "namespace inline upload keys by subject id")

	fs.StringVar(&config.CORSAllowedOrigin, "o", config.CORSAllowedOrigin, "CORS allowed origin")
	fs.IntVar(&config.AuthRatePerMinute, "rl", config.AuthRatePerMinute, "auth requests per minute per client")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only flags present on the command line replace durations and roles.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
		case "x":
			config.PresignExpiry = time.Duration(*presignExpiry) * time.Second
		case "roles":
			config.AllowedRoles = splitRoles(*roles)
		}
	})
}

func splitRoles(s string) []string {
	roles := make([]string, 0)
	for _, r := range strings.Split(s, ",") {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
