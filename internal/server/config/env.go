package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// envFile is read, when present, before environment variables are applied.
// Variables already set in the process environment win over the file.
var envFile = ".env"

// parseEnv loads envFile into the process environment and overlays the
// recognised variables onto config. A missing file is not an error.
func parseEnv(config *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
	applyEnv(config, os.LookupEnv)
}

// applyEnv sets config fields from non-empty variables found by lookup.
//
// Recognised variables:
//
//	RAW_DATA_BUCKET   S3 bucket for uploaded files
//	INPUT_BUCKET      S3 bucket for analysis inputs
//	S3_ROOT_USER      S3 root user
//	S3_ROOT_PASSWORD  S3 root password
//	S3_REGION         S3 region
//	S3_ENDPOINT       S3 base endpoint
//	SECRET_KEY        session token HMAC secret
//	INLINE_UPLOADS    enable inline POST /upload (true/false)
func applyEnv(config *Config, lookup func(string) (string, bool)) {
	strs := map[string]*string{
		"RAW_DATA_BUCKET":  &config.S3Bucket,
		"INPUT_BUCKET":     &config.S3InputsBucket,
		"S3_ROOT_USER":     &config.S3RootUser,
		"S3_ROOT_PASSWORD": &config.S3RootPassword,
		"S3_REGION":        &config.S3Region,
		"S3_ENDPOINT":      &config.S3BaseEndpoint,
		"SECRET_KEY":       &config.SecretKey,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("INLINE_UPLOADS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.InlineUploads = b
	}
}
