// Package client talks to the csvdrop HTTP API: account calls, upload URL
// requests and inline uploads. It holds the current session token.
package client
