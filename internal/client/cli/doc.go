// Package cli provides the interactive csvdrop command-line client.
//
// It wires configuration, the HTTP API client and the upload form into a
// REPL. A background watcher pings the server and reports when it goes
// offline or comes back.
//
// Commands: register, login, logout, profile, update, upload, inputs,
// status, help, exit.
package cli
