package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/csvdrop/internal/client/client"
	"github.com/dmitrijs2005/csvdrop/internal/client/config"
	"github.com/dmitrijs2005/csvdrop/internal/client/form"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

// apiClient is the part of client.HTTPClient the commands use.
type apiClient interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, userName, password, role string) (*client.Session, error)
	Login(ctx context.Context, userName, password string) (*client.Session, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*client.Profile, error)
	UpdateProfile(ctx context.Context, userName, role string) (*client.Profile, error)
	SaveInputs(ctx context.Context, in client.Inputs) (*client.StoredInputs, error)
	Token() string
}

type App struct {
	config *config.Config
	api    apiClient
	form   *form.Form
	reader *bufio.Reader
	out    io.Writer

	mu       sync.Mutex
	mode     Mode
	userName string
}

func NewApp(c *config.Config) *App {
	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, c.Inline)
	return newApp(c, api, form.New(api), os.Stdin, os.Stdout)
}

func newApp(c *config.Config, api apiClient, f *form.Form, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		api:    api,
		form:   f,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	printlnFn("Welcome to csvdrop (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.api.Token() != ""
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		printlnFn("Server is " + string(mode))
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return strings.TrimSpace(a.userName + " " + string(a.mode))
}
