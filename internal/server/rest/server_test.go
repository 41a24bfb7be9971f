package rest

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/csvdrop/internal/logging"
)

func TestHTTPServerServesUntilCancelled(t *testing.T) {
	listen, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	s := NewHTTPServer(listen.Addr().String(), h, logging.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, listen) }()

	resp, err := http.Get("http://" + listen.Addr().String() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHTTPServerRunListenError(t *testing.T) {
	s := NewHTTPServer("256.0.0.1:bad", http.NotFoundHandler(), logging.NewNopLogger())
	assert.Error(t, s.Run(context.Background()))
}
