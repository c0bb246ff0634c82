package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"
)

func TestHandleHealthReturnsOK(t *testing.T) {
	cfg := DefaultConfig()
	srv := New(cfg, quartz.NewMock(t), log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.handleHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWaitForHealthySucceedsOnce200(t *testing.T) {
	cfg := DefaultConfig()
	srv := New(cfg, quartz.NewMock(t), log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}))

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.handleWebSocket)
	mux.HandleFunc("/health", srv.handleHealth)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, WaitForHealthy(ctx, ts.URL))
}

func TestWaitForHealthyTimesOutAgainstDeadServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	err := WaitForHealthy(ctx, "http://127.0.0.1:1")
	require.Error(t, err)
}
