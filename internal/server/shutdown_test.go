package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"sellers-dashboard/internal/config"
)

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: 2 * time.Second,
	}
}

func TestGracefulServer_RunsHooksOnCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	httpServer := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	gs := NewGracefulServer(httpServer, logger, testServerConfig())

	var calls atomic.Int32
	gs.RegisterShutdownHook("first", func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	gs.RegisterShutdownHook("second", func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 hook calls, got %d", got)
	}
}

func TestGracefulServer_HookError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	httpServer := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	gs := NewGracefulServer(httpServer, logger, testServerConfig())

	hookErr := errors.New("flush failed")
	gs.RegisterShutdownHook("cache", func(ctx context.Context) error {
		return hookErr
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := gs.Run(ctx)
	if !errors.Is(err, hookErr) {
		t.Errorf("expected hook error, got %v", err)
	}
}

func TestGracefulServer_ListenFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	httpServer := &http.Server{Addr: "invalid-address", Handler: http.NotFoundHandler()}
	gs := NewGracefulServer(httpServer, logger, testServerConfig())

	err := gs.Run(context.Background())
	if err == nil {
		t.Fatal("expected listen error")
	}
}
