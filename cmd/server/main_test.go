package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// lockedBuffer guards log output written from the listener goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Smoke test to ensure main honors SKIP_SERVER_RUN and does not block test runs.
func TestMainSkipsWhenEnvSet(t *testing.T) {
	t.Setenv("SKIP_SERVER_RUN", "1")
	main()
}

func TestRunFailsOnMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	var out, errOut bytes.Buffer

	if code := run(context.Background(), nil, &out, &errOut); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.HasPrefix(errOut.String(), "config:") {
		t.Fatalf("expected config error on stderr, got %q", errOut.String())
	}
}

func TestRunFailsOnUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("METRICS_ENABLED", "false")
	var out, errOut bytes.Buffer

	if code := run(context.Background(), nil, &out, &errOut); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out.String(), "server startup failed") {
		t.Fatalf("expected startup failure log, got %q", out.String())
	}
}

func TestRunServesUntilCancelled(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:0")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "1s")
	var out, errOut lockedBuffer

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if code := run(ctx, cancel, &out, &errOut); code != 0 {
		t.Fatalf("expected clean exit, got %d: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "shutdown complete") {
		t.Fatalf("expected shutdown log, got %q", out.String())
	}
}
