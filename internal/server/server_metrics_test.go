package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/preston-bernstein/club-rank-service/internal/config"
	"github.com/preston-bernstein/club-rank-service/internal/metrics"
)

func TestBuildMetricsHandlesSetupFailure(t *testing.T) {
	origSetup := metricsSetup
	defer func() { metricsSetup = origSetup }()

	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return nil, nil, nil, errors.New("fail")
	}

	rec, srv, stop := buildMetrics(config.Config{Metrics: config.MetricsConfig{Enabled: true}}, nil, nil)
	if rec == nil {
		t.Fatalf("expected fallback metrics recorder even on setup failure")
	}
	if srv != nil || stop != nil {
		t.Fatalf("expected no metrics server after setup failure")
	}
}

func TestBuildMetricsDisabledSkipsServer(t *testing.T) {
	rec, srv, stop := buildMetrics(config.Config{Metrics: config.MetricsConfig{Enabled: false}}, nil, nil)
	if rec == nil || stop == nil {
		t.Fatalf("expected recorder and no-op shutdown when metrics disabled")
	}
	if srv != nil {
		t.Fatalf("expected no metrics server when disabled")
	}
}

func TestBuildMetricsUsesInjectedRecorder(t *testing.T) {
	rec := metrics.NewRecorder()

	got, srv, stop := buildMetrics(config.Config{Metrics: config.MetricsConfig{Enabled: true}}, nil, rec)
	if got != rec || srv != nil || stop != nil {
		t.Fatalf("expected injected recorder to be used as-is")
	}
}

func TestBuildMetricsSuccessPathSetsServerAndShutdown(t *testing.T) {
	orig := metricsSetup
	defer func() { metricsSetup = orig }()
	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return metrics.NewRecorder(), http.NewServeMux(), func(context.Context) error { return nil }, nil
	}

	rec, srv, stop := buildMetrics(config.Config{
		Metrics: config.MetricsConfig{
			Enabled: true,
			Port:    "9999",
		},
	}, nil, nil)

	if rec == nil || srv == nil || stop == nil {
		t.Fatalf("expected recorder, server, and shutdown to be set on success")
	}
	if srv.Addr() != ":9999" {
		t.Fatalf("expected metrics addr :9999, got %s", srv.Addr())
	}
}

func TestNewStopsMetricsWhenStoreFails(t *testing.T) {
	orig := metricsSetup
	defer func() { metricsSetup = orig }()
	stopped := false
	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return metrics.NewRecorder(), http.NewServeMux(), func(context.Context) error { stopped = true; return nil }, nil
	}

	cfg := memoryConfig()
	cfg.Metrics.Enabled = true
	cfg.Store.Backend = "unknown"
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected store error")
	}
	if !stopped {
		t.Fatalf("expected metrics provider to be shut down")
	}
}
