package testutil

import (
	"context"
	"net/http"
	"sync/atomic"
)

// StubServer is a scriptable listener for server lifecycle tests.
type StubServer struct {
	AddrVal     string
	HandlerVal  http.Handler
	ListenErr   error
	ShutdownErr error
	// BlockShutdown makes Shutdown wait until its context expires.
	BlockShutdown bool

	listens   atomic.Int32
	shutdowns atomic.Int32
}

func (s *StubServer) ListenAndServe() error {
	s.listens.Add(1)
	return s.ListenErr
}

func (s *StubServer) Shutdown(ctx context.Context) error {
	s.shutdowns.Add(1)
	if s.BlockShutdown {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.ShutdownErr
}

func (s *StubServer) Addr() string {
	if s.AddrVal == "" {
		return ":0"
	}
	return s.AddrVal
}

func (s *StubServer) Handler() http.Handler {
	if s.HandlerVal == nil {
		return http.NotFoundHandler()
	}
	return s.HandlerVal
}

// ListenCalls reports how many times ListenAndServe ran.
func (s *StubServer) ListenCalls() int { return int(s.listens.Load()) }

// ShutdownCalls reports how many times Shutdown ran.
func (s *StubServer) ShutdownCalls() int { return int(s.shutdowns.Load()) }
