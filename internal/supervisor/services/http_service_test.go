// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// mockServer blocks in ListenAndServe until Shutdown is called.
type mockServer struct {
	startErr    error
	shutdownErr error
	stopped     chan struct{}
	shutdowns   int
}

func newMockServer() *mockServer {
	return &mockServer{stopped: make(chan struct{})}
}

func (m *mockServer) ListenAndServe() error {
	if m.startErr != nil {
		return m.startErr
	}
	<-m.stopped
	return http.ErrServerClosed
}

func (m *mockServer) Shutdown(_ context.Context) error {
	m.shutdowns++
	close(m.stopped)
	return m.shutdownErr
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	server := newMockServer()
	svc := NewHTTPService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// Let the server start, then request shutdown.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after cancellation")
	}

	if server.shutdowns != 1 {
		t.Errorf("shutdown called %d times, want 1", server.shutdowns)
	}
}

func TestHTTPServiceStartupFailure(t *testing.T) {
	server := newMockServer()
	server.startErr = errors.New("address in use")
	svc := NewHTTPService(server, time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, server.startErr) {
		t.Errorf("Serve() = %v, want wrapped startup error", err)
	}
}

func TestHTTPServiceShutdownFailure(t *testing.T) {
	server := newMockServer()
	server.shutdownErr = errors.New("hung connections")
	svc := NewHTTPService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	err := <-done
	if err == nil || !errors.Is(err, server.shutdownErr) {
		t.Errorf("Serve() = %v, want wrapped shutdown error", err)
	}
}

func TestHTTPServiceString(t *testing.T) {
	svc := NewHTTPService(newMockServer(), 0)
	if svc.String() != "http-server" {
		t.Errorf("String() = %q, want http-server", svc.String())
	}
}
