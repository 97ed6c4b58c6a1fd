// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeEngine struct {
	mu    sync.Mutex
	calls [][]string
	fail  map[string]error
	ran   chan struct{}
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{ran: make(chan struct{}, 16)}
}

func (e *fakeEngine) MineAll(_ context.Context, tenantIDs []string) map[string]error {
	e.mu.Lock()
	e.calls = append(e.calls, tenantIDs)
	e.mu.Unlock()
	e.ran <- struct{}{}
	return e.fail
}

func (e *fakeEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

type fakeLister struct {
	tenants []string
	err     error
}

func (l *fakeLister) ListTenants(_ context.Context) ([]string, error) {
	return l.tenants, l.err
}

func TestMiningServiceMinesOnStartup(t *testing.T) {
	engine := newFakeEngine()
	lister := &fakeLister{tenants: []string{"shop-1", "shop-2"}}

	svc := NewMiningService(engine, lister, MiningServiceConfig{
		MineOnStartup: true,
		Interval:      time.Hour,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	select {
	case <-engine.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("startup mining pass never ran")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if len(engine.calls) != 1 || len(engine.calls[0]) != 2 {
		t.Errorf("calls = %v, want one pass over two tenants", engine.calls)
	}
}

func TestMiningServicePeriodicPass(t *testing.T) {
	engine := newFakeEngine()
	lister := &fakeLister{tenants: []string{"shop-1"}}

	svc := NewMiningService(engine, lister, MiningServiceConfig{
		MineOnStartup: false,
		Interval:      20 * time.Millisecond,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// Wait for at least two scheduled ticks.
	for i := 0; i < 2; i++ {
		select {
		case <-engine.ran:
		case <-time.After(2 * time.Second):
			t.Fatalf("tick %d never fired", i+1)
		}
	}

	cancel()
	<-done

	if engine.callCount() < 2 {
		t.Errorf("call count = %d, want >= 2", engine.callCount())
	}
}

func TestMiningServiceSkipsWhenListingFails(t *testing.T) {
	engine := newFakeEngine()
	lister := &fakeLister{err: errors.New("db down")}

	svc := NewMiningService(engine, lister, MiningServiceConfig{
		MineOnStartup: true,
		Interval:      time.Hour,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// Give the startup pass a moment, then stop.
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if engine.callCount() != 0 {
		t.Errorf("engine ran %d times despite listing failure, want 0", engine.callCount())
	}
}

func TestMiningServiceSkipsWithoutTenants(t *testing.T) {
	engine := newFakeEngine()
	lister := &fakeLister{}

	svc := NewMiningService(engine, lister, MiningServiceConfig{
		MineOnStartup: true,
		Interval:      time.Hour,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if engine.callCount() != 0 {
		t.Errorf("engine ran %d times with no tenants, want 0", engine.callCount())
	}
}

func TestMiningServiceString(t *testing.T) {
	svc := NewMiningService(newFakeEngine(), &fakeLister{}, MiningServiceConfig{}, zerolog.Nop())
	if svc.String() != "mining-service" {
		t.Errorf("String() = %q, want mining-service", svc.String())
	}
}
