package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeService struct {
	name     string
	startErr error
	block    bool

	mu      sync.Mutex
	stopped bool
	stopCh  chan struct{}
}

func newFakeService(name string, block bool, startErr error) *fakeService {
	return &fakeService{name: name, block: block, startErr: startErr, stopCh: make(chan struct{})}
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if !s.block {
		return s.startErr
	}
	<-s.stopCh
	return nil
}

func (s *fakeService) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.stopped = true
		close(s.stopCh)
	}
	return nil
}

func (s *fakeService) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func TestRunnerStopsAllWhenOneFails(t *testing.T) {
	failing := newFakeService("worker", false, errors.New("redis down"))
	blocking := newFakeService("http", true, nil)
	runner := NewRunner(blocking, failing)

	var cleaned []string
	runner.OnShutdown(func() error { cleaned = append(cleaned, "queue"); return nil })
	runner.OnShutdown(func() error { cleaned = append(cleaned, "cache"); return errors.New("ignored") })

	err := runner.Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "redis down" {
		t.Fatalf("want redis down error got %v", err)
	}
	if !blocking.isStopped() || !failing.isStopped() {
		t.Fatalf("all services should be stopped")
	}
	if len(cleaned) != 2 || cleaned[0] != "cache" || cleaned[1] != "queue" {
		t.Fatalf("cleanup should run in reverse order, got %v", cleaned)
	}
}

func TestRunnerContextCancelIsCleanExit(t *testing.T) {
	blocking := newFakeService("http", true, nil)
	runner := NewRunner(blocking)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx, time.Second, nil) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("cancel should not be reported as error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("runner did not stop after cancel")
	}
	if !blocking.isStopped() {
		t.Fatalf("service should be stopped")
	}
}

func TestNormalizeOptions(t *testing.T) {
	opts := normalizeOptions(Options{Mode: " API "})
	if opts.Mode != ModeAPI || opts.ShutdownTimeout != defaultShutdownTimeout || opts.Logger == nil {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if isKnownMode("cron") {
		t.Fatalf("cron is not a run mode")
	}
	if _, err := BuildRunner(nil, ModeAll); err == nil {
		t.Fatalf("nil config should fail")
	}
}
