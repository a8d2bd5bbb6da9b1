package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestRunOnce(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32

	s := New(0, func(ctx context.Context) error {
		calls.Add(1)
		return boom
	}, nil)

	if err := s.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected job error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
}

func TestRunScheduled(t *testing.T) {
	t.Run("keeps running after failures", func(t *testing.T) {
		var calls atomic.Int32
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s := New(10*time.Millisecond, func(ctx context.Context) error {
			calls.Add(1)
			return errors.New("server down")
		}, nil)

		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		waitFor(t, func() bool { return calls.Load() >= 3 })
		cancel()

		if err := <-done; err != nil {
			t.Errorf("expected nil on cancel, got %v", err)
		}
	})

	t.Run("runs immediately", func(t *testing.T) {
		started := make(chan struct{}, 1)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s := New(time.Hour, func(ctx context.Context) error {
			started <- struct{}{}
			return nil
		}, nil)
		go s.Run(ctx)

		select {
		case <-started:
		case <-time.After(5 * time.Second):
			t.Fatal("job did not run at startup")
		}
	})
}

func TestTriggerCoalesces(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(time.Hour, func(ctx context.Context) error {
		if calls.Add(1) == 1 {
			<-release
		}
		return nil
	}, nil)
	go s.Run(ctx)

	waitFor(t, func() bool { return calls.Load() == 1 })
	s.Trigger()
	s.Trigger()
	s.Trigger()
	close(release)

	waitFor(t, func() bool { return calls.Load() == 2 })
	time.Sleep(50 * time.Millisecond)
	if calls.Load() != 2 {
		t.Errorf("expected triggers to coalesce into one run, got %d runs", calls.Load())
	}
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albums.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(time.Hour, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, nil)
	s.debounce = 20 * time.Millisecond

	if err := s.Watch(ctx, path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	go s.Run(ctx)
	waitFor(t, func() bool { return calls.Load() == 1 })

	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "other.json"), []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if err := os.WriteFile(path, []byte(`[{"name":"A","query":{}}]`), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	waitFor(t, func() bool { return calls.Load() >= 2 })
}

func TestWatchMissingDirectory(t *testing.T) {
	s := New(time.Hour, func(ctx context.Context) error { return nil }, nil)
	if err := s.Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "albums.json")); err == nil {
		t.Error("expected error watching a missing directory")
	}
}
