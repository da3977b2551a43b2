package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestWatcherInvokesHandlerForSettledRoster(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 4)

	w, err := NewRosterWatcher(dir, func(ctx context.Context, path string) {
		handled <- path
	})
	if err != nil {
		t.Fatalf("NewRosterWatcher returned error: %v", err)
	}
	w.debounceDur = 50 * time.Millisecond

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer w.Stop()

	rosterPath := filepath.Join(dir, "drop.csv")
	content := "Name,Email,Company Name,Position,Joining Date\nJohn Doe,j@example.com,Tech Corp,Engineer,2024-01-15\n"
	if err := os.WriteFile(rosterPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write roster: %v", err)
	}

	select {
	case got := <-handled:
		if got != rosterPath {
			t.Errorf("expected handler for %s, got %s", rosterPath, got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not invoked for settled roster")
	}

	if w.Processed() != 1 {
		t.Errorf("expected 1 processed roster, got %d", w.Processed())
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 4)

	w, err := NewRosterWatcher(dir, func(ctx context.Context, path string) {
		handled <- path
	})
	if err != nil {
		t.Fatalf("NewRosterWatcher returned error: %v", err)
	}
	w.debounceDur = 50 * time.Millisecond

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	select {
	case got := <-handled:
		t.Fatalf("handler should not run for %s", got)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherDebouncesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 16)

	w, err := NewRosterWatcher(dir, func(ctx context.Context, path string) {
		handled <- path
	})
	if err != nil {
		t.Fatalf("NewRosterWatcher returned error: %v", err)
	}
	w.debounceDur = 200 * time.Millisecond

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer w.Stop()

	rosterPath := filepath.Join(dir, "drop.xlsx")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(rosterPath, []byte{byte(i)}, 0o644); err != nil {
			t.Fatalf("failed to write roster: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-handled:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not invoked")
	}

	select {
	case got := <-handled:
		t.Fatalf("rapid writes should collapse to one invocation, got second for %s", got)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherStopCleansUp(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	w, err := NewRosterWatcher(dir, func(ctx context.Context, path string) {})
	if err != nil {
		t.Fatalf("NewRosterWatcher returned error: %v", err)
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	w.Stop()
	w.Stop() // second stop is a no-op
}
