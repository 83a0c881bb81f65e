package release

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestWatcherRequiresPaths(t *testing.T) {
	w := NewWatcher(zerolog.Nop(), time.Millisecond)

	err := w.Watch(context.Background(), nil, func(context.Context) {})
	if err == nil {
		t.Fatal("expected an error for an empty path list")
	}
}

func TestWatcherTriggersOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(path, []byte("django\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	triggered := make(chan struct{}, 1)
	w := NewWatcher(zerolog.Nop(), 10*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, []string{path}, func(context.Context) {
			select {
			case triggered <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte("django\nwhitenoise\n"), 0644); err != nil {
		t.Fatalf("failed to modify file: %v", err)
	}

	select {
	case <-triggered:
	case <-ctx.Done():
		t.Fatal("expected a trigger after the file changed")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWatcherIgnoresUnwatchedFiles(t *testing.T) {
	dir := t.TempDir()
	watchedPath := filepath.Join(dir, "requirements.txt")
	otherPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(watchedPath, []byte("django\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	triggered := make(chan struct{}, 1)
	w := NewWatcher(zerolog.Nop(), 10*time.Millisecond)

	go func() {
		_ = w.Watch(ctx, []string{watchedPath}, func(context.Context) {
			select {
			case triggered <- struct{}{}:
			default:
			}
		})
	}()

	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(otherPath, []byte("x\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	select {
	case <-triggered:
		t.Error("unexpected trigger for an unwatched file")
	case <-time.After(500 * time.Millisecond):
	}
}
