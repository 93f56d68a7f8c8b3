// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"syscall"
	"testing"
	"time"
)

func TestScriptPatterns(t *testing.T) {
	t.Parallel()

	got := ScriptPatterns(".js", ".meta")
	want := []string{"**/*.js", "**/*.js.meta"}
	if !slices.Equal(got, want) {
		t.Errorf("ScriptPatterns() = %v, want %v", got, want)
	}
}

func TestWatcherFiltering(t *testing.T) {
	t.Parallel()

	w := &Watcher{
		cfg:     Config{Patterns: ScriptPatterns(".js", ".meta")},
		ignores: slices.Concat(defaultIgnores, []string{"Generated/**"}),
	}

	tests := []struct {
		rel     string
		ignored bool
		matches bool
	}{
		{"Player.js", false, true},
		{"Editor/Tool.js.meta", false, true},
		{"Scripts/Player.cs", false, false},
		{".git/objects/ab.js", true, true},
		{"Samples~/Demo.js", true, true},
		{"Generated/Auto.js", true, true},
		{"Player.js.swp", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			t.Parallel()
			if got := w.isIgnored(tt.rel); got != tt.ignored {
				t.Errorf("isIgnored(%q) = %v, want %v", tt.rel, got, tt.ignored)
			}
			if got := w.matchesPatterns(tt.rel); got != tt.matches {
				t.Errorf("matchesPatterns(%q) = %v, want %v", tt.rel, got, tt.matches)
			}
		})
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no root", Config{}},
		{"missing root", Config{Root: filepath.Join(dir, "missing")}},
		{"bad pattern", Config{Root: dir, Patterns: []string{"[unclosed"}}},
		{"bad ignore", Config{Root: dir, Ignore: []string{"{a,b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tt.cfg); err == nil {
				t.Fatal("New() error = nil, want error")
			}
		})
	}
}

func TestRunTwice(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Wait until the first Run has claimed the watcher.
	for !w.started.Load() {
		time.Sleep(time.Millisecond)
	}
	if err := w.Run(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() error = %v, want ErrAlreadyRunning", err)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v, want nil after cancel", err)
	}
}

func TestRunDebouncesChanges(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "Editor"), 0o755); err != nil {
		t.Fatal(err)
	}

	var (
		mu      sync.Mutex
		batches [][]string
	)
	fired := make(chan struct{}, 8)

	w, err := New(Config{
		Root:     root,
		Patterns: ScriptPatterns(".js", ".meta"),
		Debounce: 100 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			batches = append(batches, changed)
			mu.Unlock()
			select {
			case fired <- struct{}{}:
			default:
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for _, rel := range []string{"A.js", "A.js.meta", "Editor/B.js", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(root, rel), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"A.js", "A.js.meta", "Editor/B.js"}
	seen := func() []string {
		mu.Lock()
		defer mu.Unlock()
		var all []string
		for _, b := range batches {
			all = append(all, b...)
		}
		return all
	}

	deadline := time.After(5 * time.Second)
	for {
		all := seen()
		if !slices.ContainsFunc(want, func(p string) bool { return !slices.Contains(all, p) }) {
			break
		}
		select {
		case <-fired:
		case <-deadline:
			t.Fatalf("changed paths %v, want all of %v", all, want)
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	all := seen()
	if slices.Contains(all, "notes.txt") {
		t.Errorf("changed paths %v include unmatched notes.txt", all)
	}
}

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	if isFatalFsnotifyError(errors.New("transient")) {
		t.Error("plain error classified as fatal")
	}
	if isFatalFsnotifyError(syscall.EINTR) {
		t.Error("EINTR classified as fatal")
	}
	if isFatalFsnotifyError(nil) {
		t.Error("nil classified as fatal")
	}

	fatal := []error{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE}
	if runtime.GOOS == "windows" {
		fatal = []error{errnoTooManyOpenFiles, errnoInvalidHandle, errnoNotEnoughMemory}
	}
	for _, err := range fatal {
		wrapped := fmt.Errorf("inotify: %w", err)
		if !isFatalFsnotifyError(wrapped) {
			t.Errorf("isFatalFsnotifyError(%v) = false, want true", wrapped)
		}
	}
}
