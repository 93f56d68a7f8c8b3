// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestContentCache_StaleOnModTimeChange(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "A.js")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	cache, err := NewContentCache(0)
	if err != nil {
		t.Fatalf("NewContentCache() error: %v", err)
	}
	cache.Put(path, info, "abc")

	if got, ok := cache.Get(path, info); !ok || got != "abc" {
		t.Fatalf("Get() = %q, %v; want cached contents", got, ok)
	}

	later := info.ModTime().Add(time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	touched, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.Get(path, touched); ok {
		t.Error("Get() returned an entry for a file with a newer modification time")
	}
	if cache.Len() != 0 {
		t.Errorf("stale entry was not evicted, Len() = %d", cache.Len())
	}
}
