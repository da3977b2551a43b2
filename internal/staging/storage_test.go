package staging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveCreatesUniqueNames(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "staging"))

	first, err := store.Save(strings.NewReader("a,b,c"), "roster.csv")
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	second, err := store.Save(strings.NewReader("a,b,c"), "roster.csv")
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if first == second {
		t.Fatalf("expected unique staged paths, both were %s", first)
	}
	for _, path := range []string{first, second} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("staged file unreadable: %v", err)
		}
		if string(data) != "a,b,c" {
			t.Errorf("staged content mismatch: %q", data)
		}
		name := filepath.Base(path)
		if !strings.HasPrefix(name, "roster_") || !strings.HasSuffix(name, ".csv") {
			t.Errorf("unexpected staged name %s", name)
		}
	}
}

func TestSaveStripsDirectoryComponents(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "staging"))

	path, err := store.Save(strings.NewReader("x"), "../../etc/roster.csv")
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if filepath.Dir(path) != store.Dir() {
		t.Errorf("staged file escaped staging dir: %s", path)
	}
}

func TestDiscard(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "staging"))

	path, err := store.Save(strings.NewReader("x"), "roster.csv")
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	store.Discard(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected staged file to be removed")
	}

	store.Discard(path) // second discard is a no-op
	store.Discard("")
}
