package output

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"docugen/domain/docs"
)

func TestReservePathCollisions(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	name, path := store.ReservePath("John_Doe_Tech_Corp", docs.KindPDF)
	if name != "John_Doe_Tech_Corp.pdf" {
		t.Errorf("Expected first choice name, got %s", name)
	}
	if err := os.WriteFile(path, []byte("first"), 0644); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	name2, path2 := store.ReservePath("John_Doe_Tech_Corp", docs.KindPDF)
	if name2 != "John_Doe_Tech_Corp_2.pdf" {
		t.Errorf("Expected _2 suffix, got %s", name2)
	}
	if err := os.WriteFile(path2, []byte("second"), 0644); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	name3, _ := store.ReservePath("John_Doe_Tech_Corp", docs.KindPDF)
	if name3 != "John_Doe_Tech_Corp_3.pdf" {
		t.Errorf("Expected _3 suffix, got %s", name3)
	}

	// Different kind shares the base without colliding
	wordName, _ := store.ReservePath("John_Doe_Tech_Corp", docs.KindWord)
	if wordName != "John_Doe_Tech_Corp.docx" {
		t.Errorf("Expected docx base name untouched, got %s", wordName)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ok.pdf"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	if _, err := store.Resolve("ok.pdf"); err != nil {
		t.Errorf("Expected resolve to succeed: %v", err)
	}

	bad := []string{"", "../secrets.txt", "a/b.pdf", `a\b.pdf`, "..", "nope.pdf"}
	for _, name := range bad {
		if _, err := store.Resolve(name); err == nil {
			t.Errorf("Expected rejection for %q", name)
		}
	}
}

func TestListFiltersKinds(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for name, content := range map[string]string{
		"b.pdf":     "pdf",
		"a.docx":    "docx",
		"notes.txt": "skip me",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	files, err := store.List()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(files))
	}
	if files[0].Name != "a.docx" || files[0].Kind != docs.KindWord {
		t.Errorf("Unexpected first entry %+v", files[0])
	}
	if files[1].Name != "b.pdf" || files[1].Kind != docs.KindPDF {
		t.Errorf("Unexpected second entry %+v", files[1])
	}
}

func TestWriteArchive(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	paths := map[string]string{
		"Jane_Smith_Innovate_Inc.pdf":  "pdf bytes",
		"Jane_Smith_Innovate_Inc.docx": "docx bytes",
	}
	var files []docs.GeneratedFile
	for name, content := range paths {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
		files = append(files, docs.GeneratedFile{Name: name, Path: p})
	}

	var buf bytes.Buffer
	if err := store.WriteArchive(&buf, files); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Archive not readable: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(zr.File))
	}
	for _, entry := range zr.File {
		expected, ok := paths[entry.Name]
		if !ok {
			t.Errorf("Unexpected archive entry %s", entry.Name)
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			t.Fatalf("Failed to open entry: %v", err)
		}
		content := make([]byte, len(expected))
		if _, err := rc.Read(content); err != nil && err.Error() != "EOF" {
			t.Fatalf("Failed to read entry: %v", err)
		}
		rc.Close()
		if string(content) != expected {
			t.Errorf("Entry %s content = %q, expected %q", entry.Name, content, expected)
		}
	}
}

func TestNewStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	if _, err := NewStore(dir); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("Expected directory created, err=%v", err)
	}

	if _, err := NewStore(""); err == nil {
		t.Error("Expected error for empty directory")
	}
}
