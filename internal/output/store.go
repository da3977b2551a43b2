package output

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"docugen/domain/docs"
	"docugen/internal/errors"
)

// Store manages the output directory generated documents are written to
type Store struct {
	dir string
}

// NewStore creates the output directory if needed and returns a store for it
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.InvalidInput("output directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", dir)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the managed directory
func (s *Store) Dir() string {
	return s.dir
}

// ReservePath maps a deterministic base name to a free file path. When the
// first-choice name is taken on disk, numeric suffixes (_2, _3, ...) probe
// for a free slot so earlier batches are never overwritten.
func (s *Store) ReservePath(base string, kind docs.Kind) (string, string) {
	name := base + kind.Ext()
	path := filepath.Join(s.dir, name)
	if !exists(path) {
		return name, path
	}

	for i := 2; ; i++ {
		name = fmt.Sprintf("%s_%d%s", base, i, kind.Ext())
		path = filepath.Join(s.dir, name)
		if !exists(path) {
			return name, path
		}
	}
}

// Describe stats a written document and returns its record
func (s *Store) Describe(name, path string, kind docs.Kind) (docs.GeneratedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return docs.GeneratedFile{}, errors.Wrapf(err, "failed to stat generated file %s", name)
	}
	return docs.GeneratedFile{
		Name: name,
		Path: path,
		Kind: kind,
		Size: info.Size(),
	}, nil
}

// Resolve maps a download name back to a path inside the output directory.
// Names carrying separators or traversal segments are rejected.
func (s *Store) Resolve(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", errors.InvalidInput("invalid document name")
	}
	path := filepath.Join(s.dir, name)
	if !exists(path) {
		return "", errors.NotFound(fmt.Sprintf("document %s", name))
	}
	return path, nil
}

// List returns the documents currently in the output directory, sorted by name
func (s *Store) List() ([]docs.GeneratedFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read output directory %s", s.dir)
	}

	var files []docs.GeneratedFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		var kind docs.Kind
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pdf":
			kind = docs.KindPDF
		case ".docx":
			kind = docs.KindWord
		default:
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, docs.GeneratedFile{
			Name: entry.Name(),
			Path: filepath.Join(s.dir, entry.Name()),
			Kind: kind,
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// WriteArchive streams the given documents as a zip archive
func (s *Store) WriteArchive(w io.Writer, files []docs.GeneratedFile) error {
	zw := zip.NewWriter(w)
	for _, file := range files {
		src, err := os.Open(file.Path)
		if err != nil {
			zw.Close()
			return errors.Wrapf(err, "failed to open %s for archiving", file.Name)
		}
		entry, err := zw.Create(file.Name)
		if err != nil {
			src.Close()
			zw.Close()
			return errors.Wrapf(err, "failed to add %s to archive", file.Name)
		}
		if _, err := io.Copy(entry, src); err != nil {
			src.Close()
			zw.Close()
			return errors.Wrapf(err, "failed to write %s into archive", file.Name)
		}
		src.Close()
	}
	return zw.Close()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
