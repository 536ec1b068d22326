package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrNoModelInArchive   = errors.New("no model found in archive")
	ErrUnsupportedArchive = errors.New("no archive opener registered")
)

type ArchiveEntry struct {
	// Slash separated path from the archive root, e.g. "scene/model.bmd".
	Path  string
	Name  string
	IsDir bool
	Size  int64
}

// ArchiveReader lists and reads the files of an archive. Paths are slash
// separated and relative to Root.
type ArchiveReader interface {
	Root() string
	ListFiles(dir string) ([]ArchiveEntry, error)
	ReadFile(path string) ([]byte, error)
}

// ArchiveOpener turns a file on disk into an ArchiveReader.
type ArchiveOpener func(path string) (ArchiveReader, error)

var (
	openersMutex sync.RWMutex
	openers      = map[string]ArchiveOpener{}
)

// RegisterArchiveOpener installs the opener used for files with the given
// extension (".arc", ".szs", ...). A later registration replaces an earlier one.
func RegisterArchiveOpener(ext string, opener ArchiveOpener) {
	openersMutex.Lock()
	defer openersMutex.Unlock()
	openers[strings.ToLower(ext)] = opener
}

// OpenArchive opens a directory as a DirArchive or a file through the
// opener registered for its extension.
func OpenArchive(p string) (ArchiveReader, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return NewDirArchive(p), nil
	}

	ext := strings.ToLower(filepath.Ext(p))
	openersMutex.RLock()
	opener, ok := openers[ext]
	openersMutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedArchive, p)
	}
	return opener(p)
}

// FindModel walks the archive depth-first in listing order and returns the
// first .bmd or .bdl file.
func FindModel(reader ArchiveReader) (ArchiveEntry, error) {
	entry, ok, err := findModel(reader, reader.Root())
	if err != nil {
		return ArchiveEntry{}, err
	}
	if !ok {
		return ArchiveEntry{}, ErrNoModelInArchive
	}
	return entry, nil
}

func findModel(reader ArchiveReader, dir string) (ArchiveEntry, bool, error) {
	entries, err := reader.ListFiles(dir)
	if err != nil {
		return ArchiveEntry{}, false, err
	}
	for _, e := range entries {
		if e.IsDir {
			if found, ok, err := findModel(reader, e.Path); err != nil || ok {
				return found, ok, err
			}
			continue
		}
		if Classify(e.Name) == SourceModel {
			return e, true, nil
		}
	}
	return ArchiveEntry{}, false, nil
}

// DirArchive reads an archive that was already extracted to a directory.
type DirArchive struct {
	fsys fs.FS
	dir  string
}

var _ ArchiveReader = (*DirArchive)(nil)

func NewDirArchive(dir string) *DirArchive {
	return &DirArchive{fsys: os.DirFS(dir), dir: dir}
}

func (a *DirArchive) Root() string {
	return "."
}

func (a *DirArchive) ListFiles(dir string) ([]ArchiveEntry, error) {
	dirEntries, err := fs.ReadDir(a.fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("list %s in %s: %w", dir, a.dir, err)
	}
	entries := make([]ArchiveEntry, 0, len(dirEntries))
	for _, d := range dirEntries {
		entry := ArchiveEntry{
			Path:  path.Join(dir, d.Name()),
			Name:  d.Name(),
			IsDir: d.IsDir(),
		}
		if info, err := d.Info(); err == nil && !d.IsDir() {
			entry.Size = info.Size()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (a *DirArchive) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(a.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s in %s: %w", name, a.dir, err)
	}
	return data, nil
}
