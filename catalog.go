package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Entry is one viewable image in a catalog
type Entry struct {
	Path   string      // Absolute path
	Name   string      // File stem, used for display
	Format ImageFormat // Always a supported format inside a Catalog
}

// FileName returns the base name the catalog is ordered by
func (e Entry) FileName() string {
	return filepath.Base(e.Path)
}

func newEntry(path string, format ImageFormat) Entry {
	base := filepath.Base(path)
	return Entry{
		Path:   path,
		Name:   strings.TrimSuffix(base, filepath.Ext(base)),
		Format: format,
	}
}

// Catalog is the ordered list of supported images in one directory.
// It is the only navigation index; it is rebuilt, never patched in place.
type Catalog struct {
	Dir     string
	Entries []Entry
}

// Len returns the number of entries
func (c Catalog) Len() int {
	return len(c.Entries)
}

// At returns the entry at index i if it exists
func (c Catalog) At(i int) (Entry, bool) {
	if i < 0 || i >= len(c.Entries) {
		return Entry{}, false
	}
	return c.Entries[i], true
}

// Next returns the index after i, or false at the last entry. There is no wraparound.
func (c Catalog) Next(i int) (int, bool) {
	if i < 0 || i+1 >= len(c.Entries) {
		return i, false
	}
	return i + 1, true
}

// Prev returns the index before i, or false at the first entry
func (c Catalog) Prev(i int) (int, bool) {
	if i <= 0 || i >= len(c.Entries) {
		return i, false
	}
	return i - 1, true
}

// IndexOf locates path in the catalog
func (c Catalog) IndexOf(path string) (int, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return -1, false
	}
	for i, e := range c.Entries {
		if e.Path == abs {
			return i, true
		}
	}
	return -1, false
}

// Without returns a new catalog lacking path, and the index path had
func (c Catalog) Without(path string) (Catalog, int, bool) {
	idx, ok := c.IndexOf(path)
	if !ok {
		return c, -1, false
	}
	entries := make([]Entry, 0, len(c.Entries)-1)
	entries = append(entries, c.Entries[:idx]...)
	entries = append(entries, c.Entries[idx+1:]...)
	return Catalog{Dir: c.Dir, Entries: entries}, idx, true
}

// Paths returns the entry paths in catalog order
func (c Catalog) Paths() []string {
	paths := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		paths[i] = e.Path
	}
	return paths
}

// FocusAfterRemoval picks the index to show after removing index removed from
// a catalog of size entries: the successor, else the predecessor, else -1.
func FocusAfterRemoval(removed, size int) int {
	remaining := size - 1
	if remaining <= 0 {
		return -1
	}
	if removed < remaining {
		return removed
	}
	return remaining - 1
}

// CatalogOptions controls how a directory is scanned
type CatalogOptions struct {
	Classifier *Classifier
	SortMethod string
	Ignore     []glob.Glob
}

// CompileIgnorePatterns compiles file name globs such as ".*" or "*~"
func CompileIgnorePatterns(patterns []string) ([]glob.Glob, error) {
	var globs []glob.Glob
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %v", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func (o CatalogOptions) ignored(name string) bool {
	for _, g := range o.Ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// BuildCatalog scans the directory containing seedPath and returns its
// supported images in order. If seedPath is itself a directory, that
// directory is scanned. Files that cannot be classified are skipped;
// only a directory that cannot be read is an error.
func BuildCatalog(seedPath string, opts CatalogOptions) (Catalog, error) {
	abs, err := filepath.Abs(seedPath)
	if err != nil {
		return Catalog{}, &FileError{Op: "scan", Path: seedPath, Kind: ErrIO, Err: err}
	}

	dir := filepath.Dir(abs)
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		dir = abs
	}

	classifier := opts.Classifier
	if classifier == nil {
		classifier = NewClassifier(0)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return Catalog{}, newFileError("scan", dir, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue // Not recursive
		}
		if opts.ignored(de.Name()) {
			continue
		}

		fullPath := filepath.Join(dir, de.Name())
		class, format, err := classifier.Classify(fullPath)
		if err != nil {
			debugLog("Skipping %s: %v", fullPath, err)
			continue
		}
		if class != ClassSupported {
			continue
		}
		entries = append(entries, newEntry(fullPath, format))
	}

	catalog := Catalog{
		Dir:     dir,
		Entries: GetSortStrategy(opts.SortMethod).Sort(entries),
	}
	debugLog("BuildCatalog: %d images in %s", catalog.Len(), dir)
	return catalog, nil
}
