package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileFilter restricts the file picker to a set of extensions.
// It is a convenience for the user; picked files are still classified by content.
type FileFilter struct {
	Name       string
	Extensions []string
}

// ImageFileFilter is the filter used by the open action
func ImageFileFilter() FileFilter {
	return FileFilter{Name: "Image File", Extensions: SupportedExtensions()}
}

// PickResult is the outcome of a file picker request.
// Cancellation is a normal result, not an error.
type PickResult struct {
	Path      string
	Cancelled bool
	Err       error
}

// Selected reports whether the user chose a file
func (r PickResult) Selected() bool {
	return !r.Cancelled && r.Err == nil && r.Path != ""
}

// FilePicker shows the host's native open-file dialog and blocks until it closes
type FilePicker interface {
	PickFile(filter FileFilter) PickResult
}

// Trasher moves a file to the host's trash or recycle bin
type Trasher interface {
	Trash(path string) error
}

// MimeCheck is the classifier verdict handed to the presentation layer
type MimeCheck struct {
	Path   string
	Class  Classification
	Format ImageFormat
	Err    error
}

// Gateway performs host-side file operations on behalf of the presentation layer
type Gateway struct {
	classifier *Classifier
	picker     FilePicker
	trasher    Trasher
}

// NewGateway creates a Gateway over the given host collaborators
func NewGateway(classifier *Classifier, picker FilePicker, trasher Trasher) *Gateway {
	if classifier == nil {
		classifier = NewClassifier(0)
	}
	return &Gateway{
		classifier: classifier,
		picker:     picker,
		trasher:    trasher,
	}
}

// OpenFileDialog shows the picker and waits for the user
func (g *Gateway) OpenFileDialog(filter FileFilter) PickResult {
	if g.picker == nil {
		return PickResult{Err: &FileError{Op: "pick", Kind: ErrUnsupported}}
	}
	result := g.picker.PickFile(filter)
	if result.Err == nil && result.Path == "" {
		result.Cancelled = true
	}
	return result
}

// PickFile shows the picker without blocking the caller.
// done is called exactly once, from another goroutine.
func (g *Gateway) PickFile(filter FileFilter, done func(PickResult)) {
	go func() {
		done(g.OpenFileDialog(filter))
	}()
}

// MoveToTrash hands path to the host trash facility. It never deletes
// permanently; when no trash facility exists it fails with ErrUnsupported.
func (g *Gateway) MoveToTrash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return &FileError{Op: "trash", Path: path, Kind: ErrIO, Err: err}
	}

	info, err := os.Lstat(abs)
	if err != nil {
		return newFileError("trash", abs, err)
	}
	if info.IsDir() {
		return &FileError{Op: "trash", Path: abs, Kind: ErrUnsupported, Err: errors.New("is a directory")}
	}
	if err := checkWritable(filepath.Dir(abs)); err != nil {
		return newFileError("trash", abs, err)
	}
	if g.trasher == nil {
		return &FileError{Op: "trash", Path: abs, Kind: ErrUnsupported, Err: errors.New("no trash facility")}
	}

	if err := g.trasher.Trash(abs); err != nil {
		return newFileError("trash", abs, err)
	}

	// The entry must only leave the catalog once the file is really gone
	if _, err := os.Lstat(abs); err == nil {
		return &FileError{Op: "trash", Path: abs, Kind: ErrIO, Err: fmt.Errorf("file still present after trash")}
	}

	debugLog("Moved to trash: %s", abs)
	return nil
}

// CheckMime classifies path for the presentation layer
func (g *Gateway) CheckMime(path string) MimeCheck {
	class, format, err := g.classifier.Classify(path)
	return MimeCheck{Path: path, Class: class, Format: format, Err: err}
}
