package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Error kinds reported by the classifier, catalog and file operations.
// A *FileError matches its kind with errors.Is.
var (
	ErrIO          = errors.New("i/o error")
	ErrUnsupported = errors.New("unsupported")
	ErrNotFound    = errors.New("not found")
	ErrPermission  = errors.New("permission denied")
)

// FileError records a failed operation on a path
type FileError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *FileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of this error
func (e *FileError) Is(target error) bool {
	return e.Kind == target
}

// newFileError wraps err with the kind derived from it
func newFileError(op, path string, err error) *FileError {
	return &FileError{Op: op, Path: path, Kind: kindOf(err), Err: err}
}

// kindOf maps an error from the os package to one of the error kinds
func kindOf(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnsupported):
		return ErrUnsupported
	case errors.Is(err, ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, ErrPermission), errors.Is(err, fs.ErrPermission):
		return ErrPermission
	default:
		return ErrIO
	}
}

// errorKindName returns a short name for the kind of err, used in overlay messages
func errorKindName(err error) string {
	switch kindOf(err) {
	case ErrUnsupported:
		return "Unsupported"
	case ErrNotFound:
		return "NotFound"
	case ErrPermission:
		return "PermissionDenied"
	case nil:
		return ""
	default:
		return "IoError"
	}
}

// statPath is os.Stat wrapped in a FileError
func statPath(op, path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, newFileError(op, path, err)
	}
	return info, nil
}
