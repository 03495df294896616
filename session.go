package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
)

type scanResult struct {
	gen     uint64
	catalog Catalog
	focus   string
	err     error
}

type trashResult struct {
	path string
	err  error
}

// Session is the navigation state of one window. All of its methods must be
// called from the goroutine that owns it; scans and trash operations run
// elsewhere and only hand their results back through the results channel.
type Session struct {
	opts    CatalogOptions
	gateway *Gateway

	catalog Catalog
	idx     int // -1 when nothing is shown
	grid    bool

	gen      uint64 // Generation of the latest scan; older results are dropped
	pending  int
	trashing string
	lastErr  error

	results chan any

	// OnDirectoryChange is called when a scan switches the active directory
	OnDirectoryChange func(dir string)
}

// NewSession creates an empty session
func NewSession(opts CatalogOptions, gateway *Gateway) *Session {
	return &Session{
		opts:    opts,
		gateway: gateway,
		idx:     -1,
		results: make(chan any, 16),
	}
}

// HandleEvent applies a presentation event
func (s *Session) HandleEvent(name string, payload any) {
	switch name {
	case EventOpen:
		path, ok := payload.(string)
		if !ok || path == "" {
			debugLog("open event without a path: %v", payload)
			return
		}
		s.Open(path)
	case EventNext:
		s.Next()
	case EventPrev:
		s.Prev()
	case EventGrid:
		s.ToggleGrid()
	case EventRemove:
		s.Remove()
	default:
		debugLog("Ignoring event %q", name)
	}
}

// Open validates path and starts building the catalog around it.
// A directory opens its first image.
func (s *Session) Open(path string) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		s.scan(path, "")
		return
	}

	check := s.gateway.CheckMime(path)
	if check.Err != nil {
		s.setError(check.Err)
		return
	}
	if check.Class != ClassSupported {
		s.setError(&FileError{Op: "open", Path: path, Kind: ErrUnsupported})
		return
	}
	s.scan(path, path)
}

// Rescan rebuilds the catalog of the active directory, keeping the current entry
func (s *Session) Rescan() {
	if s.catalog.Dir == "" {
		return
	}
	focus := ""
	if cur, ok := s.Current(); ok {
		focus = cur.Path
	}
	s.scan(s.catalog.Dir, focus)
}

// DirectoryChanged rescans when dir is the active directory. Scans in
// flight are superseded, so this is safe while the session is busy.
func (s *Session) DirectoryChanged(dir string) {
	if dir == "" || dir != s.catalog.Dir {
		return
	}
	s.Rescan()
}

func (s *Session) scan(seed, focus string) {
	s.gen++
	s.pending++
	gen, opts := s.gen, s.opts
	go func() {
		catalog, err := BuildCatalog(seed, opts)
		s.results <- scanResult{gen: gen, catalog: catalog, focus: focus, err: err}
	}()
}

// Next moves to the following entry; false at the last entry
func (s *Session) Next() bool {
	return s.step(s.catalog.Next)
}

// Prev moves to the preceding entry; false at the first entry
func (s *Session) Prev() bool {
	return s.step(s.catalog.Prev)
}

func (s *Session) step(move func(int) (int, bool)) bool {
	cur, ok := s.Current()
	if !ok {
		return false
	}
	if _, err := os.Stat(cur.Path); errors.Is(err, fs.ErrNotExist) {
		// The file vanished behind our back; navigate again after the rebuild
		debugLog("%s no longer exists, rescanning", cur.Path)
		s.Rescan()
		return false
	}
	next, ok := move(s.idx)
	if !ok {
		return false
	}
	s.idx = next
	return true
}

// Select shows entry i and leaves grid view
func (s *Session) Select(i int) bool {
	if _, ok := s.catalog.At(i); !ok {
		return false
	}
	s.idx = i
	s.grid = false
	return true
}

// ToggleGrid switches between single and grid view
func (s *Session) ToggleGrid() {
	s.grid = !s.grid
}

// Remove moves the current entry to the trash. The catalog only changes
// once the trash operation has reported success.
func (s *Session) Remove() {
	if s.trashing != "" {
		debugLog("Trash of %s still in progress", s.trashing)
		return
	}
	cur, ok := s.Current()
	if !ok {
		return
	}
	s.trashing = cur.Path
	gateway := s.gateway
	go func() {
		s.results <- trashResult{path: cur.Path, err: gateway.MoveToTrash(cur.Path)}
	}()
}

// Poll applies every result that is ready and returns how many there were
func (s *Session) Poll() int {
	n := 0
	for {
		select {
		case r := <-s.results:
			s.apply(r)
			n++
		default:
			return n
		}
	}
}

// Await blocks until one result is ready and applies it
func (s *Session) Await(ctx context.Context) error {
	select {
	case r := <-s.results:
		s.apply(r)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Settle waits until no scan or trash operation is outstanding
func (s *Session) Settle(ctx context.Context) error {
	for s.Busy() {
		if err := s.Await(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) apply(r any) {
	switch r := r.(type) {
	case scanResult:
		s.pending--
		if r.gen != s.gen {
			debugLog("Discarding superseded scan of %s", r.catalog.Dir)
			return
		}
		if r.err != nil {
			log.Printf("Error: Failed to scan directory: %v", r.err)
			s.setError(r.err)
			return
		}
		s.applyCatalog(r.catalog, r.focus)
	case trashResult:
		s.trashing = ""
		if r.err != nil {
			log.Printf("Error: Failed to move %s to trash: %v", r.path, r.err)
			s.setError(r.err)
			return
		}
		catalog, removed, ok := s.catalog.Without(r.path)
		if !ok {
			return // Already gone from a newer scan
		}
		// Keep the user's place if they moved on while the trash was running
		if cur, shown := s.Current(); shown && s.idx != removed {
			s.idx, _ = catalog.IndexOf(cur.Path)
		} else {
			s.idx = FocusAfterRemoval(removed, s.catalog.Len())
		}
		s.catalog = catalog
	}
}

func (s *Session) applyCatalog(catalog Catalog, focus string) {
	dirChanged := catalog.Dir != s.catalog.Dir
	prevIdx := s.idx
	s.catalog = catalog

	switch idx, ok := catalog.IndexOf(focus); {
	case focus != "" && ok:
		s.idx = idx
	case catalog.Len() == 0:
		s.idx = -1
	case dirChanged || prevIdx < 0:
		s.idx = 0
	default:
		s.idx = min(prevIdx, catalog.Len()-1)
	}

	if dirChanged && s.OnDirectoryChange != nil {
		s.OnDirectoryChange(catalog.Dir)
	}
}

func (s *Session) setError(err error) {
	s.lastErr = err
}

// TakeError returns the last error and clears it
func (s *Session) TakeError() error {
	err := s.lastErr
	s.lastErr = nil
	return err
}

// Catalog returns the active catalog
func (s *Session) Catalog() Catalog {
	return s.catalog
}

// Index returns the current index, -1 when nothing is shown
func (s *Session) Index() int {
	return s.idx
}

// Current returns the entry being shown
func (s *Session) Current() (Entry, bool) {
	return s.catalog.At(s.idx)
}

// IsGrid reports whether grid view is active
func (s *Session) IsGrid() bool {
	return s.grid
}

// Busy reports whether a scan or trash operation is outstanding
func (s *Session) Busy() bool {
	return s.pending > 0 || s.trashing != ""
}
