package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func settle(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Settle(ctx); err != nil {
		t.Fatalf("session did not settle: %v", err)
	}
}

// newTestDir creates a directory holding a PNG for each name
func newTestDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		writeImage(t, dir, name, "png")
	}
	return dir
}

func currentName(s *Session) string {
	cur, ok := s.Current()
	if !ok {
		return ""
	}
	return cur.FileName()
}

func TestSessionOpen(t *testing.T) {
	dir := newTestDir(t, "a.png", "b.png", "c.png")
	var watched []string
	s := NewSession(CatalogOptions{}, NewGateway(nil, nil, nil))
	s.OnDirectoryChange = func(d string) { watched = append(watched, d) }

	s.Open(filepath.Join(dir, "b.png"))
	if !s.Busy() {
		t.Error("expected a scan in flight")
	}
	settle(t, s)

	if currentName(s) != "b.png" || s.Index() != 1 {
		t.Errorf("current = %s at %d, want b.png at 1", currentName(s), s.Index())
	}
	if s.Catalog().Len() != 3 {
		t.Errorf("catalog size = %d, want 3", s.Catalog().Len())
	}
	if !reflect.DeepEqual(watched, []string{dir}) {
		t.Errorf("directory changes = %v, want [%s]", watched, dir)
	}
	if err := s.TakeError(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestSessionOpenDirectory(t *testing.T) {
	dir := newTestDir(t, "b.png", "a.png")
	s := NewSession(CatalogOptions{}, NewGateway(nil, nil, nil))

	s.Open(dir)
	settle(t, s)

	if currentName(s) != "a.png" {
		t.Errorf("current = %q, want a.png", currentName(s))
	}
}

func TestSessionOpenRejected(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		kind error
	}{
		{"Unsupported", writeFile(t, dir, "photo.png", "not an image"), ErrUnsupported},
		{"Missing", filepath.Join(dir, "missing.png"), ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(CatalogOptions{}, NewGateway(nil, nil, nil))
			s.Open(tt.path)

			if s.Busy() {
				t.Error("a rejected file must not start a scan")
			}
			if err := s.TakeError(); !errors.Is(err, tt.kind) {
				t.Errorf("error = %v, want %v", err, tt.kind)
			}
			if err := s.TakeError(); err != nil {
				t.Errorf("TakeError must clear the error, got %v", err)
			}
			if _, ok := s.Current(); ok {
				t.Error("nothing should be shown")
			}
		})
	}
}

func TestSessionNavigation(t *testing.T) {
	dir := newTestDir(t, "a.png", "b.png", "c.png")
	s := NewSession(CatalogOptions{}, NewGateway(nil, nil, nil))
	s.Open(filepath.Join(dir, "a.png"))
	settle(t, s)

	if s.Prev() {
		t.Error("Prev at the first entry must fail")
	}
	if !s.Next() || !s.Next() {
		t.Fatal("Next should reach the last entry")
	}
	if currentName(s) != "c.png" {
		t.Errorf("current = %s, want c.png", currentName(s))
	}
	if s.Next() {
		t.Error("Next at the last entry must not wrap")
	}
	if currentName(s) != "c.png" {
		t.Errorf("current = %s after failed Next", currentName(s))
	}

	s.HandleEvent(EventPrev, nil)
	if currentName(s) != "b.png" {
		t.Errorf("current = %s after prev event, want b.png", currentName(s))
	}
}

func TestSessionNavigationEmpty(t *testing.T) {
	s := NewSession(CatalogOptions{}, NewGateway(nil, nil, nil))
	if s.Next() || s.Prev() {
		t.Error("navigation without a catalog must fail")
	}
	if s.Index() != -1 {
		t.Errorf("index = %d, want -1", s.Index())
	}
}

func TestSessionVanishedFileRescans(t *testing.T) {
	dir := newTestDir(t, "a.png", "b.png", "c.png")
	s := NewSession(CatalogOptions{}, NewGateway(nil, nil, nil))
	s.Open(filepath.Join(dir, "a.png"))
	settle(t, s)

	if err := os.Remove(filepath.Join(dir, "a.png")); err != nil {
		t.Fatal(err)
	}
	if s.Next() {
		t.Error("Next on a vanished file should wait for the rescan")
	}
	if !s.Busy() {
		t.Fatal("expected a rescan in flight")
	}
	settle(t, s)

	if s.Catalog().Len() != 2 {
		t.Errorf("catalog size = %d, want 2", s.Catalog().Len())
	}
	if currentName(s) != "b.png" {
		t.Errorf("current = %s, want b.png", currentName(s))
	}
}

func TestSessionSupersededScan(t *testing.T) {
	first := newTestDir(t, "a.png", "b.png")
	second := newTestDir(t, "x.png")
	s := NewSession(CatalogOptions{}, NewGateway(nil, nil, nil))

	s.Open(filepath.Join(first, "b.png"))
	s.Open(filepath.Join(second, "x.png"))
	settle(t, s)

	if s.Catalog().Dir != second {
		t.Errorf("catalog dir = %s, want %s", s.Catalog().Dir, second)
	}
	if currentName(s) != "x.png" {
		t.Errorf("current = %s, want x.png", currentName(s))
	}
}

func TestSessionRemove(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		expected []string
		focus    string
	}{
		{"First", "a.png", []string{"b.png", "c.png"}, "b.png"},
		{"Middle", "b.png", []string{"a.png", "c.png"}, "c.png"},
		{"Last", "c.png", []string{"a.png", "b.png"}, "b.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := newTestDir(t, "a.png", "b.png", "c.png")
			trasher := &fakeTrasher{}
			s := NewSession(CatalogOptions{}, NewGateway(nil, nil, trasher))
			s.Open(filepath.Join(dir, tt.start))
			settle(t, s)

			s.HandleEvent(EventRemove, nil)
			settle(t, s)

			if err := s.TakeError(); err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if !reflect.DeepEqual(catalogNames(s.Catalog()), tt.expected) {
				t.Errorf("catalog = %v, want %v", catalogNames(s.Catalog()), tt.expected)
			}
			if currentName(s) != tt.focus {
				t.Errorf("current = %s, want %s", currentName(s), tt.focus)
			}
			if !reflect.DeepEqual(trasher.trashed, []string{filepath.Join(dir, tt.start)}) {
				t.Errorf("trashed = %v", trasher.trashed)
			}
		})
	}
}

func TestSessionRemoveOnlyEntry(t *testing.T) {
	dir := newTestDir(t, "a.png")
	s := NewSession(CatalogOptions{}, NewGateway(nil, nil, &fakeTrasher{}))
	s.Open(filepath.Join(dir, "a.png"))
	settle(t, s)

	s.Remove()
	settle(t, s)

	if s.Catalog().Len() != 0 || s.Index() != -1 {
		t.Errorf("expected empty catalog, got %v at %d", catalogNames(s.Catalog()), s.Index())
	}
	if _, ok := s.Current(); ok {
		t.Error("nothing should be shown")
	}

	// Removing with nothing shown is a no-op
	s.Remove()
	if s.Busy() {
		t.Error("Remove without a current entry must not start a trash")
	}
}

func TestSessionRemoveFailure(t *testing.T) {
	dir := newTestDir(t, "a.png", "b.png")
	trasher := &fakeTrasher{err: errors.New("trash unavailable")}
	s := NewSession(CatalogOptions{}, NewGateway(nil, nil, trasher))
	s.Open(filepath.Join(dir, "b.png"))
	settle(t, s)

	s.Remove()
	settle(t, s)

	if err := s.TakeError(); !errors.Is(err, ErrIO) {
		t.Errorf("error = %v, want ErrIO", err)
	}
	if !reflect.DeepEqual(catalogNames(s.Catalog()), []string{"a.png", "b.png"}) {
		t.Errorf("catalog must be unchanged, got %v", catalogNames(s.Catalog()))
	}
	if currentName(s) != "b.png" {
		t.Errorf("current = %s, want b.png", currentName(s))
	}
}

func TestSessionRemoveInFlight(t *testing.T) {
	dir := newTestDir(t, "a.png", "b.png", "c.png")
	trasher := &fakeTrasher{}
	s := NewSession(CatalogOptions{}, NewGateway(nil, nil, trasher))
	s.Open(filepath.Join(dir, "a.png"))
	settle(t, s)

	s.Remove()
	s.Remove()
	settle(t, s)

	if len(trasher.trashed) != 1 {
		t.Errorf("expected one trash operation, got %v", trasher.trashed)
	}
	if s.Catalog().Len() != 2 {
		t.Errorf("catalog size = %d, want 2", s.Catalog().Len())
	}
}

func TestSessionGrid(t *testing.T) {
	dir := newTestDir(t, "a.png", "b.png", "c.png")
	s := NewSession(CatalogOptions{}, NewGateway(nil, nil, nil))
	s.Open(filepath.Join(dir, "a.png"))
	settle(t, s)

	s.HandleEvent(EventGrid, nil)
	if !s.IsGrid() {
		t.Fatal("expected grid view")
	}
	if !s.Select(2) {
		t.Fatal("Select(2) failed")
	}
	if s.IsGrid() || currentName(s) != "c.png" {
		t.Errorf("grid=%v current=%s, want single view on c.png", s.IsGrid(), currentName(s))
	}
	if s.Select(3) {
		t.Error("Select out of range must fail")
	}
}

func TestSessionRescanKeepsCurrent(t *testing.T) {
	dir := newTestDir(t, "b.png", "c.png")
	s := NewSession(CatalogOptions{}, NewGateway(nil, nil, nil))
	s.Open(filepath.Join(dir, "c.png"))
	settle(t, s)

	writeImage(t, dir, "a.png", "png")
	s.Rescan()
	settle(t, s)

	if !reflect.DeepEqual(catalogNames(s.Catalog()), []string{"a.png", "b.png", "c.png"}) {
		t.Errorf("catalog = %v", catalogNames(s.Catalog()))
	}
	if currentName(s) != "c.png" || s.Index() != 2 {
		t.Errorf("current = %s at %d, want c.png at 2", currentName(s), s.Index())
	}
}

func TestSessionOpenEvent(t *testing.T) {
	dir := newTestDir(t, "a.png")
	s := NewSession(CatalogOptions{}, NewGateway(nil, nil, nil))

	s.HandleEvent(EventOpen, 42)
	if s.Busy() {
		t.Error("an open event without a path must be ignored")
	}

	s.HandleEvent(EventOpen, filepath.Join(dir, "a.png"))
	settle(t, s)
	if currentName(s) != "a.png" {
		t.Errorf("current = %q, want a.png", currentName(s))
	}
}

// gatedTrasher holds every trash operation until release is closed
type gatedTrasher struct {
	release chan struct{}
}

func (t *gatedTrasher) Trash(path string) error {
	<-t.release
	return os.Remove(path)
}

func TestSessionRemoveKeepsPositionAfterNavigation(t *testing.T) {
	dir := newTestDir(t, "a.png", "b.png", "c.png")
	trasher := &gatedTrasher{release: make(chan struct{})}
	s := NewSession(CatalogOptions{}, NewGateway(nil, nil, trasher))
	s.Open(filepath.Join(dir, "a.png"))
	settle(t, s)

	s.Remove()
	if !s.Next() || !s.Next() {
		t.Fatal("navigation during a trash should still work")
	}
	close(trasher.release)
	settle(t, s)

	if !reflect.DeepEqual(catalogNames(s.Catalog()), []string{"b.png", "c.png"}) {
		t.Errorf("catalog = %v", catalogNames(s.Catalog()))
	}
	if currentName(s) != "c.png" {
		t.Errorf("current = %s, want c.png", currentName(s))
	}
}

func TestSessionDirectoryChangedWhileBusy(t *testing.T) {
	dir := newTestDir(t, "a.png", "b.png", "c.png")
	trasher := &gatedTrasher{release: make(chan struct{})}
	s := NewSession(CatalogOptions{}, NewGateway(nil, nil, trasher))
	s.Open(filepath.Join(dir, "a.png"))
	settle(t, s)

	s.Remove()
	writeImage(t, dir, "d.png", "png")
	s.DirectoryChanged(dir)
	close(trasher.release)
	settle(t, s)

	if !reflect.DeepEqual(catalogNames(s.Catalog()), []string{"b.png", "c.png", "d.png"}) {
		t.Errorf("catalog = %v, want [b.png c.png d.png]", catalogNames(s.Catalog()))
	}
	if currentName(s) != "b.png" {
		t.Errorf("current = %s, want b.png", currentName(s))
	}
}

func TestSessionDirectoryChangedOtherDirectory(t *testing.T) {
	dir := newTestDir(t, "a.png")
	s := NewSession(CatalogOptions{}, NewGateway(nil, nil, nil))
	s.Open(filepath.Join(dir, "a.png"))
	settle(t, s)

	s.DirectoryChanged(t.TempDir())
	if s.Busy() {
		t.Error("a change in another directory must not rescan")
	}
	s.DirectoryChanged(dir)
	if !s.Busy() {
		t.Error("a change in the active directory should rescan")
	}
	settle(t, s)
}
