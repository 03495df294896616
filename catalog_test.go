package main

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func catalogNames(c Catalog) []string {
	return entryNames(c.Entries)
}

func TestBuildCatalog(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "a.png", "png")
	writeFile(t, dir, "b.txt", "text")
	writeImage(t, dir, "c.jpg", "jpeg")
	writeImage(t, dir, "B.PNG", "png")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	writeImage(t, filepath.Join(dir, "sub"), "d.png", "png")

	catalog, err := BuildCatalog(filepath.Join(dir, "a.png"), CatalogOptions{})
	if err != nil {
		t.Fatalf("BuildCatalog returned error: %v", err)
	}

	expected := []string{"B.PNG", "a.png", "c.jpg"}
	if !reflect.DeepEqual(catalogNames(catalog), expected) {
		t.Errorf("Expected %v, got %v", expected, catalogNames(catalog))
	}
	if catalog.Dir != dir {
		t.Errorf("Expected dir %s, got %s", dir, catalog.Dir)
	}

	idx, ok := catalog.IndexOf(filepath.Join(dir, "a.png"))
	if !ok || idx != 1 {
		t.Errorf("IndexOf(a.png) = %d, %v; want 1, true", idx, ok)
	}

	for _, e := range catalog.Entries {
		if !filepath.IsAbs(e.Path) {
			t.Errorf("Entry path %s is not absolute", e.Path)
		}
	}
	if catalog.Entries[2].Format != FormatJPEG || catalog.Entries[2].Name != "c" {
		t.Errorf("Unexpected entry %+v", catalog.Entries[2])
	}
}

func TestBuildCatalogSeeds(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "a.png", "png")
	writeImage(t, dir, "b.gif", "gif")
	writeFile(t, dir, "photo.png", "not an image")

	tests := []struct {
		name string
		seed string
	}{
		{"Image seed", filepath.Join(dir, "a.png")},
		{"Unsupported seed", filepath.Join(dir, "photo.png")},
		{"Missing seed in existing directory", filepath.Join(dir, "gone.png")},
		{"Directory seed", dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := BuildCatalog(tt.seed, CatalogOptions{})
			if err != nil {
				t.Fatalf("BuildCatalog(%s) returned error: %v", tt.seed, err)
			}
			expected := []string{"a.png", "b.gif"}
			if !reflect.DeepEqual(catalogNames(catalog), expected) {
				t.Errorf("Expected %v, got %v", expected, catalogNames(catalog))
			}
		})
	}
}

func TestBuildCatalogDeterministic(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"z.png", "m.png", "a.png", "Q.png", "1.png"} {
		writeImage(t, dir, name, "png")
	}

	first, err := BuildCatalog(filepath.Join(dir, "a.png"), CatalogOptions{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := BuildCatalog(filepath.Join(dir, "z.png"), CatalogOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Catalog changed between builds: %v vs %v", catalogNames(first), catalogNames(again))
		}
	}
}

func TestBuildCatalogEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.txt", "no images here")

	catalog, err := BuildCatalog(dir, CatalogOptions{})
	if err != nil {
		t.Fatalf("Expected no error for a directory without images, got %v", err)
	}
	if catalog.Len() != 0 {
		t.Errorf("Expected empty catalog, got %v", catalogNames(catalog))
	}
}

func TestBuildCatalogMissingDirectory(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "missing", "a.png")

	_, err := BuildCatalog(seed, CatalogOptions{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestBuildCatalogSortMethod(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"img10.png", "img2.png", "img1.png"} {
		writeImage(t, dir, name, "png")
	}

	tests := []struct {
		sortMethod string
		expected   []string
	}{
		{SortSimple, []string{"img1.png", "img10.png", "img2.png"}},
		{SortNatural, []string{"img1.png", "img2.png", "img10.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.sortMethod, func(t *testing.T) {
			catalog, err := BuildCatalog(dir, CatalogOptions{SortMethod: tt.sortMethod})
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(catalogNames(catalog), tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, catalogNames(catalog))
			}
		})
	}
}

func TestBuildCatalogIgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "a.png", "png")
	writeImage(t, dir, ".hidden.png", "png")
	writeImage(t, dir, "b.png~", "png")

	ignore, err := CompileIgnorePatterns([]string{".*", "*~"})
	if err != nil {
		t.Fatalf("CompileIgnorePatterns returned error: %v", err)
	}
	catalog, err := BuildCatalog(dir, CatalogOptions{Ignore: ignore})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(catalogNames(catalog), []string{"a.png"}) {
		t.Errorf("Expected only a.png, got %v", catalogNames(catalog))
	}

	if _, err := CompileIgnorePatterns([]string{"[unclosed"}); err == nil {
		t.Error("Expected error for invalid pattern")
	}
}

func testCatalog(names ...string) Catalog {
	c := Catalog{Dir: "/photos"}
	for _, name := range names {
		c.Entries = append(c.Entries, newEntry(filepath.Join("/photos", name), FormatPNG))
	}
	return c
}

func TestCatalogNavigation(t *testing.T) {
	catalog := testCatalog("a.png", "b.png", "c.png")

	tests := []struct {
		name       string
		move       func(int) (int, bool)
		from       int
		expected   int
		expectedOK bool
	}{
		{"Next from first", catalog.Next, 0, 1, true},
		{"Next from middle", catalog.Next, 1, 2, true},
		{"Next at last does not wrap", catalog.Next, 2, 2, false},
		{"Prev from last", catalog.Prev, 2, 1, true},
		{"Prev at first does not wrap", catalog.Prev, 0, 0, false},
		{"Next out of range", catalog.Next, 5, 5, false},
		{"Prev out of range", catalog.Prev, -1, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := tt.move(tt.from)
			if idx != tt.expected || ok != tt.expectedOK {
				t.Errorf("got (%d, %v), want (%d, %v)", idx, ok, tt.expected, tt.expectedOK)
			}
		})
	}

	t.Run("Next then Prev returns", func(t *testing.T) {
		for i := 0; i < catalog.Len()-1; i++ {
			next, _ := catalog.Next(i)
			if back, _ := catalog.Prev(next); back != i {
				t.Errorf("Prev(Next(%d)) = %d", i, back)
			}
		}
	})

	t.Run("Empty catalog", func(t *testing.T) {
		empty := Catalog{}
		if _, ok := empty.Next(0); ok {
			t.Error("Next on empty catalog should fail")
		}
		if _, ok := empty.Prev(0); ok {
			t.Error("Prev on empty catalog should fail")
		}
	})
}

func TestCatalogIndexOf(t *testing.T) {
	catalog := testCatalog("a.png", "b.png")

	if idx, ok := catalog.IndexOf("/photos/b.png"); !ok || idx != 1 {
		t.Errorf("IndexOf(b.png) = %d, %v", idx, ok)
	}
	if idx, ok := catalog.IndexOf("/photos/x.png"); ok || idx != -1 {
		t.Errorf("IndexOf(x.png) = %d, %v; want -1, false", idx, ok)
	}
	if idx, ok := catalog.IndexOf("/elsewhere/a.png"); ok || idx != -1 {
		t.Errorf("IndexOf in other directory = %d, %v; want -1, false", idx, ok)
	}
}

func TestCatalogWithout(t *testing.T) {
	catalog := testCatalog("a.png", "b.png", "c.png")

	rest, idx, ok := catalog.Without("/photos/b.png")
	if !ok || idx != 1 {
		t.Fatalf("Without(b.png) = %d, %v", idx, ok)
	}
	if !reflect.DeepEqual(catalogNames(rest), []string{"a.png", "c.png"}) {
		t.Errorf("Unexpected remaining entries %v", catalogNames(rest))
	}
	if catalog.Len() != 3 {
		t.Errorf("Original catalog was modified: %v", catalogNames(catalog))
	}

	if _, _, ok := catalog.Without("/photos/zzz.png"); ok {
		t.Error("Without on a missing path should report false")
	}
}

func TestFocusAfterRemoval(t *testing.T) {
	tests := []struct {
		name     string
		removed  int
		size     int
		expected int
	}{
		{"First of three", 0, 3, 0},
		{"Middle of three", 1, 3, 1},
		{"Last of three", 2, 3, 1},
		{"Only entry", 0, 1, -1},
		{"Last of two", 1, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FocusAfterRemoval(tt.removed, tt.size); got != tt.expected {
				t.Errorf("FocusAfterRemoval(%d, %d) = %d, want %d", tt.removed, tt.size, got, tt.expected)
			}
		})
	}
}

func TestBuildCatalogPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	dir := filepath.Join(t.TempDir(), "locked")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	writeImage(t, dir, "a.png", "png")
	if err := os.Chmod(dir, 0311); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	catalog, err := BuildCatalog(filepath.Join(dir, "a.png"), CatalogOptions{})
	if !errors.Is(err, ErrPermission) {
		t.Errorf("Expected ErrPermission, got %v", err)
	}
	if catalog.Len() != 0 {
		t.Errorf("Expected no entries with an error, got %v", catalogNames(catalog))
	}
}

func TestCatalogPaths(t *testing.T) {
	catalog := testCatalog("a.png", "b.png")
	expected := []string{"/photos/a.png", "/photos/b.png"}
	if !reflect.DeepEqual(catalog.Paths(), expected) {
		t.Errorf("Paths() = %v, want %v", catalog.Paths(), expected)
	}
	if paths := (Catalog{}).Paths(); len(paths) != 0 {
		t.Errorf("Paths() on empty catalog = %v", paths)
	}
}
