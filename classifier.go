package main

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/gabriel-vasile/mimetype"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Classification is the verdict of the content-type classifier
type Classification int

const (
	ClassSupported Classification = iota
	ClassUnsupported
	ClassUnreadable
)

func (c Classification) String() string {
	switch c {
	case ClassSupported:
		return "supported-image"
	case ClassUnsupported:
		return "unsupported"
	default:
		return "unreadable"
	}
}

// ImageFormat is the content-type tag of a supported image
type ImageFormat int

const (
	FormatNone ImageFormat = iota
	FormatICO
	FormatGIF
	FormatPNG
	FormatJPEG
	FormatWEBP
	FormatBMP
)

var formatNames = map[ImageFormat]string{
	FormatNone: "unsupported",
	FormatICO:  "ico",
	FormatGIF:  "gif",
	FormatPNG:  "png",
	FormatJPEG: "jpeg",
	FormatWEBP: "webp",
	FormatBMP:  "bmp",
}

func (f ImageFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unsupported"
}

// mimeFormats maps detected MIME types to supported formats.
// Subtypes (e.g. APNG) are resolved through the MIME parent chain.
var mimeFormats = map[string]ImageFormat{
	"image/x-icon":             FormatICO,
	"image/vnd.microsoft.icon": FormatICO,
	"image/gif":                FormatGIF,
	"image/png":                FormatPNG,
	"image/jpeg":               FormatJPEG,
	"image/webp":               FormatWEBP,
	"image/bmp":                FormatBMP,
	"image/x-bmp":              FormatBMP,
}

// SupportedExtensions returns the file extensions offered by the file picker.
// Classification never relies on these.
func SupportedExtensions() []string {
	return []string{"ico", "gif", "png", "jpg", "jpeg", "webp", "bmp"}
}

type classifyKey struct {
	path    string
	size    int64
	modTime int64
}

type classifyResult struct {
	class  Classification
	format ImageFormat
}

// Classifier decides image viewability by sniffing file content
type Classifier struct {
	cache *lru.Cache[classifyKey, classifyResult]
}

// NewClassifier creates a Classifier remembering up to cacheSize verdicts.
// A cacheSize below 1 disables the cache.
func NewClassifier(cacheSize int) *Classifier {
	c := &Classifier{}
	if cacheSize > 0 {
		cache, err := lru.New[classifyKey, classifyResult](cacheSize)
		if err != nil {
			debugLog("Classifier cache disabled: %v", err)
		} else {
			c.cache = cache
		}
	}
	return c
}

// Classify reports whether path holds a supported image.
// Files that are not regular files are unsupported and are never opened,
// so a named pipe cannot block the caller.
func (c *Classifier) Classify(path string) (Classification, ImageFormat, error) {
	info, err := statPath("classify", path)
	if err != nil {
		return ClassUnreadable, FormatNone, err
	}
	if !info.Mode().IsRegular() {
		return ClassUnsupported, FormatNone, nil
	}

	key := classifyKey{path: path, size: info.Size(), modTime: info.ModTime().UnixNano()}
	if c.cache != nil {
		if r, ok := c.cache.Get(key); ok {
			return r.class, r.format, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return ClassUnreadable, FormatNone, newFileError("classify", path, err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return ClassUnreadable, FormatNone, &FileError{Op: "classify", Path: path, Kind: ErrIO, Err: err}
	}

	result := classifyResult{class: ClassUnsupported, format: formatFromMIME(mtype)}
	if result.format != FormatNone {
		result.class = ClassSupported
	}
	debugLog("Classified %s as %s (%s)", path, result.format, mtype.String())

	if c.cache != nil {
		c.cache.Add(key, result)
	}
	return result.class, result.format, nil
}

func formatFromMIME(m *mimetype.MIME) ImageFormat {
	for node := m; node != nil; node = node.Parent() {
		if f, ok := mimeFormats[node.String()]; ok {
			return f
		}
	}
	return FormatNone
}

// ImageInfo describes a supported image for the info overlay
type ImageInfo struct {
	Format ImageFormat
	Width  int
	Height int
}

func (i ImageInfo) String() string {
	if i.Width == 0 || i.Height == 0 {
		return i.Format.String()
	}
	return fmt.Sprintf("%s %dx%d", i.Format, i.Width, i.Height)
}

// Describe classifies path and reads its dimensions from the image header.
// ICO has no registered decoder and reports zero dimensions.
func (c *Classifier) Describe(path string) (ImageInfo, error) {
	class, format, err := c.Classify(path)
	if err != nil {
		return ImageInfo{}, err
	}
	if class != ClassSupported {
		return ImageInfo{}, &FileError{Op: "describe", Path: path, Kind: ErrUnsupported}
	}

	info := ImageInfo{Format: format}
	f, err := os.Open(path)
	if err != nil {
		return info, newFileError("describe", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return info, nil
		}
		return info, &FileError{Op: "describe", Path: path, Kind: ErrIO, Err: err}
	}
	info.Width, info.Height = cfg.Width, cfg.Height
	return info, nil
}
