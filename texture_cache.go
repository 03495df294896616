package main

import (
	"fmt"
	"image"
	"log"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// TextureCache keeps decoded catalog images as GPU textures.
// Keys are file paths, so a rebuilt catalog reuses what is already loaded.
type TextureCache struct {
	cache *lru.Cache[string, *ebiten.Image]

	mu      sync.Mutex
	loading map[string]bool
}

// NewTextureCache creates a cache holding up to size textures
func NewTextureCache(size int) *TextureCache {
	cache, err := lru.NewWithEvict[string, *ebiten.Image](size, func(_ string, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	})
	if err != nil {
		log.Printf("Error: Failed to create texture cache: %v", err)
		cache, _ = lru.NewWithEvict[string, *ebiten.Image](16, func(_ string, img *ebiten.Image) {
			if img != nil {
				img.Deallocate()
			}
		})
	}
	return &TextureCache{cache: cache, loading: make(map[string]bool)}
}

// Get returns the texture for path, decoding it on a miss.
// A file that cannot be decoded yields an error placeholder.
func (c *TextureCache) Get(path string) *ebiten.Image {
	if img, ok := c.cache.Get(path); ok {
		return img
	}

	img, err := loadTexture(path)
	if err != nil {
		log.Printf("Error: Failed to load image %s: %v", path, err)
		return CreateErrorImage(400, 300, path, err.Error())
	}
	c.cache.Add(path, img)
	debugLog("Cache MISS: %s (cache: %d items)", path, c.cache.Len())
	return img
}

// Peek returns the texture for path only if it is already loaded
func (c *TextureCache) Peek(path string) (*ebiten.Image, bool) {
	return c.cache.Peek(path)
}

// Preload decodes paths in the background
func (c *TextureCache) Preload(paths ...string) {
	for _, path := range paths {
		if c.cache.Contains(path) {
			continue
		}
		c.mu.Lock()
		if c.loading[path] {
			c.mu.Unlock()
			continue
		}
		c.loading[path] = true
		c.mu.Unlock()

		go func(path string) {
			defer func() {
				c.mu.Lock()
				delete(c.loading, path)
				c.mu.Unlock()
			}()
			img, err := loadTexture(path)
			if err != nil {
				debugLog("Preload failed for %s: %v", path, err)
				return
			}
			c.cache.Add(path, img)
			debugLog("Preloaded %s (cache: %d items)", path, c.cache.Len())
		}(path)
	}
}

// Forget drops the texture for path, e.g. after it was moved to the trash
func (c *TextureCache) Forget(path string) {
	c.cache.Remove(path)
}

func loadTexture(path string) (*ebiten.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %v", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}
