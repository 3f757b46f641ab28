package export

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
)

// SpriteDir loads sprites from image files under a directory.
// Sprite names are paths relative to the directory, eg. "Terrain/sw_grass1.bmp".
// If the named file doesn't exist the same name with a .png extension is tried.
type SpriteDir struct {
	root  string
	cache *lru.Cache[string, image.Image]
}

// NewSpriteDir returns sprites from `root` keeping up to `size` decoded
// sprites in memory.
func NewSpriteDir(root string, size int) (*SpriteDir, error) {
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[string, image.Image](size)
	if err != nil {
		return nil, err
	}
	return &SpriteDir{root: root, cache: cache}, nil
}

// Sprite returns the named sprite or nil if there is no file for it.
func (s *SpriteDir) Sprite(name string) (image.Image, error) {
	if im, ok := s.cache.Get(name); ok {
		return im, nil
	}

	clean := filepath.Clean("/" + filepath.FromSlash(name))
	candidates := []string{
		filepath.Join(s.root, clean),
		filepath.Join(s.root, strings.TrimSuffix(clean, filepath.Ext(clean))+".png"),
	}

	for _, fname := range candidates {
		im, err := decodeFile(fname)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("sprite %s: %w", name, err)
		}
		s.cache.Add(name, im)
		return im, nil
	}

	s.cache.Add(name, nil)
	return nil, nil
}

// decodeFile reads any registered image format from disk.
func decodeFile(fname string) (image.Image, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	im, _, err := image.Decode(f)
	return im, err
}

// MemSprites is an in memory Sprites.
type MemSprites map[string]image.Image

// Sprite returns the named sprite or nil.
func (m MemSprites) Sprite(name string) (image.Image, error) {
	return m[name], nil
}
