package tiler

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ZoneImages returns exported zone images by zone ID.
type ZoneImages interface {
	Zone(id string) (image.Image, error)
}

// DirImages reads zone images named {id}.{ext} from a directory, keeping the
// most recently used ones decoded in memory.
type DirImages struct {
	root  string
	ext   string
	cache *lru.Cache[string, image.Image]
}

// NewDirImages returns zone images from `root`. `size` is the number of
// decoded zones to keep.
func NewDirImages(root, ext string, size int) (*DirImages, error) {
	if ext == "" {
		ext = "png"
	}
	if size <= 0 {
		size = 16
	}
	cache, err := lru.New[string, image.Image](size)
	if err != nil {
		return nil, err
	}
	return &DirImages{root: root, ext: ext, cache: cache}, nil
}

// Zone decodes the image for `id`. Missing files return an error
// satisfying os.IsNotExist.
func (d *DirImages) Zone(id string) (image.Image, error) {
	if im, ok := d.cache.Get(id); ok {
		return im, nil
	}

	f, err := os.Open(filepath.Join(d.root, fmt.Sprintf("%s.%s", id, d.ext)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	im, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding zone %s: %w", id, err)
	}

	d.cache.Add(id, im)
	return im, nil
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

// fileExists checks if file exists
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
