package qudmap

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Nil(t, cfg.View.Validate())
	assert.Equal(t, 1280, cfg.View.Overlay.Width)
	assert.Equal(t, 600, cfg.View.Overlay.Height)
	assert.Equal(t, 0, (cfg.Tiles.ZonesX*1280)%cfg.Tiles.TileLength)
	assert.Equal(t, 0, (cfg.Tiles.ZonesY*600)%cfg.Tiles.TileLength)
}

func TestLoadConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "qudmap")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	fname := filepath.Join(dir, "qudmap.yaml")
	data := `
tiles:
  tileLength: 300
server:
  address: ":9000"
view:
  overlay: {name: world, width: 640, height: 300}
  thresholds: {layerSwitch: 4, pixelatedRender: 7}
  levels:
    - {id: 0, space: {name: tiled, width: 4096, height: 600}, nativeZoom: 4, rowOffset: 10, ext: webp}
  maxZoom: 8
`
	require.Nil(t, ioutil.WriteFile(fname, []byte(data), 0644))

	cfg, err := LoadConfig(fname)
	require.Nil(t, err)

	assert.Equal(t, 300, cfg.Tiles.TileLength)
	assert.Equal(t, "tiles", cfg.Tiles.OutDir) // untouched default
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, 640, cfg.View.Overlay.Width)
	assert.Equal(t, 7.0, cfg.View.Thresholds.PixelatedRender)
	require.Equal(t, 1, len(cfg.View.Levels))
	assert.Equal(t, "webp", cfg.View.Levels[0].Ext)
}

func TestLoadConfigInvalidView(t *testing.T) {
	dir, err := ioutil.TempDir("", "qudmap")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	fname := filepath.Join(dir, "bad.yaml")
	require.Nil(t, ioutil.WriteFile(fname, []byte("view:\n  levels: []\n"), 0644))

	_, err = LoadConfig(fname)
	assert.NotNil(t, err)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Nil(t, err)
	assert.Equal(t, DefaultConfig().Server, cfg.Server)
}
