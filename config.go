package qudmap

import (
	"fmt"
	"io/ioutil"

	"github.com/go-yaml/yaml"
	"github.com/mitchellh/go-homedir"
)

// Config includes settings for every tool in this repo.
type Config struct {
	View   *View        `yaml:"view"`
	Export ExportConfig `yaml:"export"`
	Tiles  TilesConfig  `yaml:"tiles"`
	Server ServerConfig `yaml:"server"`
}

// ExportConfig configures rendering zones to images.
type ExportConfig struct {
	// in pixels
	CellWidth  int `yaml:"cellWidth"`
	CellHeight int `yaml:"cellHeight"`

	// directory of glyph sprites
	SpriteDir string `yaml:"spriteDir"`

	// color drawn where a sprite is transparent, as a hex web color
	BaseColor string `yaml:"baseColor"`
}

// TilesConfig configures cutting exported zones into tiles.
type TilesConfig struct {
	// where exported zone images live and their extension
	ZoneDir string `yaml:"zoneDir"`
	ZoneExt string `yaml:"zoneExt"`

	// where tiles are written
	OutDir string `yaml:"outDir"`

	// in pixels, must divide the map width & height
	TileLength int `yaml:"tileLength"`

	// in zones
	ZonesX int `yaml:"zonesX"`
	ZonesY int `yaml:"zonesY"`

	// sqlite file recording written tiles, empty to disable
	IndexPath string `yaml:"indexPath"`

	Workers int `yaml:"workers"`
}

// ServerConfig configures the viewer.
type ServerConfig struct {
	Address   string `yaml:"address"`
	TilesDir  string `yaml:"tilesDir"`
	WorldDir  string `yaml:"worldDir"`
	IndexPath string `yaml:"indexPath"`

	// number of tile files kept in memory
	CacheSize int `yaml:"cacheSize"`
}

// DefaultConfig returns a config with default settings.
func DefaultConfig() *Config {
	return &Config{
		View: DefaultView(),
		Export: ExportConfig{
			CellWidth:  16,
			CellHeight: 24,
			SpriteDir:  "sprites",
			BaseColor:  "041312",
		},
		Tiles: TilesConfig{
			ZoneDir:    "worldmap",
			ZoneExt:    "png",
			OutDir:     "tiles",
			TileLength: 600,
			ZonesX:     80 * 3,
			ZonesY:     25 * 3,
			Workers:    4,
		},
		Server: ServerConfig{
			Address:   "localhost:8080",
			TilesDir:  "tiles",
			WorldDir:  "worldmap",
			CacheSize: 512,
		},
	}
}

// LoadConfig reads a YAML file over the defaults.
// Any path settings have '~' expanded.
func LoadConfig(fname string) (*Config, error) {
	cfg := DefaultConfig()
	if fname == "" {
		return cfg, cfg.expand()
	}

	path, err := homedir.Expand(fname)
	if err != nil {
		return nil, err
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.View == nil {
		cfg.View = DefaultView()
	}
	if err := cfg.View.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, cfg.expand()
}

func (c *Config) expand() error {
	paths := []*string{
		&c.Export.SpriteDir,
		&c.Tiles.ZoneDir,
		&c.Tiles.OutDir,
		&c.Tiles.IndexPath,
		&c.Server.TilesDir,
		&c.Server.WorldDir,
		&c.Server.IndexPath,
	}
	for _, p := range paths {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}
