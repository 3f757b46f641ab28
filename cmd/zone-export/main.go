package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/voidshard/qudmap"
	"github.com/voidshard/qudmap/export"
)

const desc = `Renders zone dumps (per-cell glyphs written by the in-game helper) to png images.

With --zone a single zone is written to --output. Otherwise the world map zone is written to
<output>/world.png along with every zone of the chosen parasang rows, named after their zone IDs.`

var cli struct {
	Config string `short:"c" help:"yaml config file" type:"path"`

	// where zone dumps live ({id}.json)
	Input string `short:"i" default:"dumps" help:"directory of zone dumps"`

	// file (single zone) or directory (world)
	Output string `short:"o" help:"output file or directory (default: zone.png or the configured zone dir)"`

	Sprites string `short:"s" help:"sprite directory (default: from config)"`

	Zone string `short:"z" help:"export only this zone ID"`

	Rows    []int `help:"parasang rows to export (default: all)"`
	Columns int   `default:"80" help:"parasangs per row"`
	Depth   int   `default:"10" help:"zone depth to slice"`

	Verbose bool `short:"v" help:"debug logging"`
}

func setLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("zone-export"),
		kong.Description(desc),
	)
	setLogger(cli.Verbose)

	cfg, err := qudmap.LoadConfig(cli.Config)
	ctx.FatalIfErrorf(err)

	spriteDir := cfg.Export.SpriteDir
	if cli.Sprites != "" {
		spriteDir = cli.Sprites
	}
	sprites, err := export.NewSpriteDir(spriteDir, 0)
	ctx.FatalIfErrorf(err)

	suppress := export.NewSuppressions()
	messages := export.NewMessageLog(suppress)

	r := export.NewRenderer(sprites, suppress)
	r.CellWidth = cfg.Export.CellWidth
	r.CellHeight = cfg.Export.CellHeight
	if cfg.Export.BaseColor != "" {
		r.Base, err = export.ParseHex(cfg.Export.BaseColor)
		ctx.FatalIfErrorf(err)
	}

	world := &export.DumpDir{Root: cli.Input, Messages: messages}

	if cli.Zone != "" {
		out := cli.Output
		if out == "" {
			out = "zone.png"
		}

		z, err := world.Zone(cli.Zone)
		ctx.FatalIfErrorf(err)
		ctx.FatalIfErrorf(r.ExportZone(z, out))
		return
	}

	out := cli.Output
	if out == "" {
		out = cfg.Tiles.ZoneDir
	}

	opts := export.DefaultWorldOptions()
	opts.Columns = cli.Columns
	opts.Depth = cli.Depth
	if len(cli.Rows) > 0 {
		opts.Rows = cli.Rows
	}

	err = r.ExportWorld(world, out, opts)
	ctx.FatalIfErrorf(err)

	if messages.Dropped() > 0 {
		slog.Debug("suppressed journal messages", "count", messages.Dropped())
	}
	fmt.Println("wrote", filepath.Join(out, "world.png"))
}
