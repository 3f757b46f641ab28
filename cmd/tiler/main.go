package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/voidshard/qudmap"
	"github.com/voidshard/qudmap/export"
	"github.com/voidshard/qudmap/tiler"
)

const desc = `Cuts exported zone images into square tiles for the viewer.

The finest configured level is cut straight from the zone images, every coarser level is then
built by merging & shrinking blocks of the level below it. Tiles already written are skipped
unless --overwrite is given.`

var cli struct {
	Config string `short:"c" help:"yaml config file" type:"path"`

	Input  string `short:"i" help:"directory of zone images (default: from config)"`
	Output string `short:"o" help:"tile output directory (default: from config)"`
	Index  string `help:"sqlite tile index (default: from config, empty to disable)"`

	Workers int `short:"w" help:"tiles built at once (default: from config)"`

	// tell us it's ok to overwrite existing stuff (default: no)
	Overwrite bool `help:"overwrite existing tile(s) if found"`

	AllowMissing bool `help:"leave zones without an image transparent"`

	// write a small image of the whole map built from the coarsest level
	Overview string `help:"also write an overview image at the overlay size to this path"`

	// don't write anything
	DryRun bool `help:"print out what you're planning"`

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
	kctx := kong.Parse(
		&cli,
		kong.Name("tiler"),
		kong.Description(desc),
	)
	setLogger(cli.Verbose)

	cfg, err := qudmap.LoadConfig(cli.Config)
	kctx.FatalIfErrorf(err)

	if cli.Input != "" {
		cfg.Tiles.ZoneDir = cli.Input
	}
	if cli.Output != "" {
		cfg.Tiles.OutDir = cli.Output
	}
	if cli.Index != "" {
		cfg.Tiles.IndexPath = cli.Index
	}
	if cli.Workers > 0 {
		cfg.Tiles.Workers = cli.Workers
	}

	g := tiler.DefaultGeometry()
	g.ZoneWidth = cfg.Export.CellWidth * 80
	g.ZoneHeight = cfg.Export.CellHeight * 25
	g.ZonesX = cfg.Tiles.ZonesX
	g.ZonesY = cfg.Tiles.ZonesY
	g.TileLength = cfg.Tiles.TileLength
	kctx.FatalIfErrorf(g.Validate())

	levels := cfg.View.Levels
	cols, rows := g.Grid()
	fmt.Printf("map %dx%d px, %dx%d tiles of %d px\n", g.Bounds().Dx(), g.Bounds().Dy(), cols, rows, g.TileLength)
	for i := len(levels) - 1; i >= 0; i-- {
		fmt.Printf("level %d: %dx%d tiles -> %s\n", levels[i].ID, levels[i].Columns, levels[i].Rows, filepath.Join(cfg.Tiles.OutDir, levels[i].TileFile(0, 0)))
	}

	if cli.DryRun {
		fmt.Println("dry-run detected: doing nothing")
		return
	}

	zones, err := tiler.NewDirImages(cfg.Tiles.ZoneDir, cfg.Tiles.ZoneExt, 0)
	kctx.FatalIfErrorf(err)

	t := tiler.New(g, zones)
	t.Workers = cfg.Tiles.Workers
	t.Overwrite = cli.Overwrite
	t.AllowMissing = cli.AllowMissing

	if cfg.Tiles.IndexPath != "" {
		idx, err := tiler.OpenIndex(cfg.Tiles.IndexPath)
		kctx.FatalIfErrorf(err)
		defer idx.Close()
		t.Index = idx
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	finest := &levels[len(levels)-1]
	kctx.FatalIfErrorf(t.Level0(ctx, finest, cfg.Tiles.OutDir))

	for i := len(levels) - 2; i >= 0; i-- {
		src, dst := &levels[i+1], &levels[i]
		factor := 1 << uint(src.NativeZoom-dst.NativeZoom)
		kctx.FatalIfErrorf(t.Downsample(ctx, src, dst, cfg.Tiles.OutDir, factor))
	}

	if cli.Overview != "" {
		im, err := t.Overview(&levels[0], cfg.Tiles.OutDir, cfg.View.Overlay.Width, cfg.View.Overlay.Height)
		kctx.FatalIfErrorf(err)
		_, err = export.WritePNG(cli.Overview, im)
		kctx.FatalIfErrorf(err)
	}
}
