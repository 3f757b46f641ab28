package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/voidshard/qudmap"
	"github.com/voidshard/qudmap/server"
	"github.com/voidshard/qudmap/tiler"
)

const desc = `Serves the world map viewer: tiles, the world overlay and the page tying them together.`

var cli struct {
	Config string `short:"c" help:"yaml config file" type:"path"`

	Address string `short:"a" help:"address to listen on (default: from config)"`
	Tiles   string `short:"t" help:"tile directory (default: from config)"`
	World   string `help:"directory holding the world overlay image (default: from config)"`
	Index   string `help:"sqlite tile index to resolve tiles with (default: from config)"`

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
	kctx := kong.Parse(&cli, kong.Name("viewer"), kong.Description(desc))
	setLogger(cli.Verbose)

	cfg, err := qudmap.LoadConfig(cli.Config)
	kctx.FatalIfErrorf(err)

	if cli.Address != "" {
		cfg.Server.Address = cli.Address
	}
	if cli.Tiles != "" {
		cfg.Server.TilesDir = cli.Tiles
	}
	if cli.World != "" {
		cfg.Server.WorldDir = cli.World
	}
	if cli.Index != "" {
		cfg.Server.IndexPath = cli.Index
	}

	s, err := server.New(cfg.View, &cfg.Server)
	kctx.FatalIfErrorf(err)

	if cfg.Server.IndexPath != "" {
		idx, err := tiler.OpenIndex(cfg.Server.IndexPath)
		kctx.FatalIfErrorf(err)
		defer idx.Close()
		s.Index = idx
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kctx.FatalIfErrorf(s.Run(ctx))
}
