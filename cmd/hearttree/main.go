// Hearttree plays the heart-tree proposal showcase: a final yes/no choice,
// an emoji burst, then a tree of glowing hearts growing over a field of
// floating hearts and sparkles.
//
// Usage:
//
//	hearttree [-config config.yaml] [-debug] [-script autoplay.json]
//
// Press F12 to save a screenshot. A script plays clicks and screenshots
// unattended; see hearttree.ScriptRunner for the actions.
package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/hearttree"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	debug := flag.Bool("debug", false, "log frame stats and show the FPS overlay")
	scriptPath := flag.String("script", "", "path to a JSON autoplay script")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	hearttree.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := hearttree.LoadConfig(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		hearttree.Logger().Info("config not found, using defaults", "path", *configPath)
		cfg, err = hearttree.DefaultConfig(), nil
	}
	if err != nil {
		log.Fatal(err)
	}
	cfg.Debug = cfg.Debug || *debug

	app, err := hearttree.NewApp(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if *scriptPath != "" {
		runner, err := hearttree.LoadScript(*scriptPath)
		if err != nil {
			log.Fatal(err)
		}
		app.SetScript(runner)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}
