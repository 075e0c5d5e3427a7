package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/inferno/internal/audio"
	"github.com/iburimskiy/inferno/internal/audio/device"
	"github.com/iburimskiy/inferno/internal/config"
	"github.com/iburimskiy/inferno/internal/game"
	"github.com/iburimskiy/inferno/internal/inferno"
	"github.com/iburimskiy/inferno/internal/logging"
	"github.com/iburimskiy/inferno/internal/notify"
	"github.com/iburimskiy/inferno/internal/rng"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	debug := flag.Bool("debug", false, "Log session detail")
	logPath := flag.String("log", "", "Append logs to this file instead of stderr")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	traceDir := flag.String("trace-dir", "", "Directory for per-session trace CSVs (overrides config)")
	mute := flag.Bool("mute", false, "Disable the completion sound")
	notifyOn := flag.Bool("notify", false, "Show a desktop notification when a session settles")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *traceDir != "" {
		cfg.Telemetry.Dir = *traceDir
	}
	if *mute {
		cfg.Audio.Enabled = false
	}
	if *notifyOn {
		cfg.Notify.Enabled = true
	}

	log, closeLog, err := logging.Setup(*debug, *logPath, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	src := rng.New(*seed)
	fx, err := inferno.NewEffects(cfg, output(cfg), src, log)
	if err != nil {
		log.Error("failed to create effects", "err", err)
		os.Exit(1)
	}
	defer fx.Close()

	core := inferno.New(cfg, src, log, fx.Options()...)
	defer core.Close()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle("Inferno Speed - Space: pull lever, R: reset, O: sound, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)

	g := game.New(cfg, core, game.Options{
		Chime:     fx.Chime,
		PickSound: notify.PickSound,
		Log:       log,
	})
	log.Info("starting", "seed", *seed, "trace_dir", cfg.Telemetry.Dir)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error("game stopped", "err", err)
		fx.Close()
		os.Exit(1)
	}
}

func output(cfg *config.Config) audio.Output {
	if !cfg.Audio.Enabled {
		return nil
	}
	return device.Speaker{}
}
