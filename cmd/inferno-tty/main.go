package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/inferno/internal/audio"
	"github.com/iburimskiy/inferno/internal/audio/device"
	"github.com/iburimskiy/inferno/internal/config"
	"github.com/iburimskiy/inferno/internal/inferno"
	"github.com/iburimskiy/inferno/internal/logging"
	"github.com/iburimskiy/inferno/internal/rng"
	"github.com/iburimskiy/inferno/internal/tty"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	debug := flag.Bool("debug", false, "Log session detail")
	logPath := flag.String("log", "", "Append logs to this file (the terminal is otherwise silent)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	traceDir := flag.String("trace-dir", "", "Directory for per-session trace CSVs (overrides config)")
	mute := flag.Bool("mute", false, "Disable the completion sound")

	flag.Parse()

	if err := run(*configPath, *debug, *logPath, *seed, *traceDir, *mute); err != nil {
		fmt.Fprintf(os.Stderr, "inferno-tty: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, debug bool, logPath string, seed int64, traceDir string, mute bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if traceDir != "" {
		cfg.Telemetry.Dir = traceDir
	}
	if mute {
		cfg.Audio.Enabled = false
	}
	// Desktop notifications are a windowed feature.
	cfg.Notify.Enabled = false

	// The screen owns stdout and stderr while running.
	log, closeLog, err := logging.Setup(debug, logPath, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	var out audio.Output
	if cfg.Audio.Enabled {
		out = device.Speaker{}
	}
	src := rng.New(seed)
	fx, err := inferno.NewEffects(cfg, out, src, log)
	if err != nil {
		return err
	}
	defer fx.Close()

	core := inferno.New(cfg, src, log, fx.Options()...)
	defer core.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := tty.New(screen, core, cfg, log)
	log.Info("starting", "seed", seed)
	err = app.Run(ctx, time.Second/time.Duration(cfg.Window.TPS))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
