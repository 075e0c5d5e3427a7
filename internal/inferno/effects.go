package inferno

import (
	"fmt"
	"log/slog"

	"github.com/iburimskiy/inferno/internal/audio"
	"github.com/iburimskiy/inferno/internal/config"
	"github.com/iburimskiy/inferno/internal/gauge"
	"github.com/iburimskiy/inferno/internal/notify"
	"github.com/iburimskiy/inferno/internal/rng"
	"github.com/iburimskiy/inferno/internal/telemetry"
)

// Effects are the optional hooks fired when a session settles. Any field may
// be nil.
type Effects struct {
	Chime    *audio.Chime
	Notifier *notify.Notifier
	Recorder *telemetry.Recorder

	log *slog.Logger
}

// NewEffects builds the effects enabled in cfg. Audio plays through out; a
// nil out disables it. A sound file that fails to load falls back to the
// synthesized rustle.
func NewEffects(cfg *config.Config, out audio.Output, src rng.Source, log *slog.Logger) (*Effects, error) {
	if log == nil {
		log = slog.Default()
	}
	e := &Effects{log: log}

	if cfg.Audio.Enabled && out != nil {
		opts := audio.Options{
			Enabled:    true,
			SoundPath:  cfg.Audio.SoundPath,
			Volume:     cfg.Audio.Volume,
			SampleRate: cfg.Audio.SampleRate,
			RingSize:   config.LevelRingSize,
		}
		chime, err := audio.NewChime(opts, out, src, log)
		if err != nil {
			log.Warn("completion sound unavailable, using rustle", "path", opts.SoundPath, "err", err)
			opts.SoundPath = ""
			chime, err = audio.NewChime(opts, out, src, log)
			if err != nil {
				return nil, fmt.Errorf("creating completion sound: %w", err)
			}
		}
		e.Chime = chime
	}

	if cfg.Notify.Enabled {
		e.Notifier = notify.New(cfg.Notify.Title, log)
	}

	rec, err := telemetry.NewRecorder(cfg.Telemetry.Dir, log)
	if err != nil {
		return nil, err
	}
	if err := rec.WriteConfig(cfg); err != nil {
		log.Warn("config snapshot failed", "err", err)
	}
	e.Recorder = rec
	return e, nil
}

// Options returns the gauge options that attach the effects.
func (e *Effects) Options() []gauge.Option {
	var done []gauge.Completion
	if e.Chime != nil {
		done = append(done, e.Chime)
	}
	if e.Notifier != nil {
		done = append(done, e.Notifier)
	}
	var opts []gauge.Option
	if e.Recorder != nil {
		done = append(done, e.Recorder)
		opts = append(opts, gauge.WithTracer(e.Recorder))
	}
	if len(done) > 0 {
		opts = append(opts, gauge.WithCompletion(done...))
	}
	return opts
}

// Close stops the sound, waits for pending notifications and closes the
// trace files.
func (e *Effects) Close() {
	if e.Chime != nil {
		e.Chime.Close()
	}
	if e.Notifier != nil {
		e.Notifier.Wait()
	}
	if err := e.Recorder.Close(); err != nil {
		e.log.Warn("closing trace files", "err", err)
	}
}
