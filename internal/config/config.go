// Package config loads the tuning for the fire field, the speed session and
// the gauge. Values come from embedded defaults, optionally overlaid by a
// user YAML file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/inferno/internal/fire"
	"github.com/iburimskiy/inferno/internal/gauge"
	"github.com/iburimskiy/inferno/internal/speed"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full application configuration.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Fire      FireConfig      `yaml:"fire"`
	Speed     SpeedConfig     `yaml:"speed"`
	Gauge     GaugeConfig     `yaml:"gauge"`
	Audio     AudioConfig     `yaml:"audio"`
	Notify    NotifyConfig    `yaml:"notify"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// WindowConfig holds the desktop window size and update rate.
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	TPS    int `yaml:"tps"`
}

// FireConfig holds the ember field tuning.
type FireConfig struct {
	BandHeight int     `yaml:"band_height"` // fire surface height; pointer band
	Cap        int     `yaml:"cap"`
	Batch      int     `yaml:"batch"`
	SizeMin    float64 `yaml:"size_min"`
	SizeSpan   float64 `yaml:"size_span"`
	RiseMin    float64 `yaml:"rise_min"`
	RiseSpan   float64 `yaml:"rise_span"`
	Drift      float64 `yaml:"drift"`
	DecayMin   float64 `yaml:"decay_min"`
	DecaySpan  float64 `yaml:"decay_span"`
	Damping    float64 `yaml:"damping"`
	Radius     float64 `yaml:"radius"`
	Push       float64 `yaml:"push"`
	Steer      float64 `yaml:"steer"`
}

// SpeedConfig holds the session timing and trajectory shape.
type SpeedConfig struct {
	DurationMS   int     `yaml:"duration_ms"`
	TickMS       int     `yaml:"tick_ms"`
	MaxCatchUp   int     `yaml:"max_catch_up"` // ticks replayed after a stalled frame
	MinFinal     float64 `yaml:"min_final"`
	SpanFinal    float64 `yaml:"span_final"`
	BurstFactor  float64 `yaml:"burst_factor"`
	FollowGain   float64 `yaml:"follow_gain"`
	RampEnd      float64 `yaml:"ramp_end"`
	BurstEnd     float64 `yaml:"burst_end"`
	RampExponent float64 `yaml:"ramp_exponent"`
	WobbleFreq   float64 `yaml:"wobble_freq"`
	WobbleAmp    float64 `yaml:"wobble_amp"`
	Noise        float64 `yaml:"noise"`
}

// GaugeConfig holds the display mapping, cooldown and verdict bands.
type GaugeConfig struct {
	Max        float64      `yaml:"max"`
	EmptyY     float64      `yaml:"empty_y"`
	FullY      float64      `yaml:"full_y"`
	CooldownMS int          `yaml:"cooldown_ms"`
	Low        float64      `yaml:"low"`
	High       float64      `yaml:"high"`
	Labels     LabelsConfig `yaml:"labels"`
}

// LabelsConfig holds the status and verdict strings.
type LabelsConfig struct {
	Ready     string `yaml:"ready"`
	Ascending string `yaml:"ascending"`
	Low       string `yaml:"low"`
	Mid       string `yaml:"mid"`
	High      string `yaml:"high"`
}

// AudioConfig controls the completion sound.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SoundPath  string  `yaml:"sound_path"` // wav, mp3 or flac; empty synthesizes a rustle
	Volume     float64 `yaml:"volume"`     // base-2 exponent, 0 is unity gain
	SampleRate int     `yaml:"sample_rate"`
}

// NotifyConfig controls the desktop notification.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Title   string `yaml:"title"`
}

// TelemetryConfig controls the per-session trace output.
type TelemetryConfig struct {
	Dir string `yaml:"dir"` // empty disables tracing
}

// Load reads the embedded defaults and overlays path when it is non-empty.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Validate reports every out-of-range value.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d", c.Window.Width, c.Window.Height)
	check(c.Window.TPS > 0, "window.tps %d", c.Window.TPS)

	check(c.Fire.BandHeight > 0, "fire.band_height %d", c.Fire.BandHeight)
	check(c.Fire.Cap >= 0, "fire.cap %d", c.Fire.Cap)
	check(c.Fire.Batch >= 0, "fire.batch %d", c.Fire.Batch)
	check(c.Fire.DecayMin > 0, "fire.decay_min %v must be positive", c.Fire.DecayMin)
	check(c.Fire.Damping >= 0 && c.Fire.Damping <= 1, "fire.damping %v outside [0,1]", c.Fire.Damping)

	check(c.Speed.DurationMS > 0, "speed.duration_ms %d", c.Speed.DurationMS)
	check(c.Speed.TickMS > 0, "speed.tick_ms %d", c.Speed.TickMS)
	check(c.Speed.SpanFinal >= 1, "speed.span_final %v", c.Speed.SpanFinal)
	check(c.Speed.MinFinal >= 0, "speed.min_final %v", c.Speed.MinFinal)
	check(c.Speed.FollowGain > 0 && c.Speed.FollowGain <= 1, "speed.follow_gain %v outside (0,1]", c.Speed.FollowGain)
	check(c.Speed.RampEnd > 0 && c.Speed.RampEnd < c.Speed.BurstEnd && c.Speed.BurstEnd <= 1,
		"speed phases ramp_end=%v burst_end=%v", c.Speed.RampEnd, c.Speed.BurstEnd)

	check(c.Gauge.Max > 0, "gauge.max %v", c.Gauge.Max)
	check(c.Gauge.CooldownMS >= 0, "gauge.cooldown_ms %d", c.Gauge.CooldownMS)
	check(c.Gauge.Low <= c.Gauge.High, "gauge verdict bands low=%v high=%v", c.Gauge.Low, c.Gauge.High)

	check(c.Audio.SampleRate > 0, "audio.sample_rate %d", c.Audio.SampleRate)

	return errors.Join(errs...)
}

// FireParams converts the fire section.
func (c *Config) FireParams() fire.Params {
	f := c.Fire
	return fire.Params{
		Cap:       f.Cap,
		Batch:     f.Batch,
		SizeMin:   f.SizeMin,
		SizeSpan:  f.SizeSpan,
		RiseMin:   f.RiseMin,
		RiseSpan:  f.RiseSpan,
		Drift:     f.Drift,
		DecayMin:  f.DecayMin,
		DecaySpan: f.DecaySpan,
		Damping:   f.Damping,
		Radius:    f.Radius,
		Push:      f.Push,
		Steer:     f.Steer,
	}
}

// SpeedParams converts the speed section.
func (c *Config) SpeedParams() speed.Params {
	s := c.Speed
	return speed.Params{
		Duration:    time.Duration(s.DurationMS) * time.Millisecond,
		Tick:        time.Duration(s.TickMS) * time.Millisecond,
		MinFinal:    s.MinFinal,
		SpanFinal:   s.SpanFinal,
		BurstFactor: s.BurstFactor,
		FollowGain:  s.FollowGain,
		Curve: speed.Curve{
			RampEnd:      s.RampEnd,
			BurstEnd:     s.BurstEnd,
			RampExponent: s.RampExponent,
			WobbleFreq:   s.WobbleFreq,
			WobbleAmp:    s.WobbleAmp,
			Noise:        s.Noise,
		},
	}
}

// GaugeParams converts the gauge section, including the session it drives.
func (c *Config) GaugeParams() gauge.Params {
	g := c.Gauge
	return gauge.Params{
		Session:    c.SpeedParams(),
		Cooldown:   time.Duration(g.CooldownMS) * time.Millisecond,
		Thresholds: gauge.Thresholds{Low: g.Low, High: g.High},
		Fill:       gauge.Fill{Max: g.Max, Empty: g.EmptyY, Full: g.FullY},
		Labels: gauge.Labels{
			Ready:     g.Labels.Ready,
			Ascending: g.Labels.Ascending,
			Low:       g.Labels.Low,
			Mid:       g.Labels.Mid,
			High:      g.Labels.High,
		},
	}
}

// WriteYAML saves the configuration, e.g. next to a telemetry trace.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
