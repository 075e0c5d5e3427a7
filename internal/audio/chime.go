// Package audio plays the one-shot completion sound when a session settles.
package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"

	"github.com/iburimskiy/inferno/internal/gauge"
	"github.com/iburimskiy/inferno/internal/rng"
)

const rustleLength = 700 * time.Millisecond

// Output is the audio device the chime plays through.
type Output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
}

// Options configures a Chime.
type Options struct {
	Enabled    bool
	SoundPath  string // empty synthesizes a rustle
	Volume     float64
	SampleRate int
	RingSize   int
}

// Chime holds the completion sound in memory and plays it on demand.
type Chime struct {
	out      Output
	log      *slog.Logger
	rate     beep.SampleRate
	volume   float64
	enabled  bool
	ringSize int

	mu       sync.Mutex
	initDone bool
	sound    *beep.Buffer
	plays    int

	tap atomic.Pointer[levelTap]
}

// NewChime prepares the completion sound. A sound file that fails to load is
// an error; with no file a rustle is synthesized from src.
func NewChime(opts Options, out Output, src rng.Source, log *slog.Logger) (*Chime, error) {
	if log == nil {
		log = slog.Default()
	}
	c := &Chime{
		out:      out,
		log:      log,
		rate:     beep.SampleRate(opts.SampleRate),
		volume:   opts.Volume,
		enabled:  opts.Enabled,
		ringSize: opts.RingSize,
	}
	if c.ringSize <= 0 {
		c.ringSize = c.rate.N(time.Second / 10)
	}

	if opts.SoundPath != "" {
		if err := c.Load(opts.SoundPath); err != nil {
			return nil, err
		}
		return c, nil
	}

	buf := beep.NewBuffer(c.format())
	buf.Append(NewRustle(c.rate, rustleLength, src))
	c.sound = buf
	return c, nil
}

func (c *Chime) format() beep.Format {
	return beep.Format{SampleRate: c.rate, NumChannels: 2, Precision: 2}
}

// Load replaces the completion sound with a decoded file, resampled to the
// chime's rate.
func (c *Chime) Load(path string) error {
	streamer, format, err := Decode(path)
	if err != nil {
		return err
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != c.rate {
		s = beep.Resample(4, format.SampleRate, c.rate, streamer)
	}
	buf := beep.NewBuffer(c.format())
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	c.mu.Lock()
	c.sound = buf
	c.mu.Unlock()
	c.log.Info("completion sound loaded", "path", path, "samples", buf.Len())
	return nil
}

// Len returns the sound length in samples.
func (c *Chime) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sound.Len()
}

// Plays returns how many times the sound has been started.
func (c *Chime) Plays() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plays
}

// Complete plays the sound for a settled session.
func (c *Chime) Complete(res gauge.Result) {
	if err := c.Play(); err != nil {
		c.log.Warn("completion sound failed", "session", res.Session, "err", err)
	}
}

// Play starts the sound. The output is initialized on first use.
func (c *Chime) Play() error {
	if !c.enabled || c.out == nil {
		return nil
	}

	c.mu.Lock()
	if !c.initDone {
		if err := c.out.Init(c.rate, c.rate.N(time.Second/20)); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("initializing speaker: %w", err)
		}
		c.initDone = true
	}
	sound := c.sound
	c.plays++
	c.mu.Unlock()

	vol := &effects.Volume{
		Streamer: sound.Streamer(0, sound.Len()),
		Base:     2,
		Volume:   c.volume,
	}
	tap := newLevelTap(vol, c.ringSize)
	c.tap.Store(tap)

	// The output calls back from its own goroutine; only the atomic tap is touched there.
	c.out.Play(beep.Seq(tap, beep.Callback(func() {
		c.tap.CompareAndSwap(tap, nil)
	})))
	return nil
}

// Level returns the loudness of the last ~33ms of the playing sound, 0 when silent.
func (c *Chime) Level() float64 {
	tap := c.tap.Load()
	if tap == nil {
		return 0
	}
	return tap.level(c.rate.N(time.Second / 30))
}

// Close stops playback.
func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initDone && c.out != nil {
		c.out.Clear()
	}
	c.tap.Store(nil)
}
