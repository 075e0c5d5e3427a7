// Package telemetry writes a per-tick trace of each speed session and a
// one-line summary per settled session as CSV. It is a debugging aid only;
// nothing reads the files back.
package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/iburimskiy/inferno/internal/config"
	"github.com/iburimskiy/inferno/internal/gauge"
)

// TraceRow is one session tick in trace.csv.
type TraceRow struct {
	Session   int     `csv:"session"`
	Tick      int     `csv:"tick"`
	ElapsedMS int64   `csv:"elapsed_ms"`
	Phase     string  `csv:"phase"`
	Target    float64 `csv:"target"`
	Display   float64 `csv:"display"`
}

// Recorder buffers the ticks of the running session and flushes them when
// the session settles. A nil Recorder ignores every call.
type Recorder struct {
	dir string
	log *slog.Logger

	traceFile   *os.File
	summaryFile *os.File

	traceHeaderWritten   bool
	summaryHeaderWritten bool

	pending []TraceRow
}

// NewRecorder creates dir and opens trace.csv and sessions.csv in it.
// Returns nil if dir is empty (tracing disabled).
func NewRecorder(dir string, log *slog.Logger) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}
	if log == nil {
		log = slog.Default()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating trace directory: %w", err)
	}

	r := &Recorder{dir: dir, log: log}

	f, err := os.Create(filepath.Join(dir, "trace.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating trace.csv: %w", err)
	}
	r.traceFile = f

	f, err = os.Create(filepath.Join(dir, "sessions.csv"))
	if err != nil {
		r.traceFile.Close()
		return nil, fmt.Errorf("creating sessions.csv: %w", err)
	}
	r.summaryFile = f

	return r, nil
}

// Dir returns the output directory, empty for a nil Recorder.
func (r *Recorder) Dir() string {
	if r == nil {
		return ""
	}
	return r.dir
}

// WriteConfig saves the configuration the traces were produced with.
func (r *Recorder) WriteConfig(cfg *config.Config) error {
	if r == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(r.dir, "config.yaml"))
}

// Trace buffers one tick. Ticks from an earlier, reset session are dropped.
func (r *Recorder) Trace(s gauge.Sample) {
	if r == nil {
		return
	}
	if len(r.pending) > 0 && r.pending[0].Session != s.Session {
		r.pending = r.pending[:0]
	}
	r.pending = append(r.pending, TraceRow{
		Session:   s.Session,
		Tick:      s.Tick,
		ElapsedMS: s.Elapsed.Milliseconds(),
		Phase:     s.Phase.String(),
		Target:    s.Target,
		Display:   s.Display,
	})
}

// Complete flushes the buffered ticks and appends the session summary.
func (r *Recorder) Complete(res gauge.Result) {
	if r == nil {
		return
	}
	rows := r.pending
	r.pending = nil
	if len(rows) > 0 && rows[0].Session != res.Session {
		rows = nil
	}

	if err := r.writeTrace(rows); err != nil {
		r.log.Warn("trace write failed", "session", res.Session, "err", err)
	}
	summary := Summarize(res, rows)
	if err := r.writeSummary(summary); err != nil {
		r.log.Warn("summary write failed", "session", res.Session, "err", err)
		return
	}
	r.log.Debug("session traced", "summary", summary)
}

func (r *Recorder) writeTrace(rows []TraceRow) error {
	if len(rows) == 0 {
		return nil
	}
	if !r.traceHeaderWritten {
		if err := gocsv.Marshal(rows, r.traceFile); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		r.traceHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, r.traceFile); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return nil
}

func (r *Recorder) writeSummary(s Summary) error {
	records := []Summary{s}
	if !r.summaryHeaderWritten {
		if err := gocsv.Marshal(records, r.summaryFile); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
		r.summaryHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.summaryFile); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// Close closes both files.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{r.traceFile, r.summaryFile} {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
