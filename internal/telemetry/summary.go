package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/iburimskiy/inferno/internal/gauge"
	"github.com/iburimskiy/inferno/internal/speed"
)

// Summary is one settled session in sessions.csv.
type Summary struct {
	Session   int     `csv:"session"`
	Final     float64 `csv:"final"`
	Verdict   string  `csv:"verdict"`
	Ticks     int     `csv:"ticks"`
	ElapsedMS int64   `csv:"elapsed_ms"`

	// Displayed values over the whole climb
	Peak      float64 `csv:"peak"`
	Overshoot float64 `csv:"overshoot"` // peak above final

	// Displayed values during the wobble phase
	WobbleMean float64 `csv:"wobble_mean"`
	WobbleStd  float64 `csv:"wobble_std"`
}

// Summarize reduces a session's ticks to a Summary.
func Summarize(res gauge.Result, rows []TraceRow) Summary {
	s := Summary{
		Session:   res.Session,
		Final:     res.Final,
		Verdict:   res.Verdict.String(),
		Ticks:     res.Ticks,
		ElapsedMS: res.Elapsed.Milliseconds(),
	}
	if len(rows) == 0 {
		return s
	}

	display := make([]float64, len(rows))
	var wobble []float64
	for i, row := range rows {
		display[i] = row.Display
		if row.Phase == speed.PhaseWobble.String() {
			wobble = append(wobble, row.Display)
		}
	}

	s.Peak = floats.Max(display)
	if s.Peak > res.Final {
		s.Overshoot = s.Peak - res.Final
	}
	if len(wobble) > 0 {
		s.WobbleMean = stat.Mean(wobble, nil)
	}
	if len(wobble) > 1 {
		s.WobbleStd = stat.StdDev(wobble, nil)
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("session", s.Session),
		slog.Float64("final", s.Final),
		slog.String("verdict", s.Verdict),
		slog.Int("ticks", s.Ticks),
		slog.Int64("elapsed_ms", s.ElapsedMS),
		slog.Float64("peak", s.Peak),
		slog.Float64("overshoot", s.Overshoot),
		slog.Float64("wobble_mean", s.WobbleMean),
		slog.Float64("wobble_std", s.WobbleStd),
	)
}
