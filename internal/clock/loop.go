package clock

import (
	"context"
	"time"
)

// Loop calls frame every period with the wall time elapsed since the previous
// call, until ctx is done. It returns ctx.Err().
func Loop(ctx context.Context, period time.Duration, frame func(dt time.Duration)) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := ctx.Err(); err != nil {
				return err
			}
			frame(now.Sub(last))
			last = now
		}
	}
}
