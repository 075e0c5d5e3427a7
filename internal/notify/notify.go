// Package notify shows a desktop notification when a session settles and
// offers the native file picker for the completion sound.
package notify

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ncruces/zenity"

	"github.com/iburimskiy/inferno/internal/gauge"
)

// Notifier posts one desktop notification per settled session.
type Notifier struct {
	title string
	log   *slog.Logger
	send  func(text string, options ...zenity.Option) error

	wg sync.WaitGroup
}

// New returns a Notifier using zenity.Notify.
func New(title string, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{title: title, log: log, send: zenity.Notify}
}

// Message is the notification body for a result.
func Message(res gauge.Result) string {
	return fmt.Sprintf("%.2f Mb/s: %s", res.Final, res.VerdictText)
}

// Complete posts the notification without blocking the caller.
func (n *Notifier) Complete(res gauge.Result) {
	text := Message(res)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.send(text, zenity.Title(n.title), zenity.InfoIcon); err != nil {
			n.log.Warn("notification failed", "session", res.Session, "err", err)
			return
		}
		n.log.Debug("notification sent", "session", res.Session)
	}()
}

// Wait blocks until every posted notification has returned.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// PickSound opens the native picker for a completion sound. A cancelled
// dialog returns an empty path and no error.
func PickSound() (string, error) {
	path, err := zenity.SelectFile(
		zenity.Title("Choose Completion Sound"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", err
	}
	return path, nil
}
