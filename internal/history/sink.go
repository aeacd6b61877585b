package history

import (
	"fmt"

	"github.com/Brandand88/mirror/internal/session"
	"github.com/charmbracelet/log"
)

// Sink adapts a Store to [session.EventSink]. Publish is fire-and-forget:
// append failures are logged and never surfaced to the coordinator.
type Sink struct {
	store  *Store
	logger *log.Logger
}

// NewSink creates a journal sink. The logger may be nil.
func NewSink(store *Store, logger *log.Logger) *Sink {
	return &Sink{store: store, logger: logger}
}

// Publish appends the event to the journal.
func (s *Sink) Publish(e session.Event) {
	rec := Record{Kind: e.Kind()}

	switch ev := e.(type) {
	case session.PlaybackChanged:
		rec.Detail = ev.Type.String()
		rec.PositionMS = ev.PositionMS
	case session.TrackIdentified:
		rec.Detail = fmt.Sprintf("%s - %s (%s)", ev.Track.Artist, ev.Track.Title, ev.Track.URI)
	}

	if err := s.store.Append(rec); err != nil && s.logger != nil {
		s.logger.Warn("failed to journal event", "kind", rec.Kind, "error", err)
	}
}
