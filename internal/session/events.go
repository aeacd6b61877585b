package session

import (
	"github.com/Brandand88/mirror/internal/catalog"
	"github.com/Brandand88/mirror/internal/player"
)

// Event is a domain event republished by the coordinator for the host
// application to consume.
type Event interface {
	Kind() string
}

// TrackIdentified reports that a side-channel catalog lookup resolved the
// track the engine is currently on.
type TrackIdentified struct {
	Track catalog.Track
}

func (TrackIdentified) Kind() string { return "track_identified" }

// PlaybackChanged is the generic translation of an engine notification:
// the last known stream position plus the notification's classification.
type PlaybackChanged struct {
	PositionMS int
	Type       player.EventType
}

func (PlaybackChanged) Kind() string { return "playback_changed" }

// SessionReset reports that the session was torn down.
type SessionReset struct{}

func (SessionReset) Kind() string { return "session_reset" }

// EventSink receives domain events. Publish is fire-and-forget: sinks must
// not block the coordinator and must swallow their own failures.
type EventSink interface {
	Publish(e Event)
}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(e Event)

func (f SinkFunc) Publish(e Event) { f(e) }

// MultiSink fans an event out to several sinks in order.
type MultiSink []EventSink

func (s MultiSink) Publish(e Event) {
	for _, sink := range s {
		sink.Publish(e)
	}
}
