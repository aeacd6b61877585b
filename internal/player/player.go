// package player defines the boundary with the external playback engine.
package player

import (
	"context"

	"github.com/Brandand88/mirror/internal/auth"
)

// EventType classifies an engine notification.
type EventType int

const (
	EventUnknown EventType = iota
	EventPlay                // Playback started or resumed
	EventPause               // Playback paused
	EventTrackChanged        // The engine moved to a different track
	EventEndOfContext        // The ordered URI list was exhausted
	EventAudioFlush          // The engine flushed its audio buffers
	EventLostPermission      // Another session took over the stream
	EventError               // The engine reported a runtime error
)

func (e EventType) String() string {
	switch e {
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventTrackChanged:
		return "track_changed"
	case EventEndOfContext:
		return "end_of_context"
	case EventAudioFlush:
		return "audio_flush"
	case EventLostPermission:
		return "lost_permission"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is an asynchronous lifecycle/playback report from the engine.
type Notification struct {
	Type       EventType
	PositionMS int    // Stream position at the time of the event
	TrackURI   string // URI of the track the event refers to, when known
	Err        error  // Set only for EventError
}

// NotificationSink receives engine notifications. Implementations must be
// safe to call from the engine's goroutine; notifications are delivered in
// the order the engine emits them.
type NotificationSink interface {
	HandleNotification(n Notification)
}

// Engine is an initialized playback engine handle.
type Engine interface {
	// Play starts playback of the ordered URI list from the beginning.
	Play(uris []string) error

	// Pause pauses the current playback.
	Pause() error

	// Resume resumes paused playback.
	Resume() error

	// Destroy releases the engine. Safe to call more than once.
	Destroy() error
}

// Factory initializes playback engines. Init blocks until the engine is
// ready or has failed; the session coordinator runs it off the caller's
// goroutine.
type Factory interface {
	Init(ctx context.Context, config auth.PlayerConfig, sink NotificationSink) (Engine, error)
}
