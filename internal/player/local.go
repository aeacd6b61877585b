package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Brandand88/mirror/internal/auth"
	"github.com/Brandand88/mirror/internal/shared"
)

const defaultTrackDurationMS = 3000

// LocalFactory builds [LocalEngine] instances: in-process simulated engines
// that walk an ordered URI list on a ticker and emit the full notification
// lifecycle. Used by the CLI play command and as a realistic engine in tests.
type LocalFactory struct {
	Tick       time.Duration  // Position advance interval (default: 1s)
	DurationMS map[string]int // Optional per-URI durations
}

// Init validates the configuration and returns a ready engine.
func (f *LocalFactory) Init(ctx context.Context, config auth.PlayerConfig, sink NotificationSink) (Engine, error) {
	if config.AccessToken == "" {
		return nil, fmt.Errorf("%w: player configuration has no access token", shared.ErrEngineInit)
	}
	if sink == nil {
		return nil, fmt.Errorf("%w: no notification sink", shared.ErrEngineInit)
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", shared.ErrEngineInit, ctx.Err())
	default:
	}

	tick := f.Tick
	if tick <= 0 {
		tick = time.Second
	}

	return &LocalEngine{
		sink:      sink,
		tick:      tick,
		durations: f.DurationMS,
		stopCh:    make(chan struct{}),
	}, nil
}

// LocalEngine simulates playback of an ordered URI list. Each track runs for
// its configured duration; the engine emits TrackChanged at every track
// boundary, Play/Pause on resume/pause, and EndOfContext when the list is
// exhausted.
type LocalEngine struct {
	sink      NotificationSink
	tick      time.Duration
	durations map[string]int
	stopCh    chan struct{}

	mu         sync.Mutex
	uris       []string
	index      int
	positionMS int
	playing    bool
	started    bool
	destroyed  bool
}

// Play starts the playback loop over the given ordered URI list.
func (e *LocalEngine) Play(uris []string) error {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return fmt.Errorf("%w: engine destroyed", shared.ErrEngineRuntime)
	}
	if e.started {
		e.mu.Unlock()
		return fmt.Errorf("%w: playback already started", shared.ErrEngineRuntime)
	}
	if len(uris) == 0 {
		e.mu.Unlock()
		return fmt.Errorf("%w: empty URI list", shared.ErrInvalidInput)
	}

	e.uris = append([]string(nil), uris...)
	e.index = 0
	e.positionMS = 0
	e.playing = true
	e.started = true
	current := e.uris[0]
	e.mu.Unlock()

	e.sink.HandleNotification(Notification{Type: EventTrackChanged, TrackURI: current})
	e.sink.HandleNotification(Notification{Type: EventPlay, TrackURI: current})

	go e.loop()
	return nil
}

// Pause pauses playback and reports it.
func (e *LocalEngine) Pause() error {
	e.mu.Lock()
	if e.destroyed || !e.started {
		e.mu.Unlock()
		return fmt.Errorf("%w: nothing playing", shared.ErrEngineRuntime)
	}
	e.playing = false
	n := Notification{Type: EventPause, PositionMS: e.positionMS, TrackURI: e.uris[e.index]}
	e.mu.Unlock()

	e.sink.HandleNotification(n)
	return nil
}

// Resume resumes paused playback and reports it.
func (e *LocalEngine) Resume() error {
	e.mu.Lock()
	if e.destroyed || !e.started {
		e.mu.Unlock()
		return fmt.Errorf("%w: nothing playing", shared.ErrEngineRuntime)
	}
	e.playing = true
	n := Notification{Type: EventPlay, PositionMS: e.positionMS, TrackURI: e.uris[e.index]}
	e.mu.Unlock()

	e.sink.HandleNotification(n)
	return nil
}

// Destroy stops the playback loop. Idempotent.
func (e *LocalEngine) Destroy() error {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return nil
	}
	e.destroyed = true
	close(e.stopCh)
	e.mu.Unlock()
	return nil
}

func (e *LocalEngine) duration(uri string) int {
	if ms, ok := e.durations[uri]; ok && ms > 0 {
		return ms
	}
	return defaultTrackDurationMS
}

// loop advances the stream position while playing, crossing track boundaries
// until the list is exhausted.
func (e *LocalEngine) loop() {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-ticker.C:
		}

		e.mu.Lock()
		if e.destroyed {
			e.mu.Unlock()
			return
		}
		if !e.playing {
			e.mu.Unlock()
			continue
		}

		e.positionMS += int(e.tick / time.Millisecond)
		current := e.uris[e.index]

		if e.positionMS < e.duration(current) {
			e.mu.Unlock()
			continue
		}

		// Track boundary.
		e.index++
		if e.index < len(e.uris) {
			e.positionMS = 0
			next := e.uris[e.index]
			e.mu.Unlock()
			e.sink.HandleNotification(Notification{Type: EventTrackChanged, TrackURI: next})
			continue
		}

		position := e.positionMS
		e.playing = false
		e.index = len(e.uris) - 1
		e.mu.Unlock()

		e.sink.HandleNotification(Notification{Type: EventEndOfContext, PositionMS: position, TrackURI: current})
		return
	}
}
