package player

import "sync"

// MediaSession is the platform now-playing handle activated for the duration
// of a playback episode (lock-screen card, hardware media keys). The session
// coordinator activates it when the engine is ready and deactivates it on
// teardown.
type MediaSession interface {
	Activate() error
	Deactivate() error
	Active() bool
}

// NopMediaSession is a MediaSession that only tracks its active flag.
// Used on platforms without a media-session surface and in tests.
type NopMediaSession struct {
	mu     sync.Mutex
	active bool
}

func (s *NopMediaSession) Activate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
	return nil
}

func (s *NopMediaSession) Deactivate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	return nil
}

func (s *NopMediaSession) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
