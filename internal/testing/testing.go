// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"sync"

	"github.com/Brandand88/mirror/internal/auth"
	"github.com/Brandand88/mirror/internal/catalog"
	"github.com/Brandand88/mirror/internal/player"
)

// MockCatalog is a test double for [catalog.Client]. Behavior is supplied
// per test through the function fields; unset fields return empty results.
type MockCatalog struct {
	TracksFunc func(ctx context.Context, ids []string) ([]catalog.Track, error)
	TrackFunc  func(ctx context.Context, id string) (*catalog.Track, error)

	mu         sync.Mutex
	TracksReqs [][]string
	TrackReqs  []string
}

func (m *MockCatalog) Tracks(ctx context.Context, ids []string) ([]catalog.Track, error) {
	m.mu.Lock()
	m.TracksReqs = append(m.TracksReqs, append([]string(nil), ids...))
	m.mu.Unlock()

	if m.TracksFunc != nil {
		return m.TracksFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockCatalog) Track(ctx context.Context, id string) (*catalog.Track, error) {
	m.mu.Lock()
	m.TrackReqs = append(m.TrackReqs, id)
	m.mu.Unlock()

	if m.TrackFunc != nil {
		return m.TrackFunc(ctx, id)
	}
	return nil, errors.New("no track")
}

// BatchCalls returns how many batch lookups were issued.
func (m *MockCatalog) BatchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.TracksReqs)
}

// MockFlow is a test double for [auth.Flow] recording login requests.
type MockFlow struct {
	Err error

	mu       sync.Mutex
	Requests []auth.Request
}

func (m *MockFlow) OpenLogin(req auth.Request) error {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()
	return m.Err
}

// MockEngine is a test double for [player.Engine] counting control calls.
type MockEngine struct {
	PlayErr   error
	PauseErr  error
	ResumeErr error

	mu       sync.Mutex
	Played   [][]string
	Pauses   int
	Resumes  int
	Destroys int
}

func (m *MockEngine) Play(uris []string) error {
	m.mu.Lock()
	m.Played = append(m.Played, append([]string(nil), uris...))
	m.mu.Unlock()
	return m.PlayErr
}

func (m *MockEngine) Pause() error {
	m.mu.Lock()
	m.Pauses++
	m.mu.Unlock()
	return m.PauseErr
}

func (m *MockEngine) Resume() error {
	m.mu.Lock()
	m.Resumes++
	m.mu.Unlock()
	return m.ResumeErr
}

func (m *MockEngine) Destroy() error {
	m.mu.Lock()
	m.Destroys++
	m.mu.Unlock()
	return nil
}

// DestroyCount returns how many times Destroy was called.
func (m *MockEngine) DestroyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Destroys
}

// LastPlayed returns the URI list of the most recent Play call, or nil.
func (m *MockEngine) LastPlayed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Played) == 0 {
		return nil
	}
	return m.Played[len(m.Played)-1]
}

// MockFactory is a test double for [player.Factory].
type MockFactory struct {
	Engine *MockEngine
	Err    error

	mu    sync.Mutex
	Inits int
	Sink  player.NotificationSink
}

func (m *MockFactory) Init(ctx context.Context, config auth.PlayerConfig, sink player.NotificationSink) (player.Engine, error) {
	m.mu.Lock()
	m.Inits++
	m.Sink = sink
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Engine == nil {
		m.Engine = &MockEngine{}
	}
	return m.Engine, nil
}
