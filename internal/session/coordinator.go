// package session implements the playback session coordinator.
//
// The Coordinator owns the session state machine and sequences the
// authenticate → resolve-tracks → initialize-engine → play pipeline. All
// collaborators (identity flow, catalog, engine factory, event sink) are
// injected at construction; every callback funnels into a handler method
// that takes the coordinator's single mutex, so only the coordinator ever
// mutates session state.
package session

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/Brandand88/mirror/internal/auth"
	"github.com/Brandand88/mirror/internal/catalog"
	"github.com/Brandand88/mirror/internal/player"
	"github.com/Brandand88/mirror/internal/shared"
	"github.com/charmbracelet/log"
)

// trackURIPrefix is the scheme marker callers may attach to track
// identifiers; it is stripped before catalog lookups.
const trackURIPrefix = "spotify:track:"

// responseTypeToken is the response type requested from the identity
// provider: a bearer token grant.
const responseTypeToken = "token"

// Options contains the coordinator's injected collaborators and provider
// settings.
type Options struct {
	Flow    auth.Flow
	Tokens  *auth.TokenStore
	Catalog catalog.Client
	Engines player.Factory
	Media   player.MediaSession
	Sink    EventSink
	Logger  *log.Logger

	ClientID    string
	RedirectURI string
	Scopes      []string
}

// Coordinator owns session state and playback orchestration for a single
// logical streaming session.
type Coordinator struct {
	flow    auth.Flow
	tokens  *auth.TokenStore
	catalog catalog.Client
	engines player.Factory
	media   player.MediaSession
	sink    EventSink
	logger  *log.Logger

	clientID    string
	redirectURI string
	scopes      []string

	mu        sync.Mutex
	state     State
	snapshot  Snapshot
	engine    player.Engine
	requestID string // live play-request token; stale completions are dropped
	tracks    []catalog.Track
}

// New creates a Coordinator. Tokens, Catalog and Engines are required; Media,
// Sink and Logger default to no-op/stderr implementations.
func New(opts Options) *Coordinator {
	if opts.Media == nil {
		opts.Media = &player.NopMediaSession{}
	}
	if opts.Sink == nil {
		opts.Sink = SinkFunc(func(Event) {})
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Coordinator{
		flow:        opts.Flow,
		tokens:      opts.Tokens,
		catalog:     opts.Catalog,
		engines:     opts.Engines,
		media:       opts.Media,
		sink:        opts.Sink,
		logger:      opts.Logger.With("component", "session"),
		clientID:    opts.ClientID,
		redirectURI: opts.RedirectURI,
		scopes:      opts.Scopes,
	}
}

// State returns the current session state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the last known playback snapshot.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Tracks returns the resolved track list of the live play request.
func (c *Coordinator) Tracks() []catalog.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]catalog.Track(nil), c.tracks...)
}

// Authenticate delegates to the identity-provider login flow. The completion
// signal arrives later via ProcessAuthResult.
func (c *Coordinator) Authenticate() error {
	c.setState(StateAuthenticating)

	req := auth.Request{
		ClientID:     c.clientID,
		ResponseType: responseTypeToken,
		RedirectURI:  c.redirectURI,
		Scopes:       c.scopes,
	}

	if err := c.flow.OpenLogin(req); err != nil {
		c.setState(StateErrored)
		c.logger.Error("login flow failed", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return nil
}

// ProcessAuthResult consumes a provider completion signal. The exchange runs
// off the calling goroutine; the caller is never blocked. Replaying the same
// signal re-derives the same credential.
func (c *Coordinator) ProcessAuthResult(code int, payload url.Values) {
	go c.completeAuth(auth.ParseResult(code, payload))
}

// completeAuth applies a parsed provider response to the token store and the
// session state.
func (c *Coordinator) completeAuth(resp auth.Response) {
	if resp.Type != auth.ResponseToken {
		c.setState(StateErrored)
		c.logger.Error("authentication failed", "response", resp.Type.String(), "detail", resp.Err)
		return
	}

	c.tokens.Set(auth.Credential{AccessToken: resp.AccessToken, ClientID: c.clientID})
	c.setState(StateAuthenticated)
	c.logger.Info("authenticated", "token_type", resp.TokenType)
}

// Play resolves the ordered identifier list and starts playback. Fire and
// forget: resolution, engine initialization and the play command all run off
// the calling goroutine. An empty or nil list is a silent no-op. A new call
// supersedes any in-flight request; the superseded request's completions are
// detected and dropped.
//
// onLoaded, when non-nil, is invoked once with the resolved tracks or the
// classified resolution failure.
func (c *Coordinator) Play(ctx context.Context, ids []string, onLoaded func([]catalog.Track, error)) {
	if len(ids) == 0 {
		return
	}

	reqID := shared.GenerateID()

	c.mu.Lock()
	released := c.engine
	c.engine = nil
	c.requestID = reqID
	c.state = StateResolvingTracks
	c.snapshot = Snapshot{}
	c.tracks = nil
	c.mu.Unlock()

	if released != nil {
		released.Destroy()
	}

	go c.runPipeline(ctx, reqID, ids, onLoaded)
}

// runPipeline executes catalog resolution, engine initialization and the
// play command for one play request. Every step re-checks that reqID is
// still the live request before applying effects.
func (c *Coordinator) runPipeline(ctx context.Context, reqID string, ids []string, onLoaded func([]catalog.Track, error)) {
	bare := make([]string, len(ids))
	for i, id := range ids {
		bare[i] = strings.TrimPrefix(id, trackURIPrefix)
	}

	resolved, err := c.catalog.Tracks(ctx, bare)
	if err != nil {
		if !c.applyIfLive(reqID, StateErrored) {
			return
		}
		c.logger.Error("problem retrieving the tracks information", "error", err)
		if onLoaded != nil {
			onLoaded(nil, fmt.Errorf("%w: %v", shared.ErrCatalogLookup, err))
		}
		return
	}

	// Reassociate by ID: the returned list must follow caller input order,
	// not provider response order.
	byID := make(map[string]catalog.Track, len(resolved))
	for _, track := range resolved {
		byID[track.ID] = track
	}

	ordered := make([]catalog.Track, 0, len(bare))
	for _, id := range bare {
		if track, ok := byID[id]; ok {
			ordered = append(ordered, track)
		}
	}

	if len(ordered) == 0 {
		if !c.applyIfLive(reqID, StateErrored) {
			return
		}
		c.logger.Error("catalog returned no usable tracks", "requested", len(bare))
		if onLoaded != nil {
			onLoaded(nil, fmt.Errorf("%w: no tracks resolved", shared.ErrCatalogLookup))
		}
		return
	}

	if !c.applyIfLive(reqID, StateInitializing) {
		return
	}

	if onLoaded != nil {
		onLoaded(ordered, nil)
	}

	config, ok := c.tokens.PlayerConfig()
	if !ok {
		c.applyIfLive(reqID, StateErrored)
		c.logger.Error("could not initialize player", "error", shared.ErrNotAuthenticated)
		return
	}

	engine, err := c.engines.Init(ctx, config, &engineSink{c: c, reqID: reqID})
	if err != nil {
		if !c.applyIfLive(reqID, StateErrored) {
			return
		}
		c.logger.Error("could not initialize player", "error", err)
		return
	}

	c.mu.Lock()
	if c.requestID != reqID {
		c.mu.Unlock()
		c.logger.Debug("dropping superseded engine", "request", reqID)
		engine.Destroy()
		return
	}
	c.engine = engine
	c.tracks = ordered
	c.snapshot = Snapshot{}
	c.state = StatePlaying
	c.mu.Unlock()

	if err := c.media.Activate(); err != nil {
		c.logger.Warn("media session activation failed", "error", err)
	}

	uris := make([]string, len(ordered))
	for i, track := range ordered {
		uris[i] = track.URI
	}

	if err := engine.Play(uris); err != nil {
		c.setState(StateErrored)
		c.logger.Error("play command failed", "error", fmt.Errorf("%w: %v", shared.ErrEngineRuntime, err))
	}
}

// applyIfLive sets the session state only when reqID is still the live play
// request. Returns false when the request was superseded.
func (c *Coordinator) applyIfLive(reqID string, state State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.requestID != reqID {
		c.logger.Debug("dropping stale completion", "request", reqID)
		return false
	}
	c.state = state
	return true
}

// TogglePlay requests pause when the last snapshot says playing and resume
// otherwise. It never mutates session state itself; the engine's resulting
// notification does.
func (c *Coordinator) TogglePlay() error {
	c.mu.Lock()
	engine := c.engine
	snapshot := c.snapshot
	c.mu.Unlock()

	if engine == nil {
		err := fmt.Errorf("%w: no active session", shared.ErrEngineRuntime)
		c.logger.Warn("toggle ignored", "error", err)
		return err
	}

	if snapshot.Playing {
		return engine.Pause()
	}
	return engine.Resume()
}

// Stop tears the session down: deactivates the media session, releases the
// engine, and publishes a reset event. Exactly once per session; a no-op when
// nothing is active.
func (c *Coordinator) Stop() {
	c.stop("")
}

// stop is the teardown path. An empty reqID is an explicit caller stop;
// otherwise the teardown applies only while reqID is still the live play
// request, so a superseded engine's terminal notification cannot tear down
// a newer session.
func (c *Coordinator) stop(reqID string) {
	c.mu.Lock()
	if reqID != "" && c.requestID != reqID {
		c.mu.Unlock()
		c.logger.Debug("dropping stale teardown", "request", reqID)
		return
	}
	if c.engine == nil && c.state != StatePlaying && c.state != StatePaused {
		c.mu.Unlock()
		c.logger.Debug("stop ignored, no active session")
		return
	}
	engine := c.engine
	c.engine = nil
	c.requestID = ""
	c.tracks = nil
	c.snapshot = Snapshot{}
	c.state = StateEnded
	c.mu.Unlock()

	if c.media.Active() {
		if err := c.media.Deactivate(); err != nil {
			c.logger.Warn("media session deactivation failed", "error", err)
		}
	}

	if engine != nil {
		engine.Destroy()
	}

	c.sink.Publish(SessionReset{})
	c.logger.Info("session ended")
}

// engineSink is the notification sink handed to the engine factory. It binds
// every notification to the play request that created the engine, so the
// coordinator can tell a superseded engine's in-flight notifications apart
// from the live engine's.
type engineSink struct {
	c     *Coordinator
	reqID string
}

func (s *engineSink) HandleNotification(n player.Notification) {
	s.c.handleNotification(s.reqID, n)
}

// handleNotification consumes an engine notification: updates the snapshot,
// applies play/pause state, republishes the notification as a generic
// playback event, and reacts to terminal events. Notifications arriving
// after teardown or from a superseded engine are dropped.
func (c *Coordinator) handleNotification(reqID string, n player.Notification) {
	c.mu.Lock()
	if c.requestID != reqID || c.engine == nil {
		c.mu.Unlock()
		c.logger.Debug("dropping notification from superseded engine", "type", n.Type.String())
		return
	}

	c.snapshot.PositionMS = n.PositionMS
	if n.TrackURI != "" {
		c.snapshot.TrackURI = n.TrackURI
	}

	switch n.Type {
	case player.EventPlay:
		c.snapshot.Playing = true
		c.state = StatePlaying
	case player.EventPause:
		c.snapshot.Playing = false
		c.state = StatePaused
	case player.EventError:
		c.logger.Error("engine runtime error", "error", fmt.Errorf("%w: %v", shared.ErrEngineRuntime, n.Err))
	}
	c.mu.Unlock()

	// Every notification type is republished, not just the play/pause set.
	c.sink.Publish(PlaybackChanged{PositionMS: n.PositionMS, Type: n.Type})

	if n.Type == player.EventTrackChanged && n.TrackURI != "" {
		go c.identifyTrack(reqID, n.TrackURI)
	}

	if n.Type == player.EventEndOfContext {
		c.stop(reqID)
	}
}

// identifyTrack opportunistically looks up the track a TrackChanged
// notification referred to. Side-channel only: it publishes a track
// identification and echoes the current snapshot, and never alters session
// state. Lookup failures are silent.
func (c *Coordinator) identifyTrack(reqID, uri string) {
	track, err := c.catalog.Track(context.Background(), strings.TrimPrefix(uri, trackURIPrefix))
	if err != nil || track == nil {
		c.logger.Debug("track identification failed", "uri", uri, "error", err)
		return
	}

	c.mu.Lock()
	if c.requestID != reqID {
		c.mu.Unlock()
		c.logger.Debug("dropping stale track identification", "request", reqID)
		return
	}
	snapshot := c.snapshot
	c.mu.Unlock()

	c.sink.Publish(TrackIdentified{Track: *track})

	echo := player.EventPause
	if snapshot.Playing {
		echo = player.EventPlay
	}
	c.sink.Publish(PlaybackChanged{PositionMS: snapshot.PositionMS, Type: echo})
}

// setState transitions the session state under the coordinator's lock.
func (c *Coordinator) setState(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != state {
		c.logger.Debug("state transition", "from", c.state.String(), "to", state.String())
	}
	c.state = state
}
