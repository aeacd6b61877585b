package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Brandand88/mirror/internal/auth"
	"github.com/Brandand88/mirror/internal/catalog"
	"github.com/Brandand88/mirror/internal/player"
	"github.com/Brandand88/mirror/internal/session"
	"github.com/Brandand88/mirror/internal/shared"
	"github.com/charmbracelet/log"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	logger     *log.Logger
	output     io.Writer
	httpClient *http.Client
	tokens     *auth.TokenStore
	catalog    catalog.Client
	engines    player.Factory
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Logger     *log.Logger
	Output     io.Writer
	HTTPClient *http.Client
	Tokens     *auth.TokenStore
	Catalog    catalog.Client
	Engines    player.Factory
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Tokens == nil {
		opts.Tokens = auth.NewTokenStore(opts.Config.Player.DeviceName)
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.NewSpotifyClient(opts.Tokens, catalog.SpotifyOpts{
			BaseURL:    opts.Config.Catalog.BaseURL,
			HTTPClient: opts.HTTPClient,
			RateLimit:  opts.Config.Catalog.RateLimit,
		})
	}
	if opts.Engines == nil {
		tick := time.Duration(opts.Config.Player.TickMS) * time.Millisecond
		opts.Engines = &player.LocalFactory{Tick: tick}
	}

	return &Runner{
		config:     opts.Config,
		logger:     opts.Logger,
		output:     opts.Output,
		httpClient: opts.HTTPClient,
		tokens:     opts.Tokens,
		catalog:    opts.Catalog,
		engines:    opts.Engines,
	}
}

// newCoordinator builds a session coordinator wired with the runner's
// dependencies and the given login flow and event sink.
func (r *Runner) newCoordinator(flow auth.Flow, sink session.EventSink) *session.Coordinator {
	return session.New(session.Options{
		Flow:        flow,
		Tokens:      r.tokens,
		Catalog:     r.catalog,
		Engines:     r.engines,
		Sink:        sink,
		Logger:      r.logger,
		ClientID:    r.config.Credentials.Spotify.ClientID,
		RedirectURI: r.config.Credentials.Spotify.RedirectURI,
		Scopes:      r.config.Credentials.Spotify.Scopes,
	})
}

// logSink returns an event sink that reports domain events through the
// runner's logger.
func (r *Runner) logSink() session.EventSink {
	return session.SinkFunc(func(e session.Event) {
		switch ev := e.(type) {
		case session.PlaybackChanged:
			r.logger.Info("playback", "event", ev.Type.String(), "position_ms", ev.PositionMS)
		case session.TrackIdentified:
			r.logger.Info("track", "artist", ev.Track.Artist, "title", ev.Track.Title, "uri", ev.Track.URI)
		case session.SessionReset:
			r.logger.Info("session reset")
		}
	})
}

// waitForState polls the coordinator until it reaches one of the wanted
// states or the timeout expires.
func waitForState(ctx context.Context, c *session.Coordinator, timeout time.Duration, want ...session.State) (session.State, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()

	for {
		state := c.State()
		for _, w := range want {
			if state == w {
				return state, nil
			}
		}

		select {
		case <-ctx.Done():
			return state, ctx.Err()
		case <-deadline.C:
			return state, fmt.Errorf("%w: still %s after %v", shared.ErrServiceUnavailable, state, timeout)
		case <-ticker.C:
		}
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
