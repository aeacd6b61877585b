package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Brandand88/mirror/internal/auth"
	"github.com/Brandand88/mirror/internal/catalog"
	"github.com/Brandand88/mirror/internal/history"
	"github.com/Brandand88/mirror/internal/session"
	"github.com/Brandand88/mirror/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlayTracks runs the full playback pipeline for the given track
// identifiers: authenticate (supplied token or browser flow), resolve the
// batch through the catalog, start the engine, then drive the session
// interactively until it ends. Events stream to the logger and, when a
// database is configured, to the playback history journal.
func (r *Runner) PlayTracks(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one track identifier", shared.ErrMissingArgument)
	}

	sink := session.MultiSink{r.logSink()}
	if r.config.Database.Path != "" {
		store, err := history.Open(r.config.Database)
		if err != nil {
			r.logger.Warn("history journal unavailable", "error", err)
		} else {
			defer store.Close()
			sink = append(sink, history.NewSink(store, r.logger))
		}
	}

	coordinator, err := r.authenticatedCoordinator(ctx, cmd, sink)
	if err != nil {
		return err
	}

	loaded := make(chan error, 1)
	coordinator.Play(ctx, ids, func(tracks []catalog.Track, err error) {
		if err != nil {
			loaded <- err
			return
		}
		for i, track := range tracks {
			r.writePlain("%d. %s - %s\n", i+1, track.Artist, track.Title)
		}
		loaded <- nil
	})

	select {
	case err := <-loaded:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		coordinator.Stop()
		return ctx.Err()
	}

	r.writePlainln("Playing. Commands: t = toggle play/pause, s = stop")

	return r.driveSession(ctx, coordinator)
}

// authenticatedCoordinator returns a coordinator holding a credential:
// either from --token / SPOTIFY_ACCESS_TOKEN fed through the auth
// completion path, or from a full browser login.
func (r *Runner) authenticatedCoordinator(ctx context.Context, cmd *cli.Command, sink session.EventSink) (*session.Coordinator, error) {
	token := cmd.String("token")
	if token == "" {
		token = os.Getenv("SPOTIFY_ACCESS_TOKEN")
	}

	if token != "" {
		state, err := shared.GenerateState()
		if err != nil {
			return nil, err
		}
		coordinator := r.newCoordinator(auth.NewBrowserFlow(auth.SpotifyEndpoint, state), sink)
		coordinator.ProcessAuthResult(http.StatusOK, url.Values{"access_token": {token}})

		if _, err := waitForState(ctx, coordinator, 5*time.Second, session.StateAuthenticated); err != nil {
			return nil, err
		}
		return coordinator, nil
	}

	coordinator, result, shutdown, err := r.startAuthFlow(sink)
	if err != nil {
		return nil, err
	}
	defer shutdown()

	if err := r.completeLogin(ctx, coordinator, result); err != nil {
		return nil, err
	}
	return coordinator, nil
}

// driveSession forwards stdin commands to the coordinator until the session
// ends or the context is cancelled.
func (r *Runner) driveSession(ctx context.Context, coordinator *session.Coordinator) error {
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			coordinator.Stop()
			r.writePlainln("✓ Session stopped")
			return nil

		case line := <-lines:
			switch line {
			case "t", "toggle":
				if err := coordinator.TogglePlay(); err != nil {
					r.logger.Warn("toggle failed", "error", err)
				}
			case "s", "stop":
				coordinator.Stop()
			default:
				r.writePlain("unknown command %q (t = toggle, s = stop)\n", line)
			}

		case <-ticker.C:
			switch coordinator.State() {
			case session.StateEnded:
				r.writePlainln("✓ Session ended")
				return nil
			case session.StateErrored:
				return fmt.Errorf("%w: session errored", shared.ErrEngineRuntime)
			}
		}
	}
}
