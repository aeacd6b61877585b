package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Brandand88/mirror/internal/auth"
	"github.com/Brandand88/mirror/internal/session"
	"github.com/Brandand88/mirror/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const authTimeout = 2 * time.Minute

// AuthLogin runs the full identity-provider login: local callback server,
// browser authorization, token exchange, and the coordinator's auth
// completion path. The credential lives only for this process.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	coordinator, result, shutdown, err := r.startAuthFlow(r.logSink())
	if err != nil {
		return err
	}
	defer shutdown()

	if err := r.completeLogin(ctx, coordinator, result); err != nil {
		return err
	}

	cred, _ := r.tokens.Credential()
	r.writePlainln("✓ Authorization successful")
	r.writePlain("Token obtained for client %s (held in memory only)\n", cred.ClientID)
	return nil
}

// startAuthFlow wires the browser flow and the callback server together.
// Returns a coordinator using the given event sink, the one-shot result
// channel, and a shutdown function for the server.
func (r *Runner) startAuthFlow(sink session.EventSink) (*session.Coordinator, <-chan auth.CallbackResult, func(), error) {
	spotify := r.config.Credentials.Spotify
	if spotify.ClientID == "" {
		return nil, nil, nil, fmt.Errorf("%w: Spotify client_id must be set in config.toml", shared.ErrMissingCredentials)
	}

	state, err := shared.GenerateState()
	if err != nil {
		return nil, nil, nil, err
	}

	oauthConfig := &oauth2.Config{
		ClientID:     spotify.ClientID,
		ClientSecret: spotify.ClientSecret,
		RedirectURL:  spotify.RedirectURI,
		Scopes:       spotify.Scopes,
		Endpoint:     auth.SpotifyEndpoint,
	}

	handler := auth.NewCallbackHandler(oauthConfig, state)
	mux := http.NewServeMux()
	for _, route := range handler.Routes() {
		mux.Handle(route, handler)
	}

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		r.logger.Info("starting callback server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.logger.Error("callback server failed", "error", err)
		}
	}()

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down callback server", "error", err)
		}
	}

	flow := auth.NewBrowserFlow(auth.SpotifyEndpoint, state)
	flow.ResponseType = "code"
	coordinator := r.newCoordinator(flow, sink)

	return coordinator, handler.Result(), shutdown, nil
}

// completeLogin opens the browser, waits for the provider redirect, and
// drives the coordinator through auth completion.
func (r *Runner) completeLogin(ctx context.Context, coordinator *session.Coordinator, result <-chan auth.CallbackResult) error {
	r.writePlain("→ Opening browser for authorization...\n")
	if err := coordinator.Authenticate(); err != nil {
		return err
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	var res auth.CallbackResult
	select {
	case res = <-result:
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(authTimeout):
		return fmt.Errorf("%w: authorization timed out", shared.ErrAuthFailed)
	}

	if res.Error() != nil {
		r.logger.Error("authorization failed", "error", res.Error())
	}

	coordinator.ProcessAuthResult(res.Code, res.Payload)

	state, err := waitForState(ctx, coordinator, 5*time.Second, session.StateAuthenticated, session.StateErrored)
	if err != nil {
		return err
	}

	if state != session.StateAuthenticated {
		return fmt.Errorf("%w: provider response did not grant a token", shared.ErrAuthFailed)
	}

	return nil
}
