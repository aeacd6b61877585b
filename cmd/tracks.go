package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Brandand88/mirror/internal/auth"
	"github.com/Brandand88/mirror/internal/shared"
	"github.com/urfave/cli/v3"
)

// TracksResolve resolves a batch of track identifiers through the catalog
// and prints the result without starting playback.
func (r *Runner) TracksResolve(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one track identifier", shared.ErrMissingArgument)
	}

	token := cmd.String("token")
	if token == "" {
		token = os.Getenv("SPOTIFY_ACCESS_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("%w: provide --token or SPOTIFY_ACCESS_TOKEN", shared.ErrNotAuthenticated)
	}

	r.tokens.Set(auth.Credential{
		AccessToken: token,
		ClientID:    r.config.Credentials.Spotify.ClientID,
	})

	bare := make([]string, len(ids))
	for i, id := range ids {
		bare[i] = strings.TrimPrefix(id, "spotify:track:")
	}

	r.logger.Info("resolving tracks", "count", len(bare))

	tracks, err := r.catalog.Tracks(ctx, bare)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCatalogLookup, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	for i, track := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, track.Artist, track.Title)
		r.writePlain("   URI: %s (%.1fs)\n", track.URI, float64(track.DurationMS)/1000)
	}

	return nil
}
