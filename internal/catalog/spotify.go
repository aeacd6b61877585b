// Spotify Web API implementation of [Client]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Brandand88/mirror/internal/auth"
	"github.com/Brandand88/mirror/internal/shared"
	"golang.org/x/time/rate"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// spotifyArtist represents a Spotify artist.
type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// spotifyTrack represents a Spotify track.
type spotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []spotifyArtist `json:"artists"`
	DurationMS int             `json:"duration_ms"`
	URI        string          `json:"uri"`
}

func (t spotifyTrack) toTrack() Track {
	track := Track{
		ID:         t.ID,
		Title:      t.Name,
		URI:        t.URI,
		DurationMS: t.DurationMS,
	}
	if len(t.Artists) > 0 {
		track.Artist = t.Artists[0].Name
	}
	return track
}

// SpotifyClient implements [Client] against the Spotify Web API.
//
// Requests carry the bearer token held by the injected [auth.TokenStore] and
// are rate limited with a token bucket.
type SpotifyClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     *auth.TokenStore
	limiter    *rate.Limiter
}

// SpotifyOpts contains configuration options for creating a SpotifyClient.
type SpotifyOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	RateLimit  float64 // Requests per second (default: 5)
}

// NewSpotifyClient creates a catalog client that authenticates from the
// given token store.
func NewSpotifyClient(tokens *auth.TokenStore, opts SpotifyOpts) *SpotifyClient {
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	return &SpotifyClient{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
	}
}

// doRequest performs an authenticated GET against the catalog API.
func (c *SpotifyClient) doRequest(ctx context.Context, endpoint string, result any) error {
	cred, ok := c.tokens.Credential()
	if !ok {
		return fmt.Errorf("%w: no credential in token store", shared.ErrNotAuthenticated)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Tracks resolves multiple tracks by their bare IDs in a single batch
// request (up to 50).
func (c *SpotifyClient) Tracks(ctx context.Context, ids []string) ([]Track, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no track IDs provided", shared.ErrInvalidInput)
	}
	if len(ids) > 50 {
		return nil, fmt.Errorf("%w: maximum 50 track IDs allowed", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/tracks?ids=%s", url.QueryEscape(strings.Join(ids, ",")))

	var response struct {
		Tracks []spotifyTrack `json:"tracks"`
	}

	if err := c.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(response.Tracks))
	for _, st := range response.Tracks {
		tracks = append(tracks, st.toTrack())
	}

	return tracks, nil
}

// Track retrieves a single track by its bare ID.
func (c *SpotifyClient) Track(ctx context.Context, id string) (*Track, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty track ID", shared.ErrInvalidInput)
	}

	var st spotifyTrack
	if err := c.doRequest(ctx, fmt.Sprintf("/tracks/%s", id), &st); err != nil {
		return nil, err
	}

	track := st.toTrack()
	return &track, nil
}
