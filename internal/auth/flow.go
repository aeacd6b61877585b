package auth

import (
	"fmt"

	"github.com/Brandand88/mirror/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// Request describes an "open login" request issued by the session
// coordinator: which client is asking, what response type it wants, where
// the provider should redirect, and which scopes to request.
type Request struct {
	ClientID     string
	ResponseType string
	RedirectURI  string
	Scopes       []string
}

// Flow abstracts the identity provider's login UI. Implementations surface
// the provider's authorization page to the user; the completion signal
// arrives separately via the coordinator's ProcessAuthResult.
type Flow interface {
	OpenLogin(req Request) error
}

// SpotifyEndpoint is the [oauth2.Endpoint] for the Spotify accounts service.
var SpotifyEndpoint = oauth2.Endpoint{
	AuthURL:  spotifyAuthURL,
	TokenURL: spotifyTokenURL,
}

// BrowserFlow implements Flow by opening the provider's authorization page
// in the system browser.
type BrowserFlow struct {
	// ResponseType, when set, overrides the request's response type on the
	// wire. A local callback server cannot read URL fragments, so flows that
	// exchange on the server use "code" while still delivering the bearer
	// token the request asked for.
	ResponseType string

	endpoint oauth2.Endpoint
	state    string
	open     func(url string) error
}

// NewBrowserFlow creates a BrowserFlow against the given endpoint. The state
// token is echoed back by the provider and should be cryptographically random
// for CSRF protection.
func NewBrowserFlow(endpoint oauth2.Endpoint, state string) *BrowserFlow {
	return &BrowserFlow{
		endpoint: endpoint,
		state:    state,
		open:     shared.OpenBrowser,
	}
}

// OpenLogin builds the authorization URL from the request and opens it.
func (f *BrowserFlow) OpenLogin(req Request) error {
	if req.ClientID == "" {
		return fmt.Errorf("%w: client_id", shared.ErrMissingCredentials)
	}

	config := &oauth2.Config{
		ClientID:    req.ClientID,
		RedirectURL: req.RedirectURI,
		Scopes:      req.Scopes,
		Endpoint:    f.endpoint,
	}

	responseType := req.ResponseType
	if f.ResponseType != "" {
		responseType = f.ResponseType
	}

	opts := []oauth2.AuthCodeOption{}
	if responseType != "" && responseType != "code" {
		opts = append(opts, oauth2.SetAuthURLParam("response_type", responseType))
	}

	return f.open(config.AuthCodeURL(f.state, opts...))
}
