package auth

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/Brandand88/mirror/internal/shared"
)

func TestBrowserFlowOpenLogin(t *testing.T) {
	newFlow := func(opened *string) *BrowserFlow {
		flow := NewBrowserFlow(SpotifyEndpoint, "state123")
		flow.open = func(u string) error {
			*opened = u
			return nil
		}
		return flow
	}

	t.Run("builds the authorization URL", func(t *testing.T) {
		var opened string
		flow := newFlow(&opened)

		err := flow.OpenLogin(Request{
			ClientID:     "client123",
			ResponseType: "token",
			RedirectURI:  "http://127.0.0.1:8080/callback",
			Scopes:       []string{"streaming", "user-read-email"},
		})
		if err != nil {
			t.Fatalf("OpenLogin() error = %v", err)
		}

		u, err := url.Parse(opened)
		if err != nil {
			t.Fatalf("opened URL does not parse: %v", err)
		}
		if !strings.HasPrefix(opened, SpotifyEndpoint.AuthURL) {
			t.Errorf("opened %q, want prefix %q", opened, SpotifyEndpoint.AuthURL)
		}

		query := u.Query()
		if query.Get("client_id") != "client123" {
			t.Errorf("client_id = %q", query.Get("client_id"))
		}
		if query.Get("response_type") != "token" {
			t.Errorf("response_type = %q, want %q", query.Get("response_type"), "token")
		}
		if query.Get("redirect_uri") != "http://127.0.0.1:8080/callback" {
			t.Errorf("redirect_uri = %q", query.Get("redirect_uri"))
		}
		if query.Get("state") != "state123" {
			t.Errorf("state = %q", query.Get("state"))
		}
		if scope := query.Get("scope"); !strings.Contains(scope, "streaming") {
			t.Errorf("scope = %q, want it to carry the requested scopes", scope)
		}
	})

	t.Run("response type override wins", func(t *testing.T) {
		var opened string
		flow := newFlow(&opened)
		flow.ResponseType = "code"

		err := flow.OpenLogin(Request{ClientID: "client123", ResponseType: "token"})
		if err != nil {
			t.Fatalf("OpenLogin() error = %v", err)
		}

		u, _ := url.Parse(opened)
		if got := u.Query().Get("response_type"); got != "code" {
			t.Errorf("response_type = %q, want %q", got, "code")
		}
	})

	t.Run("missing client id", func(t *testing.T) {
		var opened string
		flow := newFlow(&opened)

		err := flow.OpenLogin(Request{})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("error = %v, want wrapped %v", err, shared.ErrMissingCredentials)
		}
		if opened != "" {
			t.Errorf("browser opened %q, want no open on failure", opened)
		}
	})
}
