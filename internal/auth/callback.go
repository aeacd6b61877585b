package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// CallbackResult is the completion signal produced by the local callback
// server: a numeric result code plus the opaque payload the provider
// delivered. Feed both into the coordinator's ProcessAuthResult.
type CallbackResult struct {
	Code    int
	Payload url.Values
	err     error
}

func (r *CallbackResult) Error() error {
	return r.err
}

// CallbackHandler receives the identity provider's redirect on a local HTTP
// server. For authorization-code flows it exchanges the code for a bearer
// token before delivering the result; the payload it produces always carries
// either access_token or error, matching what [ParseResult] expects.
type CallbackHandler struct {
	config      *oauth2.Config
	state       string
	resultChan  chan CallbackResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCallbackHandler creates a callback handler with the given OAuth2 config
// and state token.
func NewCallbackHandler(config *oauth2.Config, state string) *CallbackHandler {
	return &CallbackHandler{
		config:     config,
		state:      state,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the provider redirect.
//
// Validates the state parameter, exchanges an authorization code for a token
// when present, and sends exactly one result through the result channel.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	query := r.URL.Query()

	if state := query.Get("state"); state != h.state {
		err := fmt.Errorf("invalid state parameter")
		h.send(CallbackResult{Code: http.StatusBadRequest, err: err})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	// Implicit (token) flows deliver the token directly in the redirect.
	if token := query.Get("access_token"); token != "" {
		h.send(CallbackResult{Code: http.StatusOK, Payload: query})
		writeSuccessPage(w)
		return
	}

	code := query.Get("code")
	if code == "" {
		errParam := query.Get("error")
		if errParam == "" {
			errParam = "access_denied"
		}
		payload := url.Values{"error": {errParam}}
		if desc := query.Get("error_description"); desc != "" {
			payload.Set("error_description", desc)
		}
		h.send(CallbackResult{Code: http.StatusBadRequest, Payload: payload})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(context.Background(), code)
	if err != nil {
		h.send(CallbackResult{
			Code:    http.StatusInternalServerError,
			Payload: url.Values{"error": {"token_exchange_failed"}},
			err:     fmt.Errorf("token exchange failed: %w", err),
		})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	payload := url.Values{
		"access_token": {token.AccessToken},
		"token_type":   {token.TokenType},
	}
	if !token.Expiry.IsZero() {
		payload.Set("expires_in", strconv.Itoa(int(time.Until(token.Expiry).Seconds())))
	}
	h.send(CallbackResult{Code: http.StatusOK, Payload: payload})

	writeSuccessPage(w)
}

// send sends the callback result through the channel (only once).
func (h *CallbackHandler) send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving flow completion.
//
// The channel receives exactly one result and is then closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

func writeSuccessPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#10003; Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`)
}
