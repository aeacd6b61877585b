package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"golang.org/x/oauth2"
)

func getCallback(t *testing.T, h *CallbackHandler, query url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/callback?"+query.Encode(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCallbackHandler(t *testing.T) {
	t.Run("implicit token redirect passes through", func(t *testing.T) {
		h := NewCallbackHandler(&oauth2.Config{}, "state123")

		rec := getCallback(t, h, url.Values{
			"state":        {"state123"},
			"access_token": {"abc"},
			"token_type":   {"Bearer"},
		})
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		result := <-h.Result()
		if result.Code != http.StatusOK {
			t.Errorf("result code = %d, want %d", result.Code, http.StatusOK)
		}
		if got := result.Payload.Get("access_token"); got != "abc" {
			t.Errorf("access_token = %q, want %q", got, "abc")
		}
	})

	t.Run("code is exchanged for a token", func(t *testing.T) {
		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"exchanged","token_type":"Bearer","expires_in":3600}`))
		}))
		defer tokenServer.Close()

		config := &oauth2.Config{
			ClientID: "client123",
			Endpoint: oauth2.Endpoint{TokenURL: tokenServer.URL},
		}
		h := NewCallbackHandler(config, "state123")

		rec := getCallback(t, h, url.Values{"state": {"state123"}, "code": {"authcode"}})
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		result := <-h.Result()
		if result.Code != http.StatusOK {
			t.Errorf("result code = %d, want %d", result.Code, http.StatusOK)
		}
		if got := result.Payload.Get("access_token"); got != "exchanged" {
			t.Errorf("access_token = %q, want %q", got, "exchanged")
		}
		if got := result.Payload.Get("token_type"); got != "Bearer" {
			t.Errorf("token_type = %q, want %q", got, "Bearer")
		}
	})

	t.Run("state mismatch is rejected", func(t *testing.T) {
		h := NewCallbackHandler(&oauth2.Config{}, "state123")

		rec := getCallback(t, h, url.Values{"state": {"forged"}, "code": {"authcode"}})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}

		result := <-h.Result()
		if result.Error() == nil {
			t.Error("expected a state validation error")
		}
	})

	t.Run("provider error becomes an error payload", func(t *testing.T) {
		h := NewCallbackHandler(&oauth2.Config{}, "state123")

		getCallback(t, h, url.Values{"state": {"state123"}, "error": {"access_denied"}})

		result := <-h.Result()
		if got := result.Payload.Get("error"); got != "access_denied" {
			t.Errorf("error = %q, want %q", got, "access_denied")
		}
	})

	t.Run("second hit is rejected", func(t *testing.T) {
		h := NewCallbackHandler(&oauth2.Config{}, "state123")

		getCallback(t, h, url.Values{"state": {"state123"}, "access_token": {"abc"}})
		rec := getCallback(t, h, url.Values{"state": {"state123"}, "access_token": {"abc"}})

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}
