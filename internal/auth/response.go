package auth

import (
	"net/url"
	"strconv"
)

// ResponseType classifies a parsed provider completion payload.
type ResponseType int

const (
	ResponseUnknown ResponseType = iota // Payload carried neither a token nor an error
	ResponseToken                       // A bearer token was granted
	ResponseError                       // The provider reported a denial or error
)

func (t ResponseType) String() string {
	switch t {
	case ResponseToken:
		return "token"
	case ResponseError:
		return "error"
	default:
		return "unknown"
	}
}

// Response is the typed form of a provider completion signal.
type Response struct {
	Type        ResponseType
	AccessToken string
	TokenType   string
	ExpiresIn   int
	Err         string
}

// ParseResult parses a completion signal into a typed Response.
//
// The payload is the opaque set of parameters the provider delivered on
// redirect. A payload carrying access_token yields a token response; one
// carrying error yields an error response; anything else is unknown.
// Parsing is a pure function of its inputs, so replaying the same signal
// yields the same Response.
func ParseResult(code int, payload url.Values) Response {
	if payload == nil {
		return Response{Type: ResponseUnknown}
	}

	if errMsg := payload.Get("error"); errMsg != "" {
		return Response{Type: ResponseError, Err: errMsg}
	}

	if token := payload.Get("access_token"); token != "" {
		resp := Response{
			Type:        ResponseToken,
			AccessToken: token,
			TokenType:   payload.Get("token_type"),
		}
		if v := payload.Get("expires_in"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				resp.ExpiresIn = n
			}
		}
		return resp
	}

	return Response{Type: ResponseUnknown}
}
