package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// Session pipeline errors. Each classifies one failure mode of the
	// playback pipeline; all are non-fatal to the coordinator.
	ErrCatalogLookup     = fmt.Errorf("catalog resolution failed")
	ErrEngineInit        = fmt.Errorf("engine initialization failed")
	ErrEngineRuntime     = fmt.Errorf("engine runtime error")
	ErrNoActiveSession   = fmt.Errorf("no active session")
	ErrSessionSuperseded = fmt.Errorf("session superseded")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTrackNotFound      = fmt.Errorf("track not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
