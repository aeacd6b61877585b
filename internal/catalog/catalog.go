// package catalog resolves track identifiers into playable track metadata
// via a remote catalog service.
package catalog

import "context"

// Track is resolved track metadata as returned by the catalog service.
type Track struct {
	ID         string
	Title      string
	Artist     string
	URI        string
	DurationMS int
}

// Client defines the boundary with the remote track catalog.
//
// Tracks resolves a batch of bare identifiers in a single request. The
// response is not guaranteed to preserve request order; callers that care
// about ordering must reassociate by ID.
type Client interface {
	Tracks(ctx context.Context, ids []string) ([]Track, error)
	Track(ctx context.Context, id string) (*Track, error)
}
