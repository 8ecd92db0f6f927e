// Package source defines the domain models and interfaces for episode discovery and link resolution.
package source

import "context"

// Mirror defines the required capabilities for a video-hosting resolver.
// Implementations translate the embed link the site hands out for their host
// into a direct media URL at a requested quality.
type Mirror interface {
	// Name returns the server identifier the site expects in its mirror-selection parameter.
	Name() string

	// Method returns the HTTP method the host requires for the final media fetch.
	Method() string

	// Resolve turns an embed link into a directly downloadable URL for the requested quality.
	Resolve(ctx context.Context, embedURL string, quality Quality) (string, error)
}
