// Package source defines the domain models and interfaces for episode discovery and link resolution.
package source

// Episode is an immutable descriptor of one entry in a show's listing.
type Episode struct {
	// Display name derived from the listing anchor (e.g. "Episode_001").
	Name string `json:"name"`
	// Episode page URL on the site.
	URL string `json:"url"`
	// Position in the listing, oldest first.
	Index int `json:"index"`
}

// String returns the canonical string representation of the episode identifier.
func (e *Episode) String() string {
	return e.Name
}
