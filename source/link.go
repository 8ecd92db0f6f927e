// Package source defines the domain models and interfaces for episode discovery and link resolution.
package source

import "github.com/anigrab-cli/anigrab/util"

// DownloadLink is a fully resolved media target for one episode.
type DownloadLink struct {
	// Episode display name the link belongs to.
	Name string `json:"name"`
	// Direct media URL.
	URL string `json:"url"`
	// HTTP method the host requires for the media fetch.
	Method string `json:"method"`
	// Identifier of the mirror that produced the link.
	Mirror string `json:"mirror"`
}

// String returns the episode name the link was resolved for.
func (l *DownloadLink) String() string {
	return l.Name
}

// Filename returns the sanitized on-disk name for the downloaded media.
func (l *DownloadLink) Filename() string {
	return util.SanitizeFilename(l.Name) + ".mp4"
}
