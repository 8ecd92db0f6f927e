// Package mirror implements the video-host resolvers behind the site's
// mirror-selection parameter.
//
// Each mirror turns the embed link handed out by the episode page into a
// direct media URL for a requested quality. The preference order of Defaults
// is deliberate: earlier mirrors serve faster, better-labeled streams, and
// the episode orchestrator walks the slice front to back.
package mirror

import (
	"errors"

	"github.com/anigrab-cli/anigrab/network"
	"github.com/anigrab-cli/anigrab/source"
)

// ErrQualityNotFound indicates a reachable mirror that does not carry the
// requested quality. The failure is terminal for the episode: a different
// mirror would silently substitute another host's encode, so no fallback is
// attempted.
var ErrQualityNotFound = errors.New("quality not found")

// Defaults returns all built-in mirrors in preference order.
func Defaults(session *network.Session) []source.Mirror {
	return []source.Mirror{
		NewNova(session),
		NewRapidVideo(session),
		NewMP4Upload(session),
	}
}

// Get finds a built-in mirror by its server identifier.
func Get(session *network.Session, name string) (source.Mirror, bool) {
	for _, m := range Defaults(session) {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// Names returns the server identifiers of all built-in mirrors in preference order.
func Names() []string {
	var names []string
	for _, m := range Defaults(nil) {
		names = append(names, m.Name())
	}
	return names
}
