// Package kissanime scrapes the streaming site itself: show URL validation,
// the episode listing of a show page, and the per-episode walk across the
// site's mirror-selection parameter that yields a resolved download link.
package kissanime

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/anigrab-cli/anigrab/constant"
	"github.com/anigrab-cli/anigrab/mirror"
	"github.com/anigrab-cli/anigrab/network"
	"github.com/anigrab-cli/anigrab/source"
)

var showPattern = regexp.MustCompile(`^https?://kissanime\.ru/Anime/[^/\s]+$`)

// ErrNoServerFound indicates an episode that none of the known mirrors hosts:
// the site answered every mirror-selection request with a redirect.
var ErrNoServerFound = errors.New("no server found")

// Site drives all scraping against the streaming site on behalf of one
// clearance session.
type Site struct {
	session *network.Session
	mirrors []source.Mirror
}

// New constructs a Site bound to the given session, with the built-in mirrors
// in preference order.
func New(session *network.Session) *Site {
	return &Site{
		session: session,
		mirrors: mirror.Defaults(session),
	}
}

// Validate checks that the given URL is a show page on the streaming site.
func Validate(showURL string) error {
	if !showPattern.MatchString(showURL) {
		return fmt.Errorf("invalid show url %q, expected %s/Anime/<show>", showURL, constant.Site)
	}
	return nil
}
