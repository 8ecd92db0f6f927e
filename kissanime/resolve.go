package kissanime

import (
	"context"
	"fmt"
	"regexp"

	"github.com/anigrab-cli/anigrab/log"
	"github.com/anigrab-cli/anigrab/network"
	"github.com/anigrab-cli/anigrab/source"
	"github.com/anigrab-cli/anigrab/util"
)

// embedPattern extracts the embed link the episode page injects into its
// player container.
var embedPattern = regexp.MustCompile(`\$\('#divMyVideo'\)\.html\('.+?src="(?P<embed>[^"]+)"`)

// ResolveEpisode walks the mirrors in preference order until one serves the
// episode, then resolves the embed link at the requested quality.
//
// The site signals "this mirror does not host the episode" with a redirect on
// the mirror-selection request, so redirects mean try the next mirror rather
// than failure. Once an embed link is extracted the progress callback fires,
// even though quality resolution may still fail: the resolver's verdict is
// final for the episode and is never retried on another mirror, since a
// different host would silently substitute its own encode.
func (s *Site) ResolveEpisode(ctx context.Context, ep *source.Episode, quality source.Quality, progress func(string)) (*source.DownloadLink, error) {
	for _, m := range s.mirrors {
		resp, err := s.session.Fetch(ctx, ep.URL+"&s="+m.Name(), network.Options{})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ep.Name, err)
		}

		if resp.Redirected() {
			log.Debugf("%s is not hosted on %s", ep.Name, m.Name())
			continue
		}

		groups := util.ReGroups(embedPattern, resp.Body)
		embed, ok := groups["embed"]
		if !ok {
			return nil, fmt.Errorf("%s: no embed link on the %s page", ep.Name, m.Name())
		}

		progress(fmt.Sprintf("Found %s on %s", ep.Name, m.Name()))
		log.Infof("resolving %s via %s", ep.Name, m.Name())

		directURL, err := m.Resolve(ctx, embed, quality)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ep.Name, err)
		}

		return &source.DownloadLink{
			Name:   ep.Name,
			URL:    directURL,
			Method: m.Method(),
			Mirror: m.Name(),
		}, nil
	}

	return nil, fmt.Errorf("%s: %w", ep.Name, ErrNoServerFound)
}
