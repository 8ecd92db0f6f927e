package mirror

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/anigrab-cli/anigrab/network"
	"github.com/anigrab-cli/anigrab/scrape"
	"github.com/anigrab-cli/anigrab/source"
	"github.com/anigrab-cli/anigrab/util"
)

var (
	mp4uploadEmbed      = regexp.MustCompile(`embed-(?P<id>[^.]+)\.html`)
	mp4uploadResolution = regexp.MustCompile(`(?P<width>\d+) x (?P<height>\d+)`)
)

// MP4Upload resolves links against a host that serves exactly one stream per
// video. The download URL is derived from the embed URL alone, so sentinel
// qualities resolve without touching the network; an exact quality still
// requires the download page to confirm the advertised resolution.
type MP4Upload struct {
	session *network.Session
}

// NewMP4Upload constructs the mp4upload resolver.
func NewMP4Upload(session *network.Session) *MP4Upload {
	return &MP4Upload{session: session}
}

// Name returns the server identifier used in the site's mirror-selection parameter.
func (m *MP4Upload) Name() string {
	return "mp4upload"
}

// Method returns the HTTP method the host requires for the media fetch.
func (m *MP4Upload) Method() string {
	return http.MethodPost
}

// Resolve derives the single download URL and, for exact qualities, verifies
// it against the resolution the download page advertises.
func (m *MP4Upload) Resolve(ctx context.Context, embedURL string, quality source.Quality) (string, error) {
	groups := util.ReGroups(mp4uploadEmbed, embedURL)
	id, ok := groups["id"]
	if !ok {
		return "", fmt.Errorf("mp4upload: unrecognized embed url %s", embedURL)
	}

	downloadURL := strings.Replace(embedURL, fmt.Sprintf("embed-%s.html", id), id, 1)

	// The host serves one stream, so there is nothing to pick between.
	if quality.Sentinel() {
		return downloadURL, nil
	}

	resp, err := m.session.Fetch(ctx, downloadURL, network.Options{FollowRedirects: true})
	if err != nil {
		return "", fmt.Errorf("mp4upload: %w", err)
	}
	if resp.Status != http.StatusOK {
		return "", fmt.Errorf("mp4upload: unexpected status %d for %s", resp.Status, downloadURL)
	}

	doc, err := scrape.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("mp4upload: parse download page: %w", err)
	}

	resolution, ok := doc.SiblingText("Resolution")
	if !ok {
		return "", fmt.Errorf("mp4upload: download page advertises no resolution: %w", ErrQualityNotFound)
	}

	dimensions := util.ReGroups(mp4uploadResolution, resolution)
	height, ok := dimensions["height"]
	if !ok {
		return "", fmt.Errorf("mp4upload: unrecognized resolution %q: %w", resolution, ErrQualityNotFound)
	}

	if height+"p" != quality.String() {
		return "", fmt.Errorf("mp4upload: stream is %sp, not %s: %w", height, quality, ErrQualityNotFound)
	}

	return downloadURL, nil
}
