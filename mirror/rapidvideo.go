package mirror

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anigrab-cli/anigrab/network"
	"github.com/anigrab-cli/anigrab/scrape"
	"github.com/anigrab-cli/anigrab/source"
)

// RapidVideo resolves links by scraping the host's download page. The embed
// link points at the player (/e/); the sibling download page (/d/) lists one
// anchor per stream, ordered worst to best.
type RapidVideo struct {
	session *network.Session
}

// NewRapidVideo constructs the rapidvideo resolver.
func NewRapidVideo(session *network.Session) *RapidVideo {
	return &RapidVideo{session: session}
}

// Name returns the server identifier used in the site's mirror-selection parameter.
func (r *RapidVideo) Name() string {
	return "rapidvideo"
}

// Method returns the HTTP method the host requires for the media fetch.
func (r *RapidVideo) Method() string {
	return http.MethodGet
}

// Resolve scans the download page's stream anchors for the requested quality.
func (r *RapidVideo) Resolve(ctx context.Context, embedURL string, quality source.Quality) (string, error) {
	pageURL := strings.Replace(embedURL, "/e/", "/d/", 1)

	resp, err := r.session.Fetch(ctx, pageURL, network.Options{FollowRedirects: true})
	if err != nil {
		return "", fmt.Errorf("rapidvideo: %w", err)
	}
	if resp.Status != http.StatusOK {
		return "", fmt.Errorf("rapidvideo: unexpected status %d for %s", resp.Status, pageURL)
	}

	doc, err := scrape.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("rapidvideo: parse download page: %w", err)
	}

	anchors := doc.Anchors("video")
	if len(anchors) == 0 {
		return "", fmt.Errorf("rapidvideo: no streams advertised: %w", ErrQualityNotFound)
	}

	switch quality {
	case source.QualityHighest:
		return anchors[len(anchors)-1].Href, nil
	case source.QualityLowest:
		return anchors[0].Href, nil
	}

	for _, anchor := range anchors {
		if strings.Contains(anchor.Text, quality.String()) {
			return anchor.Href, nil
		}
	}

	return "", fmt.Errorf("rapidvideo: no %s stream: %w", quality, ErrQualityNotFound)
}
