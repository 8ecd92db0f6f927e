package kissanime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/anigrab-cli/anigrab/network"
	"github.com/anigrab-cli/anigrab/scrape"
	"github.com/anigrab-cli/anigrab/source"
	"github.com/anigrab-cli/anigrab/util"
	"github.com/samber/lo"
)

// Listing fetches a show page and returns its title plus the requested window
// of episodes, oldest first.
func (s *Site) Listing(ctx context.Context, showURL string, from, count int) (string, []*source.Episode, error) {
	resp, err := s.session.Fetch(ctx, showURL, network.Options{FollowRedirects: true})
	if err != nil {
		return "", nil, err
	}
	if resp.Status != http.StatusOK {
		return "", nil, fmt.Errorf("show page returned status %d", resp.Status)
	}

	doc, err := scrape.Parse(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("parse show page: %w", err)
	}

	title, ok := doc.Text("bigChar")
	if !ok {
		return "", nil, errors.New("show page carries no title")
	}

	episodes, err := s.episodes(doc, showURL, from, count)
	if err != nil {
		return "", nil, err
	}

	return util.SanitizeFilename(title), episodes, nil
}

// episodes slices the requested window out of the listing anchors. The site
// lists newest first and opens with specials and previews, so the window is
// anchored by the first episode's href rather than by position.
func (s *Site) episodes(doc *scrape.Document, showURL string, from, count int) ([]*source.Episode, error) {
	anchors := lo.Reverse(doc.Anchors("listing"))
	if len(anchors) == 0 {
		return nil, errors.New("show page carries no episode listing")
	}

	marker := fmt.Sprintf("Episode-%03d", from)
	_, start, ok := lo.FindIndexOf(anchors, func(anchor scrape.Anchor) bool {
		return strings.Contains(anchor.Href, marker)
	})
	if !ok {
		return nil, fmt.Errorf("episode %d not present in the listing", from)
	}

	end := len(anchors)
	if count > 0 {
		end = util.Min(start+count, len(anchors))
	}

	base, err := url.Parse(showURL)
	if err != nil {
		return nil, err
	}

	var episodes []*source.Episode
	for i, anchor := range anchors[start:end] {
		ref, err := url.Parse(anchor.Href)
		if err != nil {
			return nil, fmt.Errorf("listing href %q: %w", anchor.Href, err)
		}

		episodes = append(episodes, &source.Episode{
			Name:  util.SanitizeFilename(anchor.Text),
			URL:   base.ResolveReference(ref).String(),
			Index: from + i,
		})
	}

	return episodes, nil
}
