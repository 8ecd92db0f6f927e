package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/anigrab-cli/anigrab/network"
	"github.com/anigrab-cli/anigrab/source"
)

// Nova resolves links through the host's JSON source API instead of scraping
// the embed page. The API wants the video id, the last segment of the embed
// path, and answers with every available stream ordered worst to best.
type Nova struct {
	session *network.Session

	// api is the source endpoint format, parameterized for tests.
	api string
}

type novaStream struct {
	Label string `json:"label"`
	File  string `json:"file"`
}

type novaResponse struct {
	Data []novaStream `json:"data"`
}

// NewNova constructs the nova resolver.
func NewNova(session *network.Session) *Nova {
	return &Nova{
		session: session,
		api:     "https://www.novelplanet.me/api/source/%s",
	}
}

// Name returns the server identifier used in the site's mirror-selection parameter.
func (n *Nova) Name() string {
	return "nova"
}

// Method returns the HTTP method the host requires for the media fetch.
func (n *Nova) Method() string {
	return http.MethodGet
}

// Resolve asks the source API for the stream matching the requested quality.
func (n *Nova) Resolve(ctx context.Context, embedURL string, quality source.Quality) (string, error) {
	segments := strings.Split(strings.TrimSuffix(embedURL, "/"), "/")
	id := segments[len(segments)-1]

	resp, err := n.session.Fetch(ctx, fmt.Sprintf(n.api, id), network.Options{
		Method:          http.MethodPost,
		FollowRedirects: true,
	})
	if err != nil {
		return "", fmt.Errorf("nova: %w", err)
	}
	if resp.Status != http.StatusOK {
		return "", fmt.Errorf("nova: unexpected status %d for video %s", resp.Status, id)
	}

	var payload novaResponse
	if err := json.Unmarshal([]byte(resp.Body), &payload); err != nil {
		return "", fmt.Errorf("nova: decode source api response: %w", err)
	}

	if len(payload.Data) == 0 {
		return "", fmt.Errorf("nova: no streams advertised: %w", ErrQualityNotFound)
	}

	switch quality {
	case source.QualityHighest:
		return payload.Data[len(payload.Data)-1].File, nil
	case source.QualityLowest:
		return payload.Data[0].File, nil
	}

	for _, stream := range payload.Data {
		if stream.Label == quality.String() {
			return stream.File, nil
		}
	}

	return "", fmt.Errorf("nova: no %s stream: %w", quality, ErrQualityNotFound)
}
