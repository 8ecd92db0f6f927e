package batch

import (
	"encoding/json"

	"github.com/anigrab-cli/anigrab/source"
)

// Output is the machine-readable result of a links-only run.
type Output struct {
	// Title is the sanitized show title the links belong to.
	Title string `json:"title"`
	// Quality the links were resolved at.
	Quality string `json:"quality"`
	// Links in listing order; episodes that failed to resolve are absent.
	Links []*source.DownloadLink `json:"links"`
}

// writeLinks dumps the resolved links to the output writer and ends the run.
func (b *batch) writeLinks() error {
	encoder := json.NewEncoder(b.options.Out)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(&Output{
		Title:   b.title,
		Quality: b.options.Quality.String(),
		Links:   b.links,
	}); err != nil {
		return err
	}

	b.setState(doneState)
	return nil
}
