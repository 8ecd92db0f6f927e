// Package batch drives one download run as a sequential state machine:
// clearance, listing, link resolution, transfer, report.
package batch

import (
	"context"
	"io"
	"os"

	"github.com/anigrab-cli/anigrab/kissanime"
	"github.com/anigrab-cli/anigrab/network"
	"github.com/anigrab-cli/anigrab/progress"
	"github.com/anigrab-cli/anigrab/source"
)

// Options parameterize one run.
type Options struct {
	// ShowURL is the validated show page to download from.
	ShowURL string
	// From is the first episode number of the window.
	From int
	// Count is the window length; zero takes everything from From on.
	Count int
	// Quality selects the stream each mirror should serve.
	Quality source.Quality
	// Dir is the directory the show folder is created under.
	Dir string
	// Parallel bounds simultaneous transfers.
	Parallel int
	// LinksOnly writes resolved links as JSON to Out instead of downloading.
	LinksOnly bool
	// Out receives machine-readable output. Defaults to stdout.
	Out io.Writer
}

type batch struct {
	options *Options
	display progress.Display

	state state

	session  *network.Session
	site     *kissanime.Site
	title    string
	episodes []*source.Episode
	links    []*source.DownloadLink
	landed   int
}

// Run executes the batch described by options, rendering on display. The
// returned error is a run-aborting failure; per-episode failures are reported
// on the display and reflected in the final tally instead.
func Run(ctx context.Context, options *Options, display progress.Display) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	b := &batch{
		options: options,
		display: display,
		state:   bypassState,
	}

	for b.state != doneState {
		if err := b.handleState(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (b *batch) setState(s state) {
	b.state = s
}

func (b *batch) handleState(ctx context.Context) error {
	switch b.state {
	case bypassState:
		return b.handleBypassState(ctx)
	case listingState:
		return b.handleListingState(ctx)
	case resolveState:
		return b.handleResolveState(ctx)
	case downloadState:
		return b.handleDownloadState(ctx)
	case reportState:
		return b.handleReportState()
	}

	return nil
}
