package batch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/anigrab-cli/anigrab/bypass"
	"github.com/anigrab-cli/anigrab/constant"
	"github.com/anigrab-cli/anigrab/download"
	"github.com/anigrab-cli/anigrab/filesystem"
	"github.com/anigrab-cli/anigrab/icon"
	"github.com/anigrab-cli/anigrab/kissanime"
	"github.com/anigrab-cli/anigrab/log"
	"github.com/anigrab-cli/anigrab/network"
	"github.com/anigrab-cli/anigrab/source"
	"github.com/anigrab-cli/anigrab/util"
	"github.com/samber/mo"
)

type state int

const (
	bypassState state = iota + 1
	listingState
	resolveState
	downloadState
	reportState
	doneState
)

func (b *batch) handleBypassState(ctx context.Context) error {
	b.display.SetStatus("Requesting site clearance")

	cookies, agent, err := bypass.Tokens(ctx, false)
	if err != nil {
		return err
	}

	session := network.NewSession(cookies, agent)
	if !b.verify(ctx, session) {
		log.Warn("cached clearance rejected, retrying with a fresh handshake")

		if cookies, agent, err = bypass.Tokens(ctx, true); err != nil {
			return err
		}
		session = network.NewSession(cookies, agent)

		if !b.verify(ctx, session) {
			return errors.New("site rejected the clearance handshake")
		}
	}

	b.session = session
	b.site = kissanime.New(session)
	b.setState(listingState)
	return nil
}

// verify confirms a session is accepted by fetching the site root.
func (b *batch) verify(ctx context.Context, session *network.Session) bool {
	resp, err := session.Fetch(ctx, constant.Site, network.Options{FollowRedirects: true})
	return err == nil && resp.Status == http.StatusOK
}

func (b *batch) handleListingState(ctx context.Context) error {
	b.display.SetStatus("Fetching the episode listing")

	title, episodes, err := b.site.Listing(ctx, b.options.ShowURL, b.options.From, b.options.Count)
	if err != nil {
		return err
	}
	if len(episodes) == 0 {
		return errors.New("no episodes in the requested window")
	}

	b.title = title
	b.episodes = episodes

	log.Infof("listed %d episodes of %s", len(episodes), title)
	b.display.Write(fmt.Sprintf("%s %s: %s", icon.Get(icon.Search), title, util.Quantify(len(episodes), "episode", "episodes")))

	b.setState(resolveState)
	return nil
}

func (b *batch) handleResolveState(ctx context.Context) error {
	b.display.Stage("Collecting download links", len(b.episodes))

	// Outcomes land positionally so the download order follows the listing
	// regardless of which goroutine finishes first.
	results := make([]mo.Result[*source.DownloadLink], len(b.episodes))

	var wg sync.WaitGroup
	for i, ep := range b.episodes {
		wg.Add(1)
		go func(i int, ep *source.Episode) {
			defer wg.Done()

			link, err := b.site.ResolveEpisode(ctx, ep, b.options.Quality, func(msg string) {
				b.display.Advance(1)
				b.display.SetStatus(msg)
			})
			if err != nil {
				results[i] = mo.Err[*source.DownloadLink](err)
				return
			}

			results[i] = mo.Ok(link)
		}(i, ep)
	}
	wg.Wait()

	for _, result := range results {
		link, err := result.Get()
		if err != nil {
			log.Error(err)
			b.display.Write(fmt.Sprintf("%s %s", icon.Get(icon.Fail), err))
			continue
		}
		b.links = append(b.links, link)
	}

	if len(b.links) == 0 {
		return errors.New("no download links could be resolved")
	}

	if b.options.LinksOnly {
		return b.writeLinks()
	}

	b.setState(downloadState)
	return nil
}

func (b *batch) handleDownloadState(ctx context.Context) error {
	dir := filepath.Join(b.options.Dir, b.title)
	if err := filesystem.API().MkdirAll(dir, 0755); err != nil {
		return err
	}

	b.display.Stage("Downloading episodes", len(b.links))

	downloader := download.New(b.session, download.NewTokenPool(b.options.Parallel), b.display)

	var landed int64
	var wg sync.WaitGroup
	for _, link := range b.links {
		wg.Add(1)
		go func(link *source.DownloadLink) {
			defer wg.Done()
			if downloader.Download(ctx, link, dir) {
				atomic.AddInt64(&landed, 1)
			}
		}(link)
	}
	wg.Wait()

	b.landed = int(landed)
	b.setState(reportState)
	return nil
}

func (b *batch) handleReportState() error {
	ic := icon.Get(icon.Success)
	if b.landed < len(b.episodes) {
		ic = icon.Get(icon.Fail)
	}

	b.display.Write(fmt.Sprintf("%s Downloaded %d/%d episodes", ic, b.landed, len(b.episodes)))

	b.setState(doneState)
	return nil
}
