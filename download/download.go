// Package download executes resolved links: it streams media to disk under a
// bounded token pool and reports every outcome through the progress display.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/anigrab-cli/anigrab/filesystem"
	"github.com/anigrab-cli/anigrab/icon"
	"github.com/anigrab-cli/anigrab/log"
	"github.com/anigrab-cli/anigrab/network"
	"github.com/anigrab-cli/anigrab/progress"
	"github.com/anigrab-cli/anigrab/source"
	"github.com/anigrab-cli/anigrab/util"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
)

// Downloader streams resolved links to disk.
type Downloader struct {
	session *network.Session
	pool    *TokenPool
	display progress.Display
}

// New constructs a downloader sharing one session, pool and display across
// all transfers.
func New(session *network.Session, pool *TokenPool, display progress.Display) *Downloader {
	return &Downloader{
		session: session,
		pool:    pool,
		display: display,
	}
}

// Download fetches one link into dir and reports whether the file landed.
// Every failure is logged and shown on the display instead of returned, and
// the stage counter advances exactly once per call no matter how the attempt
// ends.
func (d *Downloader) Download(ctx context.Context, link *source.DownloadLink, dir string) bool {
	defer d.display.Advance(1)

	release, err := d.pool.Acquire(ctx)
	if err != nil {
		d.fail(link, err)
		return false
	}
	defer release()

	fs := filesystem.API()
	path := filepath.Join(dir, link.Filename())

	exists, err := afero.Exists(fs, path)
	if err != nil {
		d.fail(link, err)
		return false
	}
	if exists {
		d.fail(link, fmt.Errorf("refusing to overwrite %s", path))
		return false
	}

	resp, err := d.session.Stream(ctx, link.Method, link.URL)
	if err != nil {
		d.fail(link, err)
		return false
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		d.fail(link, fmt.Errorf("%s answered status %d", link.Mirror, resp.StatusCode))
		return false
	}

	file, err := fs.Create(path)
	if err != nil {
		d.fail(link, err)
		return false
	}

	sink := d.display.Bytes(link.Name, resp.ContentLength)

	written, err := io.Copy(io.MultiWriter(file, sink), resp.Body)
	if err == nil {
		err = file.Close()
	} else {
		util.Ignore(file.Close)
	}
	if err != nil {
		d.discard(path)
		sink.Fail()
		d.fail(link, err)
		return false
	}

	sink.Finish()
	log.Infof("downloaded %s (%d bytes)", link.Name, written)
	d.display.Write(fmt.Sprintf("%s %s (%s)", icon.Get(icon.Success), link.Name, humanize.Bytes(uint64(written))))

	return true
}

// fail records one failed transfer on the log and the display.
func (d *Downloader) fail(link *source.DownloadLink, err error) {
	log.Errorf("download %s: %s", link.Name, err)
	d.display.Write(fmt.Sprintf("%s %s: %s", icon.Get(icon.Fail), link.Name, err))
}

// discard drops a partial file, tolerating one that never came to exist.
func (d *Downloader) discard(path string) {
	if err := filesystem.API().Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warnf("discard partial %s: %s", path, err)
	}
}
