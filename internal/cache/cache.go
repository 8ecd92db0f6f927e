// Package cache maintains the on-disk cache directory.
package cache

import (
	"os"
	"time"

	"github.com/anigrab-cli/anigrab/filesystem"
	"github.com/anigrab-cli/anigrab/log"
	"github.com/anigrab-cli/anigrab/where"
	"github.com/spf13/afero"
)

// TTL is how long an untouched cache file is kept. Cached entries carry
// their own lifetimes, so the sweep only clears files nothing has
// refreshed in a long while.
const TTL = 7 * 24 * time.Hour

// CollectGarbage prunes cache files whose last modification is older than
// TTL. It is meant to run in the background at startup and never fails the
// program.
func CollectGarbage() {
	swept := 0
	err := afero.Walk(filesystem.API(), where.Cache(), func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		if time.Since(info.ModTime()) <= TTL {
			return nil
		}

		if err := filesystem.API().Remove(path); err == nil {
			swept++
		}
		return nil
	})
	if err != nil {
		log.Warnf("cache sweep failed: %s", err)
		return
	}

	if swept > 0 {
		log.Infof("cache sweep removed %d stale files", swept)
	}
}
