// Package bypass obtains the anti-bot clearance the site demands before it
// serves real pages, and caches the harvested cookies between runs.
package bypass

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/anigrab-cli/anigrab/constant"
	"github.com/anigrab-cli/anigrab/filesystem"
	"github.com/anigrab-cli/anigrab/log"
	"github.com/anigrab-cli/anigrab/network"
	"github.com/anigrab-cli/anigrab/util"
	"github.com/anigrab-cli/anigrab/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
)

// cookieLifetime bounds how long harvested clearance cookies are trusted
// before a fresh handshake.
const cookieLifetime = 30 * time.Minute

var cookieCacher = gache.New[map[string]string](&gache.Options{
	Path:       where.Cookies(),
	Lifetime:   cookieLifetime,
	FileSystem: &filesystem.GacheFs{},
})

// Tokens returns the clearance cookies and the User-Agent they were issued
// for, reusing the cached set unless force demands a fresh handshake.
func Tokens(ctx context.Context, force bool) (map[string]string, string, error) {
	if !force {
		cookies, expired, err := cookieCacher.Get()
		if err == nil && !expired && len(cookies) > 0 {
			log.Info("using cached clearance cookies")
			return cookies, constant.UserAgent, nil
		}
	}

	cookies, err := handshake(ctx)
	if err != nil {
		return nil, "", err
	}

	_ = cookieCacher.Set(cookies)
	return cookies, constant.UserAgent, nil
}

// handshake walks the site's challenge redirect chain with the fingerprinted
// client and harvests whatever cookies the jar ends up holding. The cookies
// are only honored together with the User-Agent the handshake presented.
func handshake(ctx context.Context) (map[string]string, error) {
	jar := lo.Must(cookiejar.New(nil))
	client := network.NewFingerprintClient(jar)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, constant.Site, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clearance handshake: %w", err)
	}
	defer util.Ignore(resp.Body.Close)
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clearance handshake answered status %d", resp.StatusCode)
	}

	siteURL := lo.Must(url.Parse(constant.Site))
	cookies := make(map[string]string)
	for _, c := range jar.Cookies(siteURL) {
		cookies[c.Name] = c.Value
	}

	if len(cookies) == 0 {
		return nil, errors.New("clearance handshake yielded no cookies")
	}

	log.Infof("harvested %d clearance cookies", len(cookies))
	return cookies, nil
}
