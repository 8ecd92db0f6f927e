package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/anigrab-cli/anigrab/key"
	"github.com/anigrab-cli/anigrab/log"
	"github.com/anigrab-cli/anigrab/util"
	"github.com/spf13/viper"
)

// retryBackoff is the fixed pause between timed-out fetch attempts.
var retryBackoff = time.Second

// Options parameterize a single Fetch call. Zero values fall back to the
// configured fetch defaults (GET, fetch.timeout, fetch.retries).
type Options struct {
	Method          string
	Body            string
	ContentType     string
	FollowRedirects bool
	Timeout         time.Duration // per attempt
	Attempts        int           // total attempts before a timeout is surfaced
}

// Response is a fully read fetch result. Any completed exchange produces a
// Response regardless of its status code; classifying the status is the
// caller's concern.
type Response struct {
	Status int
	Body   string
	Header http.Header
}

// Redirected reports whether the response carries a redirect status.
func (r *Response) Redirected() bool {
	return r.Status >= 300 && r.Status < 400
}

// Location returns the redirect target, empty for non-redirect responses.
func (r *Response) Location() string {
	return r.Header.Get("Location")
}

// Fetch performs an HTTP exchange with retry-on-timeout semantics: a timed-out
// attempt is repeated after a fixed backoff until the attempt budget is spent,
// while any completed response and any non-timeout transport failure is
// returned immediately. Redirect handling is controlled per call since the
// site encodes "mirror not offered" as a redirect status.
func (s *Session) Fetch(ctx context.Context, url string, opts Options) (*Response, error) {
	if opts.Method == "" {
		opts.Method = http.MethodGet
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Duration(viper.GetInt(key.FetchTimeout)) * time.Second
	}
	if opts.Attempts <= 0 {
		opts.Attempts = util.Max(viper.GetInt(key.FetchRetries), 1)
	}

	client := NoRedirectClient
	if opts.FollowRedirects {
		client = Client
	}

	var lastErr error
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		resp, err := s.fetchOnce(ctx, client, url, opts)
		if err == nil {
			return resp, nil
		}

		if !isTimeout(err) {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}

		lastErr = err
		log.Warnf("fetch %s timed out (attempt %d/%d)", url, attempt, opts.Attempts)

		if attempt < opts.Attempts {
			if err := sleepWithContext(ctx, retryBackoff); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("fetch %s: %w", url, lastErr)
}

// fetchOnce performs one bounded exchange and drains the body.
func (s *Session) fetchOnce(ctx context.Context, client *http.Client, url string, opts Options) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	var payload io.Reader
	if opts.Body != "" {
		payload = strings.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(attemptCtx, opts.Method, url, payload)
	if err != nil {
		return nil, err
	}

	s.Apply(req)
	if opts.ContentType != "" {
		req.Header.Set("Content-Type", opts.ContentType)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer util.Ignore(resp.Body.Close)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		Status: resp.StatusCode,
		Body:   string(body),
		Header: resp.Header,
	}, nil
}

// isTimeout reports whether the failure was a network timeout, the only class
// of transport error worth repeating.
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// sleepWithContext pauses for the given duration unless the context ends first.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
