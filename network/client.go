// Package network provides the HTTP clients, TLS fingerprinting and retrying
// fetcher used for all communication with the streaming site and its mirrors.
package network

import (
	"net/http"
	"time"
)

// Client is the singleton HTTP client shared across the application for efficient resource utilization.
// It is configured with increased concurrency limits and reasonable timeouts tailored for scraping workflows.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// NoRedirectClient mirrors Client but surfaces redirect responses instead of following them.
// The site answers mirror-selection requests with a redirect when the requested
// server does not carry the episode, so the status itself is the signal.
var NoRedirectClient = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

// StreamClient is used for long-running media transfers. It carries no overall
// deadline since episode downloads routinely exceed any sane request timeout;
// cancellation is handled through the request context instead.
var StreamClient = &http.Client{
	Transport: newTransport(),
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}
