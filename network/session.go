package network

import (
	"context"
	"net/http"
)

// Session bundles the anti-bot clearance cookies and the User-Agent they were
// issued for. A session is immutable once constructed and therefore safe to
// share across concurrently resolving and downloading goroutines.
type Session struct {
	cookies   map[string]string
	userAgent string
}

// NewSession constructs a session from harvested clearance cookies and the
// User-Agent string that must accompany them on every request.
func NewSession(cookies map[string]string, userAgent string) *Session {
	copied := make(map[string]string, len(cookies))
	for name, value := range cookies {
		copied[name] = value
	}

	return &Session{
		cookies:   copied,
		userAgent: userAgent,
	}
}

// UserAgent returns the User-Agent string carried by the session.
func (s *Session) UserAgent() string {
	return s.userAgent
}

// Cookies returns a copy of the clearance cookie set.
func (s *Session) Cookies() map[string]string {
	copied := make(map[string]string, len(s.cookies))
	for name, value := range s.cookies {
		copied[name] = value
	}
	return copied
}

// Apply stamps the session identity onto an outgoing request.
func (s *Session) Apply(req *http.Request) {
	req.Header.Set("User-Agent", s.userAgent)
	for name, value := range s.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}

// Stream issues a request intended for long media transfers. The response body
// is returned unread; cancellation flows through the supplied context since
// the streaming client carries no overall deadline.
func (s *Session) Stream(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	s.Apply(req)

	return StreamClient.Do(req)
}
