// Chrome TLS fingerprint emulation.
//
// This file leverages refraction-networking/utls to mimic Chrome's Client
// Hello signature. The target site sits behind an anti-bot challenge
// (Cloudflare/DDoS-Guard class) that rejects the standard Go TLS fingerprint
// outright, so the clearance handshake must look like prevalent browser
// traffic.
//
// Fingerprint Selection:
// uTLS HelloChrome_120 is used as it provides a modern, stable fingerprint
// that matches prevalent browser traffic.
//
// Protocol Negotiation (ALPN):
// The transport performs automatic protocol detection. It first attempts an
// HTTP/2 connection (preferred by modern CDNs). If the handshake fails or the
// server only supports HTTP/1.1, it transparently falls back to a standard H1
// transport with forced protocol advertisement.
package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const tlsTimeout = 30 * time.Second

// Fingerprint is an http.RoundTripper that dials every TLS connection with a
// Chrome Client Hello. It routes requests through HTTP/2 when the server
// negotiates it and falls back to HTTP/1.1 otherwise.
var Fingerprint http.RoundTripper = fingerprintTransport{}

// NewFingerprintClient returns an HTTP client backed by the Chrome-emulating
// transport. The jar collects challenge clearance cookies across the redirect
// chain; pass nil when cookie persistence is not needed.
func NewFingerprintClient(jar http.CookieJar) *http.Client {
	return &http.Client{
		Timeout:   tlsTimeout,
		Transport: Fingerprint,
		Jar:       jar,
	}
}

type fingerprintTransport struct{}

func (fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := getH2Transport().RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	// H2 negotiation failed, retry the request over a forced HTTP/1.1 transport.
	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, err
		}
		retry.Body = body
	}

	return h1Transport.RoundTrip(retry)
}

// h2Transport is a shared HTTP/2 transport for servers that negotiate h2.
var (
	h2Transport     *http2.Transport
	h2TransportOnce sync.Once
)

func getH2Transport() *http2.Transport {
	h2TransportOnce.Do(func() {
		h2Transport = &http2.Transport{
			// Use custom DialTLSContext to provide utls connections
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr)
			},
		}
	})
	return h2Transport
}

// h1Transport is a shared HTTP/1.1 transport for servers that negotiate http/1.1.
var h1Transport = &http.Transport{
	DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialTLSH1(ctx, network, addr)
	},
}

// dialTLS creates a TLS connection mimicking Chrome 120's fingerprint.
// Advertises both h2 and http/1.1 (natural Chrome behavior).
func dialTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: tlsTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName:         host,
		InsecureSkipVerify: true,
		MinVersion:         tls.VersionTLS12,
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}

// dialTLSH1 creates a TLS connection forcing HTTP/1.1 only (for fallback).
func dialTLSH1(ctx context.Context, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: tlsTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName:         host,
		InsecureSkipVerify: false,
		MinVersion:         tls.VersionTLS12,
		NextProtos:         []string{"http/1.1"},
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
