// Package http configures the shared HTTP transport for API calls and
// batch uploads.
package http

import (
	"crypto/tls"
	nethttp "net/http"
	"os"

	"golang.org/x/net/http2"

	"github.com/evermediavault/vault-admin/internal/constants"
)

// ConfigureHTTPClient creates the HTTP client shared by all backend calls.
//
// Key features:
//   - Connection pooling sized for a handful of concurrent uploads
//   - HTTP/2 support with a runtime toggle (DISABLE_HTTP2 env var)
//   - Disabled compression (media payloads are already compressed)
//   - No client-level timeout; each operation sets its own deadline
//     via context (reads are short, uploads materially longer)
func ConfigureHTTPClient() (*nethttp.Client, error) {
	tr := &nethttp.Transport{
		Proxy: nethttp.ProxyFromEnvironment,

		MaxIdleConns:        64,
		MaxIdleConnsPerHost: 16,
		MaxConnsPerHost:     32,
		IdleConnTimeout:     constants.HTTPIdleConnTimeout,

		TLSHandshakeTimeout:   constants.HTTPTLSHandshakeTimeout,
		ExpectContinueTimeout: constants.HTTPExpectContinueTimeout,

		DisableCompression: true,
		ForceAttemptHTTP2:  true,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, err
	}

	// Runtime toggle for HTTP/2 (useful for debugging or compatibility issues)
	if os.Getenv("DISABLE_HTTP2") == "true" {
		tr.ForceAttemptHTTP2 = false
		tr.TLSNextProto = make(map[string]func(string, *tls.Conn) nethttp.RoundTripper)
	}

	return &nethttp.Client{
		Transport: tr,
		Timeout:   0,
	}, nil
}
