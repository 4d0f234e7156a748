// Package http builds the shared HTTP client used for Bing API calls and
// image downloads, with proxy support and retry helpers.
package http

import (
	"crypto/tls"
	"fmt"
	nethttp "net/http"
	"net/url"
	"os"

	"golang.org/x/net/http2"

	"github.com/bingwall/bingwall/internal/config"
	"github.com/bingwall/bingwall/internal/constants"
)

// NewClient creates an HTTP client honoring the configured proxy mode.
//
// Proxy modes:
//   - "no-proxy": direct connections only
//   - "system" (default): HTTP_PROXY/HTTPS_PROXY/NO_PROXY environment variables
//   - "manual": the configured proxy URL
//
// The transport is tuned for repeated single-image downloads: connection
// reuse across polls, HTTP/2 when no proxy is active, and compression left
// off since JPEGs do not compress. Set DISABLE_HTTP2=true to force HTTP/1.1.
func NewClient(cfg *config.Config) (*nethttp.Client, error) {
	tr := &nethttp.Transport{
		MaxIdleConns:          16,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       constants.HTTPIdleConnTimeout,
		TLSHandshakeTimeout:   constants.HTTPTLSHandshakeTimeout,
		ExpectContinueTimeout: constants.HTTPExpectContinueTimeout,
		DisableCompression:    true,
		ForceAttemptHTTP2:     true,
	}

	proxyActive := false
	proxyMode := "system"
	if cfg != nil {
		proxyMode = cfg.Proxy.Mode
	}

	switch proxyMode {
	case "no-proxy":
		tr.Proxy = nil
	case "manual":
		proxyURL, err := url.Parse(cfg.Proxy.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", cfg.Proxy.URL, err)
		}
		tr.Proxy = nethttp.ProxyURL(proxyURL)
		proxyActive = true
	default: // "system" or empty
		tr.Proxy = nethttp.ProxyFromEnvironment
		proxyActive = os.Getenv("HTTP_PROXY") != "" || os.Getenv("HTTPS_PROXY") != "" ||
			os.Getenv("http_proxy") != "" || os.Getenv("https_proxy") != ""
	}

	_ = http2.ConfigureTransport(tr)

	// Proxies often mishandle HTTP/2 multiplexing; fall back to HTTP/1.1
	// when a proxy is active unless explicitly overridden.
	if os.Getenv("DISABLE_HTTP2") == "true" ||
		(proxyActive && os.Getenv("FORCE_HTTP2") != "true") {
		tr.ForceAttemptHTTP2 = false
		tr.TLSNextProto = make(map[string]func(string, *tls.Conn) nethttp.RoundTripper)
	}

	// No overall timeout; each operation sets its own via context.
	return &nethttp.Client{Transport: tr}, nil
}
