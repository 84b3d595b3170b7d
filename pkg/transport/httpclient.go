package transport

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"github.com/richard-senior/sofabet/internal/logger"
)

const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// longest body snippet carried in a StatusError when the page has no <title>
const maxDetail = 200

// Options configures NewClient
type Options struct {
	// Proxy URL, falls back to HTTPS_PROXY and friends when empty
	ProxyURL string
	// Extra PEM bundle appended to the system roots (corporate MITM proxies)
	CABundlePath string
	// Whole-request timeout, zero means none
	Timeout time.Duration
	// Sent on every request, overriding the browser-like defaults
	Headers map[string]string
}

// Client wraps an *http.Client with fixed headers and transparent decompression
type Client struct {
	httpClient *http.Client
	headers    map[string]string
}

// StatusError is returned for any non 2xx response
type StatusError struct {
	URL        string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("GET %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s returned status %d: %s", e.URL, e.StatusCode, e.Detail)
}

// IsNotFound reports whether err carries a 404 StatusError
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// loadCABundle reads a PEM bundle from disk
func loadCABundle(path string) ([]byte, error) {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return os.ReadFile(path)
}

// NewClient returns an HTTP client with custom TLS and proxy configuration
func NewClient(opts Options) (*Client, error) {
	rootCAs, err := x509.SystemCertPool()
	if err != nil {
		logger.Warn("Failed to get system cert pool", err)
		rootCAs = x509.NewCertPool()
	}

	if opts.CABundlePath != "" {
		pem, err := loadCABundle(opts.CABundlePath)
		if err != nil {
			logger.Warn("Proceeding without extra CA bundle", err)
		} else if ok := rootCAs.AppendCertsFromPEM(pem); !ok {
			logger.Warn("Failed to append CA bundle", opts.CABundlePath)
		} else {
			logger.Debug("Added CA bundle to root CAs", opts.CABundlePath)
		}
	}

	proxy := http.ProxyFromEnvironment
	if opts.ProxyURL != "" {
		u, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url %q: %w", opts.ProxyURL, err)
		}
		proxy = http.ProxyURL(u)
	}

	customTransport := &http.Transport{
		TLSClientConfig: &tls.Config{
			RootCAs: rootCAs,
		},
		Proxy: proxy,
		// we ask for br ourselves so the transport must not add gzip on its own
		DisableCompression: true,
	}

	headers := map[string]string{
		"User-Agent":      DefaultUserAgent,
		"Accept":          "application/json, text/plain, */*",
		"Accept-Encoding": "gzip, deflate, br",
		"Accept-Language": "en-US,en;q=0.9",
	}
	for k, v := range opts.Headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}

	return &Client{
		httpClient: &http.Client{
			Transport: customTransport,
			Timeout:   opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
		headers: headers,
	}, nil
}

// Get fetches url and returns the decoded body
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	logger.Debug("GET", rawURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	reader, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Detail: errorDetail(data)}
	}
	return data, nil
}

// GetJSON fetches url and unmarshals the body into out
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) error {
	data, err := c.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", rawURL, err)
	}
	return nil
}

// decodeBody handles compression (Content-Encoding)
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	contentEncoding := resp.Header.Get("Content-Encoding")
	switch contentEncoding {
	case "gzip":
		r, err := NewGzipReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return r, nil
	case "deflate":
		return NewDeflateReader(resp.Body)
	case "br":
		return NewBrotliReader(resp.Body)
	case "", "identity":
		return io.NopCloser(resp.Body), nil
	default:
		logger.Warn("Unknown content encoding:", contentEncoding)
		return io.NopCloser(resp.Body), nil
	}
}

// errorDetail pulls something readable out of an error body
// SofaScore answers blocked requests with an HTML challenge page, its <title> is the useful part
func errorDetail(body []byte) string {
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
		if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
			return title
		}
	}
	var apiErr struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	detail := strings.TrimSpace(string(body))
	if len(detail) > maxDetail {
		detail = detail[:maxDetail] + "..."
	}
	return detail
}

// NewGzipReader creates a gzip reader from the provided io.ReadCloser
func NewGzipReader(r io.ReadCloser) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// NewDeflateReader creates a deflate reader from the provided io.ReadCloser
func NewDeflateReader(r io.ReadCloser) (io.ReadCloser, error) {
	return flate.NewReader(r), nil
}

// NewBrotliReader creates a brotli reader from the provided io.ReadCloser
func NewBrotliReader(r io.ReadCloser) (io.ReadCloser, error) {
	return io.NopCloser(brotli.NewReader(r)), nil
}
