package bing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/bingwall/bingwall/internal/config"
	"github.com/bingwall/bingwall/internal/constants"
	"github.com/bingwall/bingwall/internal/http"
)

// retryLogger implements the retryablehttp.LeveledLogger interface.
// Only errors and warnings are surfaced; retryablehttp's info/debug chatter
// would flood the daemon log on every poll.
type retryLogger struct{}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	log.Printf("[RETRY ERROR] %s %v", msg, keysAndValues)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	log.Printf("[RETRY WARN] %s %v", msg, keysAndValues)
}

// Client talks to the Bing image-of-the-day archive API.
type Client struct {
	httpClient *nethttp.Client
	baseURL    string
	market     string
}

// NewClient creates a new archive API client.
// The underlying HTTP client honors the configured proxy mode and retries
// transient failures (5xx, 429, connection errors) automatically.
func NewClient(cfg *config.Config) (*Client, error) {
	httpClient, err := http.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = httpClient
	retryClient.RetryMax = constants.APIRetryMax
	retryClient.RetryWaitMin = constants.APIRetryWaitMin
	retryClient.RetryWaitMax = constants.APIRetryWaitMax
	retryClient.Logger = &retryLogger{}

	market := constants.DefaultMarket
	if cfg != nil && cfg.Wallpaper.Market != "" {
		market = cfg.Wallpaper.Market
	}

	client := retryClient.StandardClient()
	client.Timeout = constants.APITimeout

	return &Client{
		httpClient: client,
		baseURL:    constants.BingBaseURL,
		market:     market,
	}, nil
}

// BaseURL returns the API/image host, without a trailing slash.
func (c *Client) BaseURL() string {
	return strings.TrimSuffix(c.baseURL, "/")
}

// SetBaseURL overrides the API host. Used by tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimSuffix(base, "/")
}

// Images fetches count archive entries starting idx days back.
// idx 0 is today's image; Bing serves at most 8 entries per request and
// roughly 16 days of history overall.
func (c *Client) Images(ctx context.Context, idx, count int) ([]Image, error) {
	if idx < 0 || idx >= constants.MaxArchiveCount {
		return nil, fmt.Errorf("archive index %d out of range [0, %d]", idx, constants.MaxArchiveCount-1)
	}
	if count < 1 || count > constants.MaxArchiveCount {
		return nil, fmt.Errorf("archive count %d out of range [1, %d]", count, constants.MaxArchiveCount)
	}

	q := url.Values{}
	q.Set("format", "js")
	q.Set("idx", strconv.Itoa(idx))
	q.Set("n", strconv.Itoa(count))
	q.Set("mkt", c.market)

	reqURL := c.BaseURL() + constants.ImageArchivePath + "?" + q.Encode()

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("archive request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        reqURL,
		}
	}

	var archive archiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&archive); err != nil {
		return nil, fmt.Errorf("failed to decode archive response: %w", err)
	}

	if len(archive.Images) == 0 {
		return nil, ErrNoImage
	}

	return archive.Images, nil
}

// ImageAt fetches the single archive entry idx days back.
// Accepts 0..MaxArchiveIndex; indexes past the request limit of 7 are
// reached by asking for a window at idx 7 and picking into it.
func (c *Client) ImageAt(ctx context.Context, idx int) (*Image, error) {
	if idx < 0 || idx > constants.MaxArchiveIndex {
		return nil, fmt.Errorf("archive index %d out of range [0, %d]", idx, constants.MaxArchiveIndex)
	}

	reqIdx, pick := idx, 0
	if idx >= constants.MaxArchiveCount {
		reqIdx = constants.MaxArchiveCount - 1
		pick = idx - reqIdx
	}

	images, err := c.Images(ctx, reqIdx, pick+1)
	if err != nil {
		return nil, err
	}
	if pick >= len(images) {
		return nil, ErrNoImage
	}
	return &images[pick], nil
}

// ImageOfDay fetches today's image.
func (c *Client) ImageOfDay(ctx context.Context) (*Image, error) {
	return c.ImageAt(ctx, 0)
}
