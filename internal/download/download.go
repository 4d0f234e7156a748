// Package download fetches wallpaper images to the local image directory.
package download

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/bingwall/bingwall/internal/constants"
	"github.com/bingwall/bingwall/internal/http"
)

// Params describes a single image download.
type Params struct {
	// URL is the full image URL.
	URL string

	// LocalPath is the destination file, normally <dir>/<YYYY-MM-DD>.jpg.
	LocalPath string

	// HTTPClient performs the request. Required.
	HTTPClient *nethttp.Client

	// ProgressCallback receives written/total byte counts as the body is
	// read. Total is -1 when the server sends no Content-Length. Optional.
	ProgressCallback func(written, total int64)

	// Force re-downloads even when LocalPath already exists.
	Force bool
}

// Result reports what a download did.
type Result struct {
	// Path is the final image location.
	Path string

	// Size is the downloaded byte count (0 when skipped).
	Size int64

	// Skipped is true when the file already existed and Force was off.
	Skipped bool
}

// progressReader wraps a response body and reports progress.
type progressReader struct {
	r        io.Reader
	total    int64
	written  int64
	callback func(written, total int64)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.written += int64(n)
		if p.callback != nil {
			p.callback(p.written, p.total)
		}
	}
	return n, err
}

// Fetch downloads an image with retries and atomic placement.
//
// The body is written to a hidden temp file next to the destination and
// renamed into place on success, so a crashed download never leaves a
// truncated image where the wallpaper setter (or a later existence check)
// would find it. Transient failures retry with backoff; a non-image
// response or empty body is fatal.
func Fetch(ctx context.Context, params Params) (*Result, error) {
	if params.HTTPClient == nil {
		return nil, fmt.Errorf("HTTPClient is required")
	}
	if params.URL == "" || params.LocalPath == "" {
		return nil, fmt.Errorf("URL and LocalPath are required")
	}

	if !params.Force {
		if _, err := os.Stat(params.LocalPath); err == nil {
			return &Result{Path: params.LocalPath, Skipped: true}, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(params.LocalPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	retryCfg := http.Config{
		MaxRetries:   constants.DownloadMaxRetries,
		InitialDelay: constants.DownloadRetryInitialDelay,
		MaxDelay:     constants.DownloadRetryMaxDelay,
	}

	var size int64
	err := http.ExecuteWithRetry(ctx, retryCfg, func() error {
		var attemptErr error
		size, attemptErr = fetchOnce(ctx, params)
		return attemptErr
	})
	if err != nil {
		return nil, err
	}

	return &Result{Path: params.LocalPath, Size: size}, nil
}

// fetchOnce performs a single download attempt.
func fetchOnce(ctx context.Context, params Params) (int64, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, constants.DownloadTimeout)
	defer cancel()

	req, err := nethttp.NewRequestWithContext(attemptCtx, nethttp.MethodGet, params.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := params.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return 0, fmt.Errorf("image request failed: %s", resp.Status)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return 0, fmt.Errorf("invalid content type %q for image download", ct)
	}

	// Hidden temp file in the destination directory so the final rename
	// stays on one filesystem.
	tmpPath := filepath.Join(
		filepath.Dir(params.LocalPath),
		"."+uuid.NewString()+".part",
	)

	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}

	reader := &progressReader{
		r:        resp.Body,
		total:    resp.ContentLength,
		callback: params.ProgressCallback,
	}

	written, err := io.Copy(tmpFile, reader)
	if closeErr := tmpFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to write image: %w", err)
	}

	if written == 0 {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("invalid empty response body for image download")
	}

	if err := os.Rename(tmpPath, params.LocalPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to place image: %w", err)
	}

	return written, nil
}
