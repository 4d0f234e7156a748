package ipc

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/bingwall/bingwall/internal/constants"
)

// Client connects to the daemon's IPC endpoint.
type Client struct {
	timeout time.Duration
}

// NewClient creates a new IPC client.
func NewClient() *Client {
	return &Client{timeout: constants.IPCTimeout}
}

// SetTimeout sets the per-request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// connDeadline picks the connection deadline: the caller's context deadline
// when it has one, the client's default timeout otherwise. RefreshNow and
// SetMode block on a full download, so callers pass a download-sized context
// and the default only bounds quick requests like GetStatus.
func connDeadline(ctx context.Context, fallback time.Duration) time.Time {
	if deadline, ok := ctx.Deadline(); ok {
		return deadline
	}
	return time.Now().Add(fallback)
}

// sendRequest sends a request and receives a response.
// Each request uses a fresh connection; the daemon serves one request per
// connection, which keeps the protocol free of framing state.
func (c *Client) sendRequest(ctx context.Context, req *Request) (*Response, error) {
	conn, err := dial(ctx, c.timeout)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	conn.SetDeadline(connDeadline(ctx, c.timeout))

	data, err := req.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	data = append(data, '\n')

	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	resp, err := DecodeResponse(respData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return resp, nil
}

// GetStatus retrieves the current daemon status.
func (c *Client) GetStatus(ctx context.Context) (*StatusData, error) {
	resp, err := c.sendRequest(ctx, NewRequest(MsgGetStatus))
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	status := resp.GetStatusData()
	if status == nil {
		return nil, fmt.Errorf("malformed status response")
	}
	return status, nil
}

// SetMode switches the daemon's refresh mode ("daily", "random", "off").
func (c *Client) SetMode(ctx context.Context, mode string) error {
	resp, err := c.sendRequest(ctx, NewSetModeRequest(mode))
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("daemon error: %s", resp.Error)
	}
	return nil
}

// RefreshNow triggers an immediate forced refresh cycle.
func (c *Client) RefreshNow(ctx context.Context) error {
	resp, err := c.sendRequest(ctx, NewRequest(MsgRefreshNow))
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("daemon error: %s", resp.Error)
	}
	return nil
}

// GetHistory retrieves the applied wallpaper history.
func (c *Client) GetHistory(ctx context.Context, limit int) (*HistoryData, error) {
	resp, err := c.sendRequest(ctx, NewHistoryRequest(limit))
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	history := resp.GetHistoryData()
	if history == nil {
		return nil, fmt.Errorf("malformed history response")
	}
	return history, nil
}

// Shutdown asks the daemon to exit gracefully.
func (c *Client) Shutdown(ctx context.Context) error {
	resp, err := c.sendRequest(ctx, NewRequest(MsgShutdown))
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("daemon error: %s", resp.Error)
	}
	return nil
}
