// Package ipc provides inter-process communication between the wallpaper
// daemon and the tray/CLI clients using Unix domain sockets (named pipes on
// Windows). The protocol is one JSON document per line in each direction.
package ipc

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bingwall/bingwall/internal/models"
)

// PipeName is the Windows named pipe path for IPC.
const PipeName = `\\.\pipe\bingwall`

// MessageType identifies the type of IPC message.
type MessageType string

const (
	// Request types (client -> server)
	MsgGetStatus  MessageType = "GetStatus"
	MsgSetMode    MessageType = "SetMode"
	MsgRefreshNow MessageType = "RefreshNow"
	MsgGetHistory MessageType = "GetHistory"
	MsgShutdown   MessageType = "Shutdown"

	// Response types (server -> client)
	MsgStatusResponse  MessageType = "StatusResponse"
	MsgHistoryResponse MessageType = "HistoryResponse"
	MsgOK              MessageType = "OK"
	MsgError           MessageType = "Error"
)

// Request represents an IPC request from client to server.
type Request struct {
	// ID correlates the response with the request in logs.
	ID   string      `json:"id"`
	Type MessageType `json:"type"`

	// Mode is the refresh mode for SetMode requests.
	Mode string `json:"mode,omitempty"`

	// Limit caps the entry count for GetHistory requests (0 = all).
	Limit int `json:"limit,omitempty"`
}

// Response represents an IPC response from server to client.
type Response struct {
	ID      string      `json:"id,omitempty"`
	Type    MessageType `json:"type"`
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// StatusData contains the daemon status information.
type StatusData struct {
	// Mode is the active refresh mode ("daily", "random", "off").
	Mode string `json:"mode"`

	// Version is the daemon version string.
	Version string `json:"version"`

	// LastRefresh is when the last refresh cycle completed.
	LastRefresh *time.Time `json:"last_refresh,omitempty"`

	// Current is the wallpaper currently applied (if any).
	Current *models.Wallpaper `json:"current,omitempty"`

	// LastError is the most recent refresh error (if any).
	LastError string `json:"last_error,omitempty"`

	// Uptime is how long the daemon has been running.
	Uptime string `json:"uptime,omitempty"`
}

// HistoryData contains the applied wallpaper history.
type HistoryData struct {
	Entries []*models.Wallpaper `json:"entries"`
}

// NewRequest creates a new IPC request with a fresh correlation ID.
func NewRequest(msgType MessageType) *Request {
	return &Request{ID: uuid.NewString(), Type: msgType}
}

// NewSetModeRequest creates a SetMode request.
func NewSetModeRequest(mode string) *Request {
	req := NewRequest(MsgSetMode)
	req.Mode = mode
	return req
}

// NewHistoryRequest creates a GetHistory request.
func NewHistoryRequest(limit int) *Request {
	req := NewRequest(MsgGetHistory)
	req.Limit = limit
	return req
}

// NewOKResponse creates a success response.
func NewOKResponse(reqID string) *Response {
	return &Response{ID: reqID, Type: MsgOK, Success: true}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(reqID, err string) *Response {
	return &Response{ID: reqID, Type: MsgError, Success: false, Error: err}
}

// NewStatusResponse creates a status response.
func NewStatusResponse(reqID string, status *StatusData) *Response {
	return &Response{ID: reqID, Type: MsgStatusResponse, Success: true, Data: status}
}

// NewHistoryResponse creates a history response.
func NewHistoryResponse(reqID string, entries []*models.Wallpaper) *Response {
	return &Response{
		ID:      reqID,
		Type:    MsgHistoryResponse,
		Success: true,
		Data:    &HistoryData{Entries: entries},
	}
}

// Encode serializes a request to JSON.
func (r *Request) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// Encode serializes a response to JSON.
func (r *Response) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeRequest deserializes a request from JSON.
func DecodeRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// DecodeResponse deserializes a response from JSON.
func DecodeResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetStatusData extracts StatusData from a response.
// Returns nil if the response doesn't contain status data.
func (r *Response) GetStatusData() *StatusData {
	if r.Data == nil {
		return nil
	}

	// Handle both direct StatusData and map[string]interface{} from JSON
	switch v := r.Data.(type) {
	case *StatusData:
		return v
	case StatusData:
		return &v
	case map[string]interface{}:
		data, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		var status StatusData
		if err := json.Unmarshal(data, &status); err != nil {
			return nil
		}
		return &status
	}
	return nil
}

// GetHistoryData extracts HistoryData from a response.
// Returns nil if the response doesn't contain history data.
func (r *Response) GetHistoryData() *HistoryData {
	if r.Data == nil {
		return nil
	}

	switch v := r.Data.(type) {
	case *HistoryData:
		return v
	case HistoryData:
		return &v
	case map[string]interface{}:
		data, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		var history HistoryData
		if err := json.Unmarshal(data, &history); err != nil {
			return nil
		}
		return &history
	}
	return nil
}
