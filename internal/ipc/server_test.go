package ipc

import (
	"bufio"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/bingwall/bingwall/internal/logging"
	"github.com/bingwall/bingwall/internal/models"
)

// fakeHandler records calls for server dispatch tests.
type fakeHandler struct {
	mu           sync.Mutex
	mode         string
	refresh      int
	shutdown     int
	modeErr      error
	refreshDelay time.Duration
}

func (h *fakeHandler) GetStatus() *StatusData {
	h.mu.Lock()
	defer h.mu.Unlock()
	return &StatusData{Mode: h.mode, Version: "test"}
}

func (h *fakeHandler) SetMode(mode string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.modeErr != nil {
		return h.modeErr
	}
	h.mode = mode
	return nil
}

func (h *fakeHandler) RefreshNow() error {
	h.mu.Lock()
	delay := h.refreshDelay
	h.mu.Unlock()
	time.Sleep(delay)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.refresh++
	return nil
}

func (h *fakeHandler) GetHistory(limit int) []*models.Wallpaper {
	return []*models.Wallpaper{{Date: "2026-08-20", Title: "Entry"}}
}

func (h *fakeHandler) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shutdown++
}

// roundTrip pushes one request through handleConn and returns the response.
func roundTrip(t *testing.T, server *Server, req *Request) *Response {
	t.Helper()

	clientConn, serverConn := net.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		server.handleConn(serverConn)
	}()

	data, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	data = append(data, '\n')
	if _, err := clientConn.Write(data); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	clientConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(clientConn).ReadBytes('\n')
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	clientConn.Close()
	<-done

	resp, err := DecodeResponse(line)
	if err != nil {
		t.Fatalf("DecodeResponse failed: %v", err)
	}
	return resp
}

func newTestServer(handler Handler) *Server {
	return NewServer(handler, logging.NewLogger("daemon", io.Discard))
}

func TestServerDispatchGetStatus(t *testing.T) {
	handler := &fakeHandler{mode: "daily"}
	server := newTestServer(handler)

	resp := roundTrip(t, server, NewRequest(MsgGetStatus))
	if !resp.Success {
		t.Fatalf("response failed: %s", resp.Error)
	}

	status := resp.GetStatusData()
	if status == nil || status.Mode != "daily" {
		t.Errorf("status = %v, want mode daily", status)
	}
}

func TestServerDispatchSetMode(t *testing.T) {
	handler := &fakeHandler{}
	server := newTestServer(handler)

	resp := roundTrip(t, server, NewSetModeRequest("random"))
	if !resp.Success {
		t.Fatalf("response failed: %s", resp.Error)
	}
	if handler.mode != "random" {
		t.Errorf("handler mode = %q, want random", handler.mode)
	}
}

func TestServerDispatchRefreshNow(t *testing.T) {
	handler := &fakeHandler{}
	server := newTestServer(handler)

	resp := roundTrip(t, server, NewRequest(MsgRefreshNow))
	if !resp.Success {
		t.Fatalf("response failed: %s", resp.Error)
	}
	if handler.refresh != 1 {
		t.Errorf("refresh calls = %d, want 1", handler.refresh)
	}
}

func TestServerDispatchGetHistory(t *testing.T) {
	server := newTestServer(&fakeHandler{})

	resp := roundTrip(t, server, NewHistoryRequest(5))
	if !resp.Success {
		t.Fatalf("response failed: %s", resp.Error)
	}

	history := resp.GetHistoryData()
	if history == nil || len(history.Entries) != 1 {
		t.Fatalf("history = %v, want one entry", history)
	}
	if history.Entries[0].Date != "2026-08-20" {
		t.Errorf("entry date = %q, want 2026-08-20", history.Entries[0].Date)
	}
}

func TestServerDispatchShutdownRespondsFirst(t *testing.T) {
	handler := &fakeHandler{}
	server := newTestServer(handler)

	resp := roundTrip(t, server, NewRequest(MsgShutdown))
	if !resp.Success {
		t.Fatalf("response failed: %s", resp.Error)
	}

	// Shutdown runs asynchronously so the response can flush
	deadline := time.Now().Add(time.Second)
	for {
		handler.mu.Lock()
		calls := handler.shutdown
		handler.mu.Unlock()
		if calls == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Shutdown was never invoked")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServerDispatchUnknownType(t *testing.T) {
	server := newTestServer(&fakeHandler{})

	resp := roundTrip(t, server, NewRequest(MessageType("Bogus")))
	if resp.Success {
		t.Error("unknown request type should fail")
	}
	if resp.Error == "" {
		t.Error("error message missing")
	}
}

// deadlineConn records how handleConn arms connection deadlines.
type deadlineConn struct {
	net.Conn
	mu             sync.Mutex
	blanket        int
	writeDeadlines []time.Time
}

func (c *deadlineConn) SetDeadline(t time.Time) error {
	c.mu.Lock()
	c.blanket++
	c.mu.Unlock()
	return c.Conn.SetDeadline(t)
}

func (c *deadlineConn) SetWriteDeadline(t time.Time) error {
	c.mu.Lock()
	c.writeDeadlines = append(c.writeDeadlines, t)
	c.mu.Unlock()
	return c.Conn.SetWriteDeadline(t)
}

func TestServerSlowHandlerStillGetsResponse(t *testing.T) {
	delay := 150 * time.Millisecond
	handler := &fakeHandler{refreshDelay: delay}
	server := newTestServer(handler)

	clientConn, serverConn := net.Pipe()
	recorded := &deadlineConn{Conn: serverConn}
	done := make(chan struct{})
	go func() {
		defer close(done)
		server.handleConn(recorded)
	}()

	start := time.Now()
	data, err := NewRequest(MsgRefreshNow).Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	data = append(data, '\n')
	if _, err := clientConn.Write(data); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	clientConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(clientConn).ReadBytes('\n')
	if err != nil {
		t.Fatalf("no response from slow handler: %v", err)
	}
	clientConn.Close()
	<-done

	resp, err := DecodeResponse(line)
	if err != nil {
		t.Fatalf("DecodeResponse failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("response failed: %s", resp.Error)
	}

	recorded.mu.Lock()
	defer recorded.mu.Unlock()
	if recorded.blanket != 0 {
		t.Error("blanket deadline set; it would expire the response write while the handler runs")
	}
	if len(recorded.writeDeadlines) == 0 {
		t.Fatal("no write deadline set for the response")
	}
	last := recorded.writeDeadlines[len(recorded.writeDeadlines)-1]
	if !last.After(start.Add(delay)) {
		t.Errorf("write deadline %v armed before dispatch finished (%v)", last, start.Add(delay))
	}
}

func TestServerMalformedRequest(t *testing.T) {
	server := newTestServer(&fakeHandler{})

	clientConn, serverConn := net.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		server.handleConn(serverConn)
	}()

	if _, err := clientConn.Write([]byte("{not json\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	clientConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(clientConn).ReadBytes('\n')
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	clientConn.Close()
	<-done

	resp, err := DecodeResponse(line)
	if err != nil {
		t.Fatalf("DecodeResponse failed: %v", err)
	}
	if resp.Success {
		t.Error("malformed request should produce an error response")
	}
}
