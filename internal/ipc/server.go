package ipc

import (
	"bufio"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/bingwall/bingwall/internal/logging"
	"github.com/bingwall/bingwall/internal/models"
)

// connReadTimeout bounds how long a connected client may take to send its
// request line. The response write gets its own budget: dispatch runs
// synchronously and a RefreshNow or mode activation can legitimately take
// as long as an image download.
const (
	connReadTimeout  = 10 * time.Second
	connWriteTimeout = 10 * time.Second
)

// Handler defines the daemon operations exposed over IPC.
type Handler interface {
	GetStatus() *StatusData
	SetMode(mode string) error
	RefreshNow() error
	GetHistory(limit int) []*models.Wallpaper
	Shutdown()
}

// Server accepts IPC connections and dispatches requests to the handler.
// One request is served per connection.
type Server struct {
	handler Handler
	logger  *logging.Logger

	mu      sync.Mutex
	ln      net.Listener
	running bool
	wg      sync.WaitGroup
}

// NewServer creates a new IPC server.
func NewServer(handler Handler, logger *logging.Logger) *Server {
	return &Server{
		handler: handler,
		logger:  logger,
	}
}

// Start begins accepting connections in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("IPC server already running")
	}

	ln, err := listen()
	if err != nil {
		return err
	}

	s.ln = ln
	s.running = true

	s.wg.Add(1)
	go s.acceptLoop(ln)

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("IPC server listening")
	return nil
}

// Stop closes the listener and waits for in-flight connections.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	ln := s.ln
	s.mu.Unlock()

	ln.Close()
	s.wg.Wait()
	s.logger.Info().Msg("IPC server stopped")
}

// acceptLoop accepts connections until the listener is closed.
func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if running {
				s.logger.Warn().Err(err).Msg("IPC accept failed")
				continue
			}
			return
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// handleConn reads one request, dispatches it, and writes the response.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(connReadTimeout))

	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		s.logger.Debug().Err(err).Msg("IPC read failed")
		return
	}

	req, err := DecodeRequest(line)
	if err != nil {
		s.logger.Warn().Err(err).Msg("IPC request malformed")
		s.writeResponse(conn, NewErrorResponse("", "malformed request"))
		return
	}

	s.logger.Debug().
		Str("request_id", req.ID).
		Str("type", string(req.Type)).
		Msg("IPC request")

	s.writeResponse(conn, s.dispatch(req))
}

// dispatch routes a request to the handler.
func (s *Server) dispatch(req *Request) *Response {
	switch req.Type {
	case MsgGetStatus:
		return NewStatusResponse(req.ID, s.handler.GetStatus())

	case MsgSetMode:
		if err := s.handler.SetMode(req.Mode); err != nil {
			return NewErrorResponse(req.ID, err.Error())
		}
		return NewOKResponse(req.ID)

	case MsgRefreshNow:
		if err := s.handler.RefreshNow(); err != nil {
			return NewErrorResponse(req.ID, err.Error())
		}
		return NewOKResponse(req.ID)

	case MsgGetHistory:
		return NewHistoryResponse(req.ID, s.handler.GetHistory(req.Limit))

	case MsgShutdown:
		// Let the response reach the client before the daemon exits.
		go s.handler.Shutdown()
		return NewOKResponse(req.ID)

	default:
		return NewErrorResponse(req.ID, "unknown request type: "+string(req.Type))
	}
}

// writeResponse encodes and sends a response.
func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	data, err := resp.Encode()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode IPC response")
		return
	}
	data = append(data, '\n')

	// Deadline starts here, not at accept; the handler may have run for
	// minutes since the request was read.
	conn.SetWriteDeadline(time.Now().Add(connWriteTimeout))
	if _, err := conn.Write(data); err != nil {
		s.logger.Debug().Err(err).Msg("failed to write IPC response")
	}
}
