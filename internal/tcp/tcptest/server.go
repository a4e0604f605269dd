// Package tcptest provides an in-process READ/VALUE server for tests.
package tcptest

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"gitlab.com/readerload.net/internal/tcp/codec"
)

const maxRequestSize = 1 << 16

// Responder builds the reply text for a request
type Responder func(request string) string

// Reply always answers with the same text
func Reply(text string) Responder {
	return func(string) string { return text }
}

// Server accepts connections and answers each framed request once
type Server struct {
	listener net.Listener
	respond  Responder
	order    binary.ByteOrder
	raw      bool
	silent   bool
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu          sync.Mutex
	conns       map[net.Conn]struct{}
	requests    []string
	prefixes    []uint32
	connections int
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithByteOrder sets the byte order of length prefixes
func WithByteOrder(order binary.ByteOrder) ServerOption {
	return func(s *Server) {
		s.order = order
	}
}

// WithRawReplies writes replies without a length prefix
func WithRawReplies() ServerOption {
	return func(s *Server) {
		s.raw = true
	}
}

// WithSilence reads requests but never replies
func WithSilence() ServerOption {
	return func(s *Server) {
		s.silent = true
	}
}

// NewServer starts a server on a loopback port; it is closed with the test
func NewServer(t testing.TB, respond Responder, options ...ServerOption) *Server {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to start test server: %v", err)
	}

	s := &Server{
		listener: listener,
		respond:  respond,
		order:    binary.BigEndian,
		stopCh:   make(chan struct{}),
		conns:    make(map[net.Conn]struct{}),
	}
	for _, option := range options {
		option(s)
	}

	s.wg.Add(1)
	go s.acceptConnections()
	t.Cleanup(s.Close)

	return s
}

// Addr returns host:port of the listener
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Host returns the listener host
func (s *Server) Host() string {
	return s.listener.Addr().(*net.TCPAddr).IP.String()
}

// Port returns the listener port
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Requests returns the request texts received so far
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Prefixes returns the length prefixes received so far
func (s *Server) Prefixes() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint32(nil), s.prefixes...)
}

// Connections returns how many connections were accepted
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connections
}

// Close stops accepting, drops open connections and waits for handlers
func (s *Server) Close() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.listener.Close()

		s.mu.Lock()
		for conn := range s.conns {
			conn.Close()
		}
		s.mu.Unlock()

		s.wg.Wait()
	})
}

func (s *Server) acceptConnections() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
				if errors.Is(err, net.ErrClosed) {
					return
				}
				time.Sleep(10 * time.Millisecond)
				continue
			}
		}

		s.mu.Lock()
		select {
		case <-s.stopCh:
			s.mu.Unlock()
			conn.Close()
			return
		default:
		}
		s.conns[conn] = struct{}{}
		s.connections++
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		conn.Close()
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
	}()

	header := make([]byte, 4)
	if _, err := io.ReadFull(conn, header); err != nil {
		return
	}
	length := s.order.Uint32(header)
	if length > maxRequestSize {
		return
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(conn, body); err != nil {
		return
	}
	request := string(body)

	s.mu.Lock()
	s.requests = append(s.requests, request)
	s.prefixes = append(s.prefixes, length)
	s.mu.Unlock()

	if s.silent {
		<-s.stopCh
		return
	}

	reply := s.respond(request)
	if s.raw {
		_, _ = conn.Write([]byte(reply))
		return
	}
	_ = codec.WriteFrame(conn, s.order, []byte(reply))
}

// IndexOf parses the key index out of a "READ <n>" request, or -1
func IndexOf(request string) int {
	rest, ok := strings.CutPrefix(request, "READ ")
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return -1
	}
	return n
}
