package http

// this is entry point of the operator control surface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/readerload.net/internal/core/ports/primary"
	"gitlab.com/readerload.net/internal/handlers"
	"gitlab.com/readerload.net/internal/handlers/readers"
)

type Server struct {
	router      *mux.Router
	srv         *http.Server
	Port        int
	ServiceName string
	JwtSecret   string
	provider    readers.StatusProvider
	shutdown    func()
	logger      primary.Logger
}

func NewServer(port int, serviceName string, jwtSecret string, provider readers.StatusProvider, shutdown func(), logger primary.Logger) *Server {
	return &Server{
		Port:        port,
		ServiceName: serviceName,
		JwtSecret:   jwtSecret,
		provider:    provider,
		shutdown:    shutdown,
		logger:      logger,
	}
}

func (s *Server) Init() error {
	if s.provider == nil || s.shutdown == nil {
		return errors.New("control server needs a status provider and a shutdown func")
	}

	r := mux.NewRouter()
	readers.NewHandler(s.provider, s.shutdown, s.logger).Register(r, handlers.New(s.JwtSecret))
	s.router = r
	return nil
}

// Handler returns the routed handler, for use with httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured port and serves in the background
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.Port))
	if err != nil {
		return fmt.Errorf("failed to start %s control server: %w", s.ServiceName, err)
	}

	s.srv = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	go func() {
		s.logger.Info("Server listening", "addr", listener.Addr().String(), "service", s.ServiceName)
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) {
	if s.srv == nil {
		return
	}
	s.logger.Info("Shutting down http server...")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
	}
}
