package rest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ajkula/dirtidy/domain/port/outbound"
)

// Server runs the control API
type Server struct {
	server   *http.Server
	router   *mux.Router
	listener net.Listener
	logger   outbound.Logger
	done     chan struct{}
}

// NewServer wires routes and middleware; auth may be nil
func NewServer(addr string, handler *Handler, auth *AuthMiddleware, logger outbound.Logger) *Server {
	router := mux.NewRouter()
	handler.SetupRoutes(router)

	router.Use(requestLogger(logger))
	if auth != nil {
		router.Use(auth.Middleware)
	}

	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		router: router,
		logger: logger,
	}
}

// Router exposes the router to mount extra handlers (websocket)
func (s *Server) Router() *mux.Router {
	return s.router
}

// Start binds synchronously so address errors surface to the caller, then serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}
	s.listener = ln
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		s.logger.Info("HTTP server listening", "address", ln.Addr().String())
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	return nil
}

// Addr is the bound address, useful when started on port 0
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.done == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	<-s.done
	return err
}

func requestLogger(logger outbound.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("Request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start).String())
		})
	}
}
