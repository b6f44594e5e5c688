package internalhttp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/lomoval/otus-golang/eventrsvp/internal/app"
	log "github.com/sirupsen/logrus"
)

const readHeaderTimeout = 5 * time.Second

type Config struct {
	Host string
	Port int `validate:"min:0|max:65535"`
}

type Server struct {
	mux  *runtime.ServeMux
	srv  *http.Server
	app  *app.App
	addr string
}

func NewServer(config Config, app *app.App) *Server {
	addr := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	return &Server{
		addr: addr,
		app:  app,
		srv:  &http.Server{Addr: addr, ReadHeaderTimeout: readHeaderTimeout},
	}
}

// Handler returns the routed handler with middlewares applied.
func (s *Server) Handler() (http.Handler, error) {
	mux := runtime.NewServeMux(
		runtime.WithMarshalerOption(runtime.MIMEWildcard, &runtime.JSONBuiltin{}),
		runtime.WithRoutingErrorHandler(routingErrorHandler),
	)
	s.mux = mux

	routes := []struct {
		method  string
		pattern string
		handler runtime.HandlerFunc
	}{
		{method: http.MethodPost, pattern: "/login", handler: s.handleLogin},
		{method: http.MethodGet, pattern: "/events", handler: s.authRequired(s.handleListEvents)},
		{method: http.MethodGet, pattern: "/events/{id}", handler: s.authRequired(s.handleGetEvent)},
		{method: http.MethodGet, pattern: "/events/{id}/attendees", handler: s.authRequired(s.handleListAttendees)},
		{method: http.MethodGet, pattern: "/health", handler: s.handleHealth},
	}
	for _, route := range routes {
		if err := mux.HandlePath(route.method, route.pattern, route.handler); err != nil {
			return nil, fmt.Errorf("failed to register %s %s: %w", route.method, route.pattern, err)
		}
	}
	return requestIDMiddleware(loggingMiddleware(mux)), nil
}

func (s *Server) Start(_ context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}
	s.srv.Handler = handler

	log.Printf("starting http server on %s", s.addr)
	err = s.srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func routingErrorHandler(
	_ context.Context,
	_ *runtime.ServeMux,
	m runtime.Marshaler,
	w http.ResponseWriter,
	_ *http.Request,
	status int,
) {
	writeMarshaled(w, m, status, errorResponse{Error: http.StatusText(status)})
}

func getIP(req *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return "", fmt.Errorf("userip: %q is not IP:port", req.RemoteAddr)
	}

	if parsed := net.ParseIP(ip); parsed == nil {
		return "", fmt.Errorf("userip: %q is not IP:port", req.RemoteAddr)
	}
	return ip, nil
}
