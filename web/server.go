package web

import (
	"context"
	_ "embed"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/flowmosaic/engine"
	"github.com/lixenwraith/flowmosaic/noise"
)

//go:embed index.html
var indexPage []byte

// Options configures the web host
type Options struct {
	Addr   string
	Engine engine.Config
	// NewSource builds the noise for each connection, every viewer gets an independent field
	NewSource func() (noise.Source, error)
	Logger    zerolog.Logger
}

// Server serves the canvas page and streams one animation per websocket
type Server struct {
	opts     Options
	log      zerolog.Logger
	router   *mux.Router
	upgrader websocket.Upgrader
}

// NewServer wires the routes
func NewServer(opts Options) *Server {
	s := &Server{
		opts:   opts,
		log:    opts.Logger.With().Str("host", "web").Logger(),
		router: mux.NewRouter(),
	}
	s.router.HandleFunc("/", s.serveIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.serveWebsocket)
	return s
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until ctx ends, then shuts down and waits for open sessions up to a grace period
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errs := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.opts.Addr).Msg("Listening")
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "listen")
	}
	return nil
}

func (s *Server) serveIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(indexPage); err != nil {
		s.log.Debug().Err(err).Msg("Index write failed")
	}
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	if s.opts.NewSource == nil {
		http.Error(w, "no noise source", http.StatusServiceUnavailable)
		return
	}
	src, err := s.opts.NewSource()
	if err != nil {
		s.log.Error().Err(err).Msg("Noise source failed")
		http.Error(w, "noise source unavailable", http.StatusInternalServerError)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		s.log.Debug().Err(err).Msg("Upgrade failed")
		return
	}

	log := s.log.With().Str("remote", r.RemoteAddr).Logger()
	log.Info().Msg("Session started")
	if err := newSession(ws, s.opts.Engine, src, log).run(r.Context()); err != nil {
		log.Warn().Err(err).Msg("Session failed")
	}
}
