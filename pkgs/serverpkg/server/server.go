package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/WangWilly/cryptoagent/pkgs/serverpkg/serverdto"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

const (
	HEALTH_PROBE_TIMEOUT = 2 * time.Second
)

type Config struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigin   string

	// NodeURL is probed by /health; empty skips the probe.
	NodeURL        string
	RequestTimeout time.Duration

	// Request defaults for max_results and top_k when the body omits them.
	DefaultMaxResults int
	DefaultTopK       int
}

// Server exposes the agent over HTTP.
type Server struct {
	cfg   Config
	agent Agent
	store VectorStore

	healthClient *resty.Client
	logger       *log.Entry
}

func NewServer(cfg Config, agent Agent, store VectorStore) *Server {
	if cfg.DefaultMaxResults <= 0 {
		cfg.DefaultMaxResults = serverdto.DEFAULT_MAX_RESULTS
	}
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = serverdto.DEFAULT_TOP_K
	}
	return &Server{
		cfg:          cfg,
		agent:        agent,
		store:        store,
		healthClient: resty.New().SetTimeout(HEALTH_PROBE_TIMEOUT),
		logger:       log.WithField("service", "server"),
	}
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.setupRoutes(mux)
	return s.withRecover(s.withRequestID(s.withAccessLog(s.withCORS(mux))))
}

func (s *Server) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/text_embedding", s.handleTextEmbedding)
	mux.HandleFunc("POST /v1/text_search", s.handleTextSearch)
	mux.HandleFunc("POST /v1/text_conversation", s.handleTextConversation)
	mux.HandleFunc("GET /v1/conversations", s.handleConversations)

	mux.HandleFunc("GET /health", s.handleHealth)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", ":"+s.cfg.Port)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", listener.Addr().String()).Info("server listening")
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
