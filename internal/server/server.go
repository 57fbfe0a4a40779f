// Package server provides the HTTP API for talentmatch.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/talentmatch/internal/analysis"
	"github.com/hyperjump/talentmatch/internal/config"
	"github.com/hyperjump/talentmatch/internal/ingest"
	"github.com/hyperjump/talentmatch/internal/keyword"
	"github.com/hyperjump/talentmatch/internal/ranking"
	"github.com/hyperjump/talentmatch/internal/storage"
	"github.com/hyperjump/talentmatch/internal/watcher"
	"github.com/hyperjump/talentmatch/pkg/utils"
	"go.uber.org/zap"
)

// WatchService manages the watched resume directories.
type WatchService interface {
	Directories() []string
	AddDirectory(path string, syncExisting bool) error
	RemoveDirectory(path string) error
}

// statsProvider is implemented by watchers that count their work.
type statsProvider interface {
	Stats() watcher.Stats
}

// Server is the HTTP server for the talentmatch API.
type Server struct {
	ranker   *ranking.Ranker
	ingester *ingest.Ingester
	storage  storage.Storage
	keyword  keyword.KeywordIndex
	analyzer *analysis.Analyzer
	config   *config.Config
	logger   *zap.Logger

	watch      WatchService
	configPath string
	configMu   sync.Mutex

	startedAt time.Time
	server    *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithKeywordIndex enables GET /api/v1/candidates/search.
func WithKeywordIndex(idx keyword.KeywordIndex) Option {
	return func(s *Server) { s.keyword = idx }
}

// WithWatch enables the watch directory endpoints. When configPath is set,
// directory changes are saved back to the config file.
func WithWatch(ws WatchService, configPath string) Option {
	return func(s *Server) {
		s.watch = ws
		s.configPath = configPath
	}
}

// WithAnalyzer overrides the resume analyzer.
func WithAnalyzer(a *analysis.Analyzer) Option {
	return func(s *Server) { s.analyzer = a }
}

// NewServer creates a server with the given dependencies. A nil cfg uses config.Default().
func NewServer(cfg *config.Config, store storage.Storage, ranker *ranking.Ranker, ingester *ingest.Ingester, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		ranker:    ranker,
		ingester:  ingester,
		storage:   store,
		config:    cfg,
		startedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = utils.OrNop(s.logger)
	if s.analyzer == nil {
		s.analyzer = analysis.NewAnalyzer(ranker.Extractor())
	}
	return s
}

// Handler returns the router serving every endpoint.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Post("/candidates/find", s.handleFindCandidates)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)

		r.Route("/candidates", func(r chi.Router) {
			r.Get("/", s.handleListCandidates)
			r.Post("/", s.handleCreateCandidate)
			r.Post("/find", s.handleFindCandidates)
			r.Get("/search", s.handleSearchCandidates)
			r.Get("/{id}", s.handleGetCandidate)
			r.Delete("/{id}", s.handleDeleteCandidate)
		})

		r.Post("/skills/extract", s.handleExtractSkills)
		r.Post("/resumes/analyze", s.handleAnalyzeResume)

		r.Get("/watch/directories", s.handleWatchDirectoriesList)
		r.Post("/watch/directories", s.handleWatchDirectoriesAdd)
		r.Delete("/watch/directories", s.handleWatchDirectoriesRemove)
	})
	return r
}

// requestLogger logs each request at debug level through zap.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
