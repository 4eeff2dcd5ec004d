package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/studyaid-core/internal/infrastructure/config"
	"github.com/nerrad567/studyaid-core/internal/infrastructure/logging"
	"github.com/nerrad567/studyaid-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/studyaid-core/internal/store"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Store is the persistence surface the handlers use. *store.Store satisfies it.
type Store interface {
	Ready() bool
	HealthCheck(ctx context.Context) error
	SchemaStatus(ctx context.Context) (store.SchemaStatus, error)
	CountUsers(ctx context.Context) (int, error)

	CreateUser(ctx context.Context, u store.NewUser) (int64, error)
	FindUserByCredentials(ctx context.Context, account, password string) (*store.User, error)

	CreateReviewer(ctx context.Context, userID int64, title, content string) (int64, error)
	ListReviewers(ctx context.Context, userID int64) ([]store.Reviewer, error)
	ListReviewerSummaries(ctx context.Context, userID int64) ([]store.ReviewerSummary, error)
	GetReviewerForUser(ctx context.Context, id, userID int64) (*store.Reviewer, error)
	GetReviewerContent(ctx context.Context, id, userID int64) (string, bool, error)
	DeleteReviewerForUser(ctx context.Context, id, userID int64) (bool, error)

	CreateQuizResult(ctx context.Context, q store.NewQuizResult) (int64, error)
	ListQuizResults(ctx context.Context, userID int64) ([]store.QuizResult, error)

	ExportUsers(ctx context.Context) (string, error)
}

// EventPublisher announces successful writes. *mqtt.Client satisfies it.
type EventPublisher interface {
	PublishEvent(kind string, ev mqtt.Event) error
}

// ScoreRecorder receives quiz scores and study activity. *influxdb.Client satisfies it.
type ScoreRecorder interface {
	WriteQuizScore(userID int64, title string, percentage int, takenAt time.Time)
	WriteStudyActivity(userID int64, action string)
}

// ExportMirror copies the export file off the device. *objectstore.Client satisfies it.
type ExportMirror interface {
	UploadFile(ctx context.Context, localPath string) (string, error)
	Bucket() string
}

// HealthChecker is an optional service reported by /health.
// *mqtt.Client and *influxdb.Client satisfy it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
// Events, Scores, Mirror and Services are optional; leave them nil when disabled.
type Deps struct {
	Config   config.APIConfig
	Logger   *logging.Logger
	Store    Store
	Events   EventPublisher
	Scores   ScoreRecorder
	Mirror   ExportMirror
	Services map[string]HealthChecker
	Version  string
}

// Server is the HTTP API server for the study-aid core.
type Server struct {
	cfg      config.APIConfig
	logger   *logging.Logger
	store    Store
	events   EventPublisher
	scores   ScoreRecorder
	mirror   ExportMirror
	services map[string]HealthChecker
	version  string
	server   *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	return &Server{
		cfg:      deps.Config,
		logger:   deps.Logger,
		store:    deps.Store,
		events:   deps.Events,
		scores:   deps.Scores,
		mirror:   deps.Mirror,
		services: deps.Services,
		version:  deps.Version,
	}, nil
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.ReadTimeout(),
		WriteTimeout:      s.cfg.WriteTimeout(),
		IdleTimeout:       s.cfg.IdleTimeout(),
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// publish sends a change event when a publisher is configured.
// Failures are logged; the write that triggered the event has already succeeded.
func (s *Server) publish(kind string, ev mqtt.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(kind, ev); err != nil {
		s.logger.Warn("publishing event failed", "kind", kind, "error", err)
	}
}
