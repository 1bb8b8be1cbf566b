package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"sharemark/internal/config"
	"sharemark/internal/database"
	"sharemark/internal/middlewares"
	"sharemark/internal/repositories"
	"sharemark/internal/services"
)

// Dependencies are the long-lived collaborators the server is built from.
type Dependencies struct {
	DB        database.Service
	Bookmarks repositories.BookmarkRepository
	Tags      repositories.TagRepository
	Users     repositories.UserRepository
	Verifier  middlewares.TokenVerifier

	// Registerer and Gatherer default to the Prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// MongoDependencies wires the MongoDB repositories over db.
func MongoDependencies(db database.Service, verifier middlewares.TokenVerifier) Dependencies {
	return Dependencies{
		DB:        db,
		Bookmarks: repositories.NewBookmarkRepository(db),
		Tags:      repositories.NewTagRepository(db),
		Users:     repositories.NewUserRepository(db),
		Verifier:  verifier,
	}
}

type Server struct {
	cfg             *config.Config
	httpServer      *http.Server
	db              database.Service
	verifier        middlewares.TokenVerifier
	metrics         *middlewares.PrometheusMiddleware
	gatherer        prometheus.Gatherer
	bookmarkService services.BookmarkService
	tagService      services.TagService
	userService     services.UserService
}

func NewServer(cfg *config.Config, deps Dependencies) *Server {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		cfg:             cfg,
		db:              deps.DB,
		verifier:        deps.Verifier,
		metrics:         middlewares.NewPrometheusMiddleware(deps.Registerer),
		gatherer:        deps.Gatherer,
		bookmarkService: services.NewBookmarkService(deps.Bookmarks),
		tagService:      services.NewTagService(deps.Tags),
		userService:     services.NewUserService(deps.Users),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  cfg.Server.IdleTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Int("port", s.cfg.Server.Port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

// GracefulShutdown waits for SIGINT or SIGTERM, drains the HTTP server and
// closes the database connection.
func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}
	if err := s.db.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Error disconnecting from MongoDB")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
