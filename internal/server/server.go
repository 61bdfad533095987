package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"vgtrkvod/internal/api"
	"vgtrkvod/internal/catalog"
	"vgtrkvod/internal/config"
	"vgtrkvod/internal/history"
)

type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	httpServer *http.Server
	router     *chi.Mux
	handler    *api.Handler
}

func New(cfg *config.Config, logger zerolog.Logger, svc *catalog.Service, hist *history.Store) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	s.handler = api.NewHandler(svc, hist, logger)

	s.router = chi.NewRouter()
	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(CORSMiddleware)
	s.router.Use(LoggingMiddleware(s.logger))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handler.Health)

		r.Get("/menu", s.handler.GetMenu)
		r.Get("/categories/{id}", s.handler.BrowseCategory)

		r.Get("/brands/{id}/videos", s.handler.BrandVideos)
		r.Get("/brands/{id}/seasons", s.handler.BrandSeasons)
		r.Get("/brands/{id}/episodes", s.handler.BrandEpisodes)

		r.Get("/search", s.handler.Search)
		r.Get("/search/history", s.handler.GetSearchHistory)
		r.Delete("/search/history", s.handler.ClearSearchHistory)
		r.Delete("/search/history/{index}", s.handler.RemoveSearchHistory)

		r.Get("/videos/{id}/play", s.handler.PlayVideo)
	})
}

func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.httpServer.Addr).
		Msg("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}
