// Package server exposes the engine over HTTP: resolved specs, scenes,
// rendered frames, share links and the render gallery.
package server

import (
	"github.com/gin-gonic/gin"

	"github.com/san-kum/moodcanvas/internal/config"
	"github.com/san-kum/moodcanvas/internal/mood"
	"github.com/san-kum/moodcanvas/internal/scene"
	"github.com/san-kum/moodcanvas/internal/seed"
	"github.com/san-kum/moodcanvas/internal/storage"
)

// Server holds what the handlers share. Repo may be nil, in which case the
// gallery routes are not mounted.
type Server struct {
	Resolver *mood.Resolver
	Repo     storage.Repository
	Mood     string
	Viewport scene.Viewport
	// Random draws seeds for share links that carry none.
	Random func() uint32
	// Sentry installs the sentry-go/gin middleware.
	Sentry bool
}

// New builds a server from cfg.
func New(cfg *config.Config, r *mood.Resolver, repo storage.Repository) *Server {
	return &Server{
		Resolver: r,
		Repo:     repo,
		Mood:     cfg.Mood,
		Viewport: cfg.Viewport,
		Random:   seed.Random,
		Sentry:   cfg.Server.SentryDSN != "",
	}
}

func (s *Server) defaults() {
	if s.Resolver == nil {
		s.Resolver = mood.Default
	}
	if s.Mood == "" {
		s.Mood = config.DefaultMood
	}
	if s.Viewport.Empty() {
		s.Viewport = config.Viewports[config.DefaultViewport]
	}
	if s.Random == nil {
		s.Random = seed.Random
	}
}

// Router wires the middleware chain and routes.
func (s *Server) Router() *gin.Engine {
	s.defaults()

	router := gin.New()
	if s.Sentry {
		router.Use(SentryMiddleware())
	}
	router.Use(RequestTracking(), RecoverWithSentry())

	router.GET("/healthz", s.health)
	router.GET("/art.png", s.artPNG)
	router.GET("/art.svg", s.artSVG)

	api := router.Group("/api")
	{
		api.GET("/moods", s.moods)
		api.GET("/spec", s.spec)
		api.GET("/scene", s.scene)
		api.GET("/share", s.share)
	}

	if s.Repo != nil {
		gallery := api.Group("/gallery")
		gallery.GET("", s.galleryList)
		gallery.POST("", s.galleryCapture)
		gallery.GET("/:id", s.galleryShow)
		gallery.GET("/:id/image", s.galleryImage)
	}
	return router
}
