package server

import (
	"bytes"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/san-kum/moodcanvas/internal/config"
	"github.com/san-kum/moodcanvas/internal/export"
	"github.com/san-kum/moodcanvas/internal/logger"
	"github.com/san-kum/moodcanvas/internal/mood"
	"github.com/san-kum/moodcanvas/internal/scene"
	"github.com/san-kum/moodcanvas/internal/seed"
	"github.com/san-kum/moodcanvas/internal/share"
	"github.com/san-kum/moodcanvas/internal/storage"
)

// request holds the parsed query. Malformed numbers fall back to defaults
// rather than failing the request.
type request struct {
	Mood     string
	Seed     uint32
	Viewport scene.Viewport
	T        float64
}

func (s *Server) parse(c *gin.Context) request {
	w, _ := strconv.Atoi(c.Query("width"))
	h, _ := strconv.Atoi(c.Query("height"))
	t, err := strconv.ParseFloat(c.Query("t"), 64)
	if err != nil || math.IsNaN(t) || math.IsInf(t, 0) {
		t = 0
	}
	return request{
		Mood: c.DefaultQuery("mood", s.Mood),
		Seed: seed.Parse(c.Query("seed")),
		Viewport: scene.Viewport{
			Width:  config.Clamp(w, s.Viewport.Width),
			Height: config.Clamp(h, s.Viewport.Height),
		},
		T: t,
	}
}

func (s *Server) build(req request) *scene.Scene {
	return scene.NewWith(s.Resolver, req.Mood, req.Seed, req.Viewport)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type moodEntry struct {
	Name string          `json:"name"`
	Spec mood.VisualSpec `json:"spec"`
}

func (s *Server) moods(c *gin.Context) {
	names := s.Resolver.Names()
	out := make([]moodEntry, 0, len(names))
	for _, name := range names {
		spec, _ := s.Resolver.Lookup(name)
		out = append(out, moodEntry{Name: name, Spec: spec})
	}
	c.JSON(http.StatusOK, gin.H{"moods": out})
}

func (s *Server) spec(c *gin.Context) {
	text := c.DefaultQuery("mood", s.Mood)
	c.JSON(http.StatusOK, gin.H{
		"mood": text,
		"spec": s.Resolver.Resolve(text),
	})
}

func (s *Server) scene(c *gin.Context) {
	sc := s.build(s.parse(c))
	c.JSON(http.StatusOK, gin.H{
		"mood":     sc.Mood,
		"seed":     sc.Seed,
		"count":    sc.Count(),
		"viewport": sc.Viewport,
		"spec":     sc.Spec,
		"elements": sc.Elements,
	})
}

func (s *Server) artPNG(c *gin.Context) {
	s.art(c, "image/png", export.PNG)
}

func (s *Server) artSVG(c *gin.Context) {
	s.art(c, "image/svg+xml", export.SVG)
}

func (s *Server) art(c *gin.Context, contentType string, encode func(io.Writer, *scene.Scene, float64) error) {
	req := s.parse(c)
	sc := s.build(req)

	var buf bytes.Buffer
	if err := encode(&buf, sc, req.T); err != nil {
		logger.Error("Failed to render frame", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("X-Moodcanvas-Seed", strconv.FormatUint(uint64(sc.Seed), 10))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (s *Server) share(c *gin.Context) {
	l := share.FromValues(c.Request.URL.Query(), s.Random)
	c.JSON(http.StatusOK, gin.H{
		"mood":  l.Mood,
		"seed":  l.Seed,
		"query": l.String(),
		"file":  export.FileName(l.Mood, l.Seed, "png"),
	})
}

func (s *Server) galleryList(c *gin.Context) {
	renders, err := s.Repo.List(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list gallery", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gallery unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"renders": renders, "count": len(renders)})
}

func (s *Server) galleryCapture(c *gin.Context) {
	req := s.parse(c)
	sc := s.build(req)
	r, err := storage.Capture(c.Request.Context(), s.Repo, sc, req.T)
	if err != nil {
		logger.Error("Failed to save render", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	logger.Info("Render saved", logger.Fields{"id": r.ID, "mood": r.Mood, "seed": r.Seed})
	c.JSON(http.StatusCreated, r)
}

func (s *Server) galleryShow(c *gin.Context) {
	r, err := s.Repo.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.galleryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"render": r, "elements": r.Elements})
}

func (s *Server) galleryImage(c *gin.Context) {
	data, err := s.Repo.Image(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.galleryError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

func (s *Server) galleryError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "render not found"})
		return
	}
	logger.Error("Gallery lookup failed", err, logger.WithContext(c))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "gallery unavailable"})
}
