// Package storage keeps a gallery of saved renders: the parameters needed to
// reproduce a frame together with its encoded PNG.
package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/moodcanvas/internal/export"
	"github.com/san-kum/moodcanvas/internal/scene"
)

var ErrNotFound = errors.New("render not found")

// Render describes a saved frame.
type Render struct {
	ID        string          `json:"id"`
	Mood      string          `json:"mood"`
	Seed      uint32          `json:"seed"`
	Elapsed   float64         `json:"elapsed"`
	Viewport  scene.Viewport  `json:"viewport"`
	Count     int             `json:"count"`
	Preset    string          `json:"preset,omitempty"`
	Motion    string          `json:"motion"`
	Timestamp time.Time       `json:"timestamp"`
	Elements  []scene.Element `json:"-"`
}

// Repository is the gallery port.
type Repository interface {
	Save(ctx context.Context, r Render, png []byte) (string, error)
	List(ctx context.Context) ([]Render, error)
	Load(ctx context.Context, id string) (Render, error)
	Image(ctx context.Context, id string) ([]byte, error)
}

// NewRender captures the reproducible parameters of sc at t.
func NewRender(sc *scene.Scene, t float64) Render {
	r := Render{
		Mood:      sc.Mood,
		Seed:      sc.Seed,
		Elapsed:   t,
		Viewport:  sc.Viewport,
		Count:     sc.Count(),
		Motion:    sc.Spec.Motion.String(),
		Timestamp: time.Now().UTC(),
		Elements:  sc.Elements,
	}
	if !sc.Spec.Generated {
		r.Preset = sc.Spec.Name
	}
	return r
}

// Capture renders sc at t and saves it to repo.
func Capture(ctx context.Context, repo Repository, sc *scene.Scene, t float64) (Render, error) {
	var buf bytes.Buffer
	if err := export.PNG(&buf, sc, t); err != nil {
		return Render{}, err
	}
	r := NewRender(sc, t)
	id, err := repo.Save(ctx, r, buf.Bytes())
	if err != nil {
		return Render{}, err
	}
	r.ID = id
	return r, nil
}

// NewID returns "<mood-label>_<uuid prefix>".
func NewID(mood string) string {
	return label(mood) + "_" + uuid.New().String()[:8]
}

func label(mood string) string {
	mood = strings.ToLower(strings.TrimSpace(mood))
	var b strings.Builder
	for _, r := range mood {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteByte('-')
		}
		if b.Len() >= 32 {
			break
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		return "render"
	}
	return s
}

// validID rejects identifiers that could escape the gallery directory.
func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}
