package render

import (
	"sync"

	"github.com/fogleman/gg"

	"github.com/san-kum/moodcanvas/internal/scene"
)

// SurfacePool recycles drawing contexts per viewport size. Frames overwrite
// every pixel, so a recycled surface needs no clearing.
type SurfacePool struct {
	mu    sync.Mutex
	pools map[scene.Viewport]*sync.Pool
}

func NewSurfacePool() *SurfacePool {
	return &SurfacePool{pools: make(map[scene.Viewport]*sync.Pool)}
}

func (p *SurfacePool) pool(vp scene.Viewport) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	sp, ok := p.pools[vp]
	if !ok {
		sp = &sync.Pool{
			New: func() interface{} {
				return gg.NewContext(vp.Width, vp.Height)
			},
		}
		p.pools[vp] = sp
	}
	return sp
}

// Get returns a surface of size vp, or nil when vp is empty.
func (p *SurfacePool) Get(vp scene.Viewport) *gg.Context {
	if vp.Empty() {
		return nil
	}
	return p.pool(vp).Get().(*gg.Context)
}

// Put returns dc to the pool for its size.
func (p *SurfacePool) Put(dc *gg.Context) {
	if dc == nil {
		return
	}
	vp := scene.Viewport{Width: dc.Width(), Height: dc.Height()}
	if vp.Empty() {
		return
	}
	p.pool(vp).Put(dc)
}
