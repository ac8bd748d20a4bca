package viz

import (
	"github.com/san-kum/ferrosim/internal/engine"
	"github.com/san-kum/ferrosim/internal/particle"
	"github.com/san-kum/ferrosim/internal/vecmath"
)

// magnetGlyphs index by magnet type.
var magnetGlyphs = []rune{'▣', '◎', '◆'}

// Scene projects the world into a braille canvas.
type Scene struct {
	Canvas *Canvas
	Camera *Camera

	groundX, groundZ float64
}

func NewScene(w, h int, groundX, groundZ float64) *Scene {
	return &Scene{
		Canvas:  NewCanvas(w, h),
		Camera:  NewCamera(),
		groundX: groundX,
		groundZ: groundZ,
	}
}

// Render redraws the full frame: ground grid, particles, then magnet
// markers on top.
func (s *Scene) Render(e *engine.Engine, selected int) {
	s.Canvas.Clear()
	s.drawGround()

	sw, sh := s.Canvas.Width*2, s.Canvas.Height*4

	e.EachParticle(func(p *particle.Particle) {
		if x, y, _, ok := s.Camera.Project(p.Pos, sw, sh); ok {
			s.Canvas.Set(x, y)
		}
	})

	for i, m := range e.Magnets() {
		x, y, _, ok := s.Camera.Project(m.Pos, sw, sh)
		if !ok {
			continue
		}
		glyph := magnetGlyphs[int(m.Type)]
		if i == selected {
			glyph = '◉'
		}
		s.Canvas.SetRune(x, y, glyph)
	}
}

func (s *Scene) drawGround() {
	sw, sh := s.Canvas.Width*2, s.Canvas.Height*4

	// Grid lines across the ground plane every 5 world units.
	for gx := -s.groundX; gx <= s.groundX; gx += 5 {
		s.lineBetween(vecmath.Vec3{X: gx, Z: -s.groundZ}, vecmath.Vec3{X: gx, Z: s.groundZ}, sw, sh)
	}
	for gz := -s.groundZ; gz <= s.groundZ; gz += 5 {
		s.lineBetween(vecmath.Vec3{X: -s.groundX, Z: gz}, vecmath.Vec3{X: s.groundX, Z: gz}, sw, sh)
	}
}

func (s *Scene) lineBetween(a, b vecmath.Vec3, sw, sh int) {
	x0, y0, _, ok0 := s.Camera.Project(a, sw, sh)
	x1, y1, _, ok1 := s.Camera.Project(b, sw, sh)
	if ok0 && ok1 {
		s.Canvas.DrawLine(x0, y0, x1, y1)
	}
}
