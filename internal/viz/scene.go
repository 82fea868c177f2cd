package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbsim/internal/dynamo"
)

// Window is the region of the world x/y plane shown on the canvas. The view
// looks down the -z axis, so z is dropped.
type Window struct {
	MinX, MaxX float32
	MinY, MaxY float32
}

var DefaultWindow = Window{MinX: -8, MaxX: 8, MinY: -1, MaxY: 8}

// project maps world x/y to canvas dots.
func (w Window) project(c *Canvas, p mgl32.Vec3) (int, int) {
	dw, dh := c.Dots()
	fx := (p.X() - w.MinX) / (w.MaxX - w.MinX)
	fy := (w.MaxY - p.Y()) / (w.MaxY - w.MinY)
	return int(math.Round(float64(fx * float32(dw-1)))), int(math.Round(float64(fy * float32(dh-1))))
}

func (w Window) scale(c *Canvas, length float32) int {
	dw, _ := c.Dots()
	return int(math.Round(float64(length / (w.MaxX - w.MinX) * float32(dw-1))))
}

// DrawScene renders a side view: the plane's trace as a line, the cube as its
// axis aligned outline and the orb as a disc, hollow while sleeping.
func DrawScene(c *Canvas, scene *dynamo.Scene, w Window) {
	c.Clear()
	drawPlane(c, &scene.Plane, w)
	if scene.Cube != nil {
		h := scene.Cube.HalfExtents()
		x0, y0 := w.project(c, scene.Cube.Position.Add(mgl32.Vec3{-h.X(), h.Y(), 0}))
		x1, y1 := w.project(c, scene.Cube.Position.Add(mgl32.Vec3{h.X(), -h.Y(), 0}))
		c.Rect(x0, y0, x1, y1)
	}
	cx, cy := w.project(c, scene.Orb.Position)
	c.Circle(cx, cy, w.scale(c, scene.Orb.Radius()), scene.Orb.IsAwake())
}

func drawPlane(c *Canvas, p *dynamo.Plane, w Window) {
	n := p.Normal()
	d := p.Distance()
	if mgl32.Abs(n.Y()) < 1e-6 {
		x := d / n.X()
		x0, y0 := w.project(c, mgl32.Vec3{x, w.MinY, 0})
		x1, y1 := w.project(c, mgl32.Vec3{x, w.MaxY, 0})
		c.Line(x0, y0, x1, y1)
		return
	}
	span := w.MaxY - w.MinY
	yAt := func(x float32) float32 {
		return mgl32.Clamp((d-n.X()*x)/n.Y(), w.MinY-span, w.MaxY+span)
	}
	x0, y0 := w.project(c, mgl32.Vec3{w.MinX, yAt(w.MinX), 0})
	x1, y1 := w.project(c, mgl32.Vec3{w.MaxX, yAt(w.MaxX), 0})
	c.Line(x0, y0, x1, y1)
}
