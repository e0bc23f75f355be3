package render

import (
	"math"

	"github.com/tomz197/annakut/internal/object"
	"github.com/tomz197/annakut/internal/physics"
)

// Point is a position on the screen, y growing downward.
type Point struct {
	X, Y float64
}

// Projector maps world positions onto a screen of the given size.
type Projector struct {
	cam            object.Camera
	right, up, fwd physics.Vec3
	focal          float64
	width, height  float64
	aspect         float64
}

// NewProjector builds a perspective projection for cam onto a width x height
// screen. The vertical field of view is kept; the horizontal one follows the
// screen's aspect ratio.
func NewProjector(cam object.Camera, width, height float64) Projector {
	fwd := cam.LookAt.Sub(cam.Position).Normalize()
	right := fwd.Cross(physics.Vec3{Y: 1}).Normalize()
	up := right.Cross(fwd)
	aspect := 1.0
	if height > 0 {
		aspect = width / height
	}
	return Projector{
		cam:    cam,
		right:  right,
		up:     up,
		fwd:    fwd,
		focal:  1 / math.Tan(cam.FOV*physics.DegToRad/2),
		width:  width,
		height: height,
		aspect: aspect,
	}
}

// ToView converts a world position to view space: x to the right, y up,
// z the depth in front of the camera.
func (p Projector) ToView(v physics.Vec3) physics.Vec3 {
	d := v.Sub(p.cam.Position)
	return physics.Vec3{X: d.Dot(p.right), Y: d.Dot(p.up), Z: d.Dot(p.fwd)}
}

// ToScreen projects a view-space position with positive depth.
func (p Projector) ToScreen(v physics.Vec3) Point {
	nx := v.X * p.focal / (v.Z * p.aspect)
	ny := v.Y * p.focal / v.Z
	return Point{
		X: (nx + 1) / 2 * p.width,
		Y: (1 - ny) / 2 * p.height,
	}
}

// Project maps a world position to the screen. ok is false behind the near
// plane.
func (p Projector) Project(v physics.Vec3) (pt Point, depth float64, ok bool) {
	vv := p.ToView(v)
	if vv.Z < p.cam.Near {
		return Point{}, vv.Z, false
	}
	return p.ToScreen(vv), vv.Z, true
}

// Horizon returns the screen row where the far end of the ground meets the
// sky.
func (p Projector) Horizon() float64 {
	far := physics.Vec3{Y: object.GroundY, Z: p.cam.Position.Z - p.cam.Far}
	pt, _, ok := p.Project(far)
	if !ok {
		return p.height / 2
	}
	return pt.Y
}

// Size returns the screen size.
func (p Projector) Size() (width, height float64) {
	return p.width, p.height
}
