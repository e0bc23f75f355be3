// Package render turns the world's nodes into flat-shaded, fogged, depth
// sorted polygons any 2D backend can paint.
package render

import (
	"image/color"
	"slices"

	"github.com/tomz197/annakut/internal/object"
	"github.com/tomz197/annakut/internal/physics"
)

// Scene is the set of nodes to draw, in insertion order.
type Scene struct {
	nodes []object.Node
	parts []Part
}

// Add registers a node. Adding a node twice has no effect.
func (s *Scene) Add(n object.Node) {
	if slices.Contains(s.nodes, n) {
		return
	}
	s.nodes = append(s.nodes, n)
}

// Remove unregisters a node.
func (s *Scene) Remove(n object.Node) {
	if i := slices.Index(s.nodes, n); i >= 0 {
		s.nodes = slices.Delete(s.nodes, i, i+1)
	}
}

// Len returns the number of registered nodes.
func (s *Scene) Len() int {
	return len(s.nodes)
}

// Contains reports whether n is registered.
func (s *Scene) Contains(n object.Node) bool {
	return slices.Contains(s.nodes, n)
}

// Polygon is one visible face, projected and colored.
type Polygon struct {
	Points [maxPolygon]Point
	N      int // Number of points used
	Depth  float64
	Color  color.RGBA
}

// Vertices returns the used points.
func (p *Polygon) Vertices() []Point {
	return p.Points[:p.N]
}

// A quad clipped against one plane has at most five corners.
const maxPolygon = 5

// light is the direction toward the main light, pointing up, left, and
// toward the viewer like a low evening sun.
var light = physics.Vec3{X: -0.4, Y: 0.8, Z: 0.45}.Normalize()

// faces lists each box face as corner indexes (see physics.Box.Corners) in
// winding order, with its outward normal.
var faces = [6]struct {
	idx    [4]int
	normal physics.Vec3
}{
	{[4]int{0, 2, 3, 1}, physics.Vec3{Z: -1}},
	{[4]int{4, 5, 7, 6}, physics.Vec3{Z: 1}},
	{[4]int{0, 4, 6, 2}, physics.Vec3{X: -1}},
	{[4]int{1, 3, 7, 5}, physics.Vec3{X: 1}},
	{[4]int{0, 1, 5, 4}, physics.Vec3{Y: -1}},
	{[4]int{2, 6, 7, 3}, physics.Vec3{Y: 1}},
}

// Polygons appends the visible faces of every node, sorted back to front,
// to dst.
func (s *Scene) Polygons(p Projector, fog Fog, dst []Polygon) []Polygon {
	start := len(dst)
	for _, n := range s.nodes {
		s.parts = Parts(n, s.parts[:0])
		for i := range s.parts {
			dst = appendFaces(dst, p, fog, &s.parts[i])
		}
	}
	slices.SortStableFunc(dst[start:], func(a, b Polygon) int {
		switch {
		case a.Depth > b.Depth:
			return -1
		case a.Depth < b.Depth:
			return 1
		default:
			return 0
		}
	})
	return dst
}

func appendFaces(dst []Polygon, p Projector, fog Fog, part *Part) []Polygon {
	local := physics.Centered(physics.Vec3{}, part.Size.Scale(0.5)).Corners()
	var world, view [8]physics.Vec3
	for i, c := range local {
		world[i] = part.Place.Apply(c)
		view[i] = p.ToView(world[i])
	}

	origin := part.Place.Apply(physics.Vec3{})
	for _, f := range faces {
		normal := part.Place.Apply(f.normal).Sub(origin).Normalize()
		center := world[f.idx[0]].Add(world[f.idx[2]]).Scale(0.5)
		if normal.Dot(p.cam.Position.Sub(center)) <= 0 {
			continue // Facing away
		}

		var quad [4]physics.Vec3
		depth := 0.0
		for i, ix := range f.idx {
			quad[i] = view[ix]
			depth += view[ix].Z
		}
		depth /= 4
		if depth > p.cam.Far {
			continue
		}

		clipped, n := clipNear(quad, p.cam.Near)
		if n < 3 {
			continue
		}
		poly := Polygon{N: n, Depth: depth}
		for i := 0; i < n; i++ {
			poly.Points[i] = p.ToScreen(clipped[i])
		}
		lit := 0.55 + 0.45*max(normal.Dot(light), 0)
		poly.Color = fog.Apply(Shade(part.Color, lit), depth)
		dst = append(dst, poly)
	}
	return dst
}

// clipNear cuts a view-space quad to the part in front of the near plane.
func clipNear(quad [4]physics.Vec3, near float64) ([maxPolygon]physics.Vec3, int) {
	var out [maxPolygon]physics.Vec3
	n := 0
	for i := range quad {
		a, b := quad[i], quad[(i+1)%len(quad)]
		aIn, bIn := a.Z >= near, b.Z >= near
		if aIn {
			out[n] = a
			n++
		}
		if aIn != bIn {
			t := (near - a.Z) / (b.Z - a.Z)
			out[n] = a.Add(b.Sub(a).Scale(t))
			n++
		}
	}
	return out, n
}
