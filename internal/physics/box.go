package physics

// Box is an axis-aligned bounding box. Both Min and Max are inclusive.
type Box struct {
	Min, Max Vec3
}

// Centered returns a box extending half in both directions from center.
func Centered(center, half Vec3) Box {
	return Box{Min: center.Sub(half), Max: center.Add(half)}
}

// Offset returns a box reaching below units under center and above units
// over it on each axis. It builds the asymmetric hitboxes (a character that
// reaches further up than down, a tree that stands on its origin).
func Offset(center, below, above Vec3) Box {
	return Box{Min: center.Sub(below), Max: center.Add(above)}
}

// Overlaps reports whether two boxes intersect. Touching faces count as an
// overlap (closed intervals on all three axes).
func (b Box) Overlaps(o Box) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Corners returns the eight corners of the box.
func (b Box) Corners() [8]Vec3 {
	return [8]Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}
