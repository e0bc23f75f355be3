package object

import (
	"image/color"
	"math"

	"github.com/tomz197/annakut/internal/physics"
)

// Palettes a pilgrim obstacle draws its look from.
var (
	SkinTones = []color.RGBA{
		{0x8d, 0x55, 0x24, 0xff},
		{0xc6, 0x86, 0x42, 0xff},
		{0xe0, 0xac, 0x69, 0xff},
		{0xf1, 0xc2, 0x7d, 0xff},
		{0xff, 0xdb, 0xac, 0xff},
	}
	ClothColors = []color.RGBA{
		{0xff, 0x99, 0x33, 0xff}, // saffron
		{0x99, 0x00, 0x00, 0xff}, // deep red
		{0x80, 0x00, 0x00, 0xff}, // maroon
		{0xff, 0xa5, 0x00, 0xff}, // orange
		{0xff, 0xd7, 0x00, 0xff}, // gold
	}
	BagColors = []color.RGBA{
		{0x8b, 0x45, 0x13, 0xff}, // brown
		{0x80, 0x00, 0x00, 0xff},
		{0x99, 0x00, 0x00, 0xff},
	}
)

// Tree hitbox extents per unit of scale.
const (
	TreeHalfWidth = 120.0
	TreeHeight    = 1100.0
)

// TreeLook holds the cosmetic parameters of an obstacle. They are fixed at
// creation and never affect collision.
type TreeLook struct {
	Skin, Cloth, Bag color.RGBA
	Height           float64 // Height variation, [0.9, 1.2)
	Width            float64 // Width variation, [0.85, 1.15)
	Lean             float64 // Pose variation in radians, [-0.1, 0.1)
	BagWidth         float64 // Bag size factors, [0.8, 1.2)
	BagHeight        float64
	Yaw              float64 // Rotation about y, [-0.1, 0.1)
}

// RandomTreeLook draws a look from r.
func RandomTreeLook(r Rand) TreeLook {
	pick := func(n int) int {
		return int(math.Floor(r.Float64() * float64(n)))
	}
	return TreeLook{
		Skin:      SkinTones[pick(len(SkinTones))],
		Cloth:     ClothColors[pick(len(ClothColors))],
		Bag:       BagColors[pick(len(BagColors))],
		Height:    0.9 + r.Float64()*0.3,
		Width:     0.85 + r.Float64()*0.3,
		Lean:      -0.1 + r.Float64()*0.2,
		BagWidth:  0.8 + r.Float64()*0.4,
		BagHeight: 0.8 + r.Float64()*0.4,
		Yaw:       (r.Float64() - 0.5) * 0.2,
	}
}

// Tree is an obstacle. Touching one ends the run.
type Tree struct {
	Transform
	Look TreeLook
}

// NewTree places an obstacle standing on pos with the given scale.
func NewTree(pos physics.Vec3, scale float64, look TreeLook) *Tree {
	return &Tree{
		Transform: Transform{
			Position: pos,
			Rotation: physics.Vec3{Y: look.Yaw},
			Scale:    scale,
		},
		Look: look,
	}
}

// Box returns the obstacle's hitbox. It rests on the tree's origin and grows
// with its scale.
func (t *Tree) Box() physics.Box {
	s := t.Scale
	return physics.Offset(t.Position,
		physics.Vec3{X: TreeHalfWidth * s, Y: 0, Z: TreeHalfWidth * s},
		physics.Vec3{X: TreeHalfWidth * s, Y: TreeHeight * s, Z: TreeHalfWidth * s},
	)
}

// Collides reports whether the hitbox b touches this obstacle.
func (t *Tree) Collides(b physics.Box) bool {
	return t.Box().Overlaps(b)
}
