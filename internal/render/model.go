package render

import (
	"image/color"
	"math"

	"github.com/tomz197/annakut/internal/object"
	"github.com/tomz197/annakut/internal/physics"
)

// Part is one colored box of a node's model, centered on Place's origin.
type Part struct {
	Size  physics.Vec3
	Color color.RGBA
	Place Affine
}

// groundSegments splits the track into slabs so fog can vary along it.
const groundSegments = 40

// Parts appends the world-space model of n to dst.
func Parts(n object.Node, dst []Part) []Part {
	switch n := n.(type) {
	case *object.Character:
		return characterParts(n, dst)
	case *object.Tree:
		return treeParts(n, dst)
	case *object.Coin:
		return coinParts(n, dst)
	case *object.Ground:
		return groundParts(n, dst)
	default:
		return dst
	}
}

// nodeFrame places a node: translate, turn about y, scale.
func nodeFrame(t *object.Transform) Affine {
	return chain(Translate(t.Position), RotateY(t.Rotation.Y), Scale(t.Scale))
}

func box(dst []Part, frame Affine, size physics.Vec3, col color.RGBA) []Part {
	return append(dst, Part{Size: size, Color: col, Place: frame})
}

// limb appends a box hanging below a joint at the frame's origin, rotated
// about x by angle. It returns the joint frame for attached limbs.
func limb(dst []Part, parent Affine, joint physics.Vec3, angle float64, size physics.Vec3, col color.RGBA) ([]Part, Affine) {
	frame := chain(parent, Translate(joint), RotateX(angle))
	offset := -(math.Max(size.X, size.Z)/2 + size.Y/2)
	return box(dst, frame.Then(Translate(physics.Vec3{Y: offset})), size, col), frame
}

func characterParts(c *object.Character, dst []Part) []Part {
	root := nodeFrame(&c.Transform)
	p := c.Limbs

	head := chain(root, Translate(physics.Vec3{Y: 260, Z: -25}), RotateX(p[object.LimbHead]))
	dst = box(dst, head, physics.Vec3{X: 100, Y: 100, Z: 60}, Peach)
	dst = box(dst, head.Then(Translate(physics.Vec3{Y: 50})), physics.Vec3{X: 105, Y: 20, Z: 65}, Hair)

	torso := chain(root, Translate(physics.Vec3{Y: 100}), RotateX(p[object.LimbTorso]))
	dst = box(dst, torso, physics.Vec3{X: 150, Y: 190, Z: 40}, Saffron)

	upperArm := physics.Vec3{X: 30, Y: 140, Z: 40}
	lowerArm := physics.Vec3{X: 20, Y: 120, Z: 30}
	upperLeg := physics.Vec3{X: 50, Y: 170, Z: 50}
	lowerLeg := physics.Vec3{X: 40, Y: 200, Z: 40}

	var joint Affine
	dst, joint = limb(dst, root, physics.Vec3{X: -100, Y: 190, Z: -10}, p[object.LimbLeftArm], upperArm, Peach)
	dst, _ = limb(dst, joint, physics.Vec3{Y: -170}, p[object.LimbLeftLowerArm], lowerArm, Peach)
	dst, joint = limb(dst, root, physics.Vec3{X: 100, Y: 190, Z: -10}, p[object.LimbRightArm], upperArm, Peach)
	dst, _ = limb(dst, joint, physics.Vec3{Y: -170}, p[object.LimbRightLowerArm], lowerArm, Peach)
	dst, joint = limb(dst, root, physics.Vec3{X: -50, Y: -10, Z: 30}, p[object.LimbLeftLeg], upperLeg, Maroon)
	dst, _ = limb(dst, joint, physics.Vec3{Y: -200}, p[object.LimbLeftLowerLeg], lowerLeg, Peach)
	dst, joint = limb(dst, root, physics.Vec3{X: 50, Y: -10, Z: 30}, p[object.LimbRightLeg], upperLeg, Maroon)
	dst, _ = limb(dst, joint, physics.Vec3{Y: -200}, p[object.LimbRightLowerLeg], lowerLeg, Peach)
	return dst
}

func treeParts(t *object.Tree, dst []Part) []Part {
	root := nodeFrame(&t.Transform)
	l := t.Look
	w, h := l.Width, l.Height
	at := func(x, y, z float64) Affine {
		return root.Then(Translate(physics.Vec3{X: x, Y: y, Z: z}))
	}

	dst = box(dst, at(0, 1000*h, 0), physics.Vec3{X: 70 * w, Y: 90 * h, Z: 70 * w}, l.Skin)
	dst = box(dst, at(0, 940*h, 0), physics.Vec3{X: 40 * w, Y: 30 * h, Z: 40 * w}, l.Skin)
	dst = box(dst, at(0, 800*h, 0).Then(RotateX(-0.15+l.Lean)),
		physics.Vec3{X: 130 * w, Y: 250 * h, Z: 80 * w}, l.Cloth)
	dst = box(dst, at(0, 820*h, 60).Then(RotateX(0.15+l.Lean)),
		physics.Vec3{X: 160 * l.BagWidth * w, Y: 200 * l.BagHeight * h, Z: 120 * w}, l.Bag)

	arm := physics.Vec3{X: 35 * w, Y: 180 * h, Z: 35 * w}
	dst = box(dst, chain(at(-80*w, 850*h, 20), RotateX(-0.1), RotateZ(0.2+l.Lean)), arm, l.Skin)
	dst = box(dst, chain(at(80*w, 850*h, 20), RotateX(-0.1), RotateZ(-0.2+l.Lean)), arm, l.Skin)

	leg := physics.Vec3{X: 50 * w, Y: 180 * h, Z: 50 * w}
	dst = box(dst, at(-35*w, 600*h, 0).Then(RotateX(0.05+l.Lean)), leg, l.Cloth)
	dst = box(dst, at(35*w, 600*h, 0).Then(RotateX(0.05+l.Lean)), leg, l.Cloth)
	return dst
}

func coinParts(c *object.Coin, dst []Part) []Part {
	if c.Scale <= 0 {
		return dst
	}
	return box(dst, nodeFrame(&c.Transform), physics.Vec3{X: 80, Y: 80, Z: 10}, Gold)
}

func groundParts(g *object.Ground, dst []Part) []Part {
	root := nodeFrame(&g.Transform)
	seg := g.Depth / groundSegments
	for i := 0; i < groundSegments; i++ {
		z := -g.Depth/2 + seg*(float64(i)+0.5)
		col := Sandstone
		if i%2 == 1 {
			col = Shade(Sandstone, 0.94)
		}
		dst = box(dst, root.Then(Translate(physics.Vec3{Z: z})), physics.Vec3{X: g.Width, Y: g.Height, Z: seg}, col)
	}
	return dst
}
