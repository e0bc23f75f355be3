package render

import (
	"math"

	"github.com/tomz197/annakut/internal/physics"
)

// Affine is a 3D linear map followed by a translation.
type Affine struct {
	M [3][3]float64
	T physics.Vec3
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Translate returns a translation by v.
func Translate(v physics.Vec3) Affine {
	a := Identity()
	a.T = v
	return a
}

// Scale returns a uniform scale by s.
func Scale(s float64) Affine {
	return Affine{M: [3][3]float64{{s, 0, 0}, {0, s, 0}, {0, 0, s}}}
}

// RotateX returns a rotation of a radians about the x axis.
func RotateX(a float64) Affine {
	s, c := math.Sincos(a)
	return Affine{M: [3][3]float64{{1, 0, 0}, {0, c, -s}, {0, s, c}}}
}

// RotateY returns a rotation of a radians about the y axis.
func RotateY(a float64) Affine {
	s, c := math.Sincos(a)
	return Affine{M: [3][3]float64{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}}
}

// RotateZ returns a rotation of a radians about the z axis.
func RotateZ(a float64) Affine {
	s, c := math.Sincos(a)
	return Affine{M: [3][3]float64{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}}
}

// Then returns the transform that applies b first, then a.
func (a Affine) Then(b Affine) Affine {
	var r Affine
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r.M[i][j] = a.M[i][0]*b.M[0][j] + a.M[i][1]*b.M[1][j] + a.M[i][2]*b.M[2][j]
		}
	}
	r.T = a.Apply(b.T)
	return r
}

// Apply transforms a point.
func (a Affine) Apply(v physics.Vec3) physics.Vec3 {
	return physics.Vec3{
		X: a.M[0][0]*v.X + a.M[0][1]*v.Y + a.M[0][2]*v.Z + a.T.X,
		Y: a.M[1][0]*v.X + a.M[1][1]*v.Y + a.M[1][2]*v.Z + a.T.Y,
		Z: a.M[2][0]*v.X + a.M[2][1]*v.Y + a.M[2][2]*v.Z + a.T.Z,
	}
}

// chain composes transforms outermost first.
func chain(ts ...Affine) Affine {
	r := Identity()
	for _, t := range ts {
		r = r.Then(t)
	}
	return r
}
