// Package object defines the entities that populate the runner's world:
// the character, obstacles, coins, and the ground they move over.
package object

import "github.com/tomz197/annakut/internal/physics"

// Rand is the random source entities draw from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Transform places a node in the world.
type Transform struct {
	Position physics.Vec3 // World position
	Rotation physics.Vec3 // Euler angles in radians
	Scale    float64      // Uniform scale (1 = model size)
}

// Pose returns t itself. Embedding Transform makes a type a Node.
func (t *Transform) Pose() *Transform {
	return t
}

// Node is anything the world hands to the render collaborator. Renderers
// switch on the concrete type to pick a model.
type Node interface {
	// Pose returns the node's transform. Only the owning entity mutates it.
	Pose() *Transform
}

// Advance moves a node toward the camera by step world units.
func (t *Transform) Advance(step float64) {
	t.Position.Z += step
}

// Behind reports whether the node has passed the camera plane and left the
// playable world.
func (t *Transform) Behind() bool {
	return t.Position.Z >= 0
}

// Ground is the static track the character runs on.
type Ground struct {
	Transform
	Width, Height, Depth float64
}

// NewGround creates the track slab that spans the spawn distance.
func NewGround() *Ground {
	return &Ground{
		Transform: Transform{
			Position: physics.Vec3{X: 0, Y: GroundY, Z: -60000},
			Scale:    1,
		},
		Width:  3000,
		Height: 20,
		Depth:  120000,
	}
}

// Lane layout.
const (
	LaneWidth = 800.0 // World units between lane centers
	MinLane   = -1
	MaxLane   = 1
	GroundY   = -400.0 // Height obstacles stand on
)

// LaneX returns the x coordinate of a lane center.
func LaneX(lane int) float64 {
	return float64(lane) * LaneWidth
}
