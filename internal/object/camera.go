package object

import "github.com/tomz197/annakut/internal/physics"

// Camera is the fixed viewpoint the scene is drawn from.
type Camera struct {
	Position physics.Vec3
	LookAt   physics.Vec3
	FOV      float64 // Vertical field of view in degrees
	Near     float64
	Far      float64
}

// DefaultCamera sits above and behind the character looking down the track.
func DefaultCamera() Camera {
	return Camera{
		Position: physics.Vec3{X: 0, Y: 1500, Z: -2000},
		LookAt:   physics.Vec3{X: 0, Y: 600, Z: -5000},
		FOV:      60,
		Near:     50,
		Far:      120000,
	}
}
