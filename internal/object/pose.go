package object

import "github.com/tomz197/annakut/internal/physics"

// Limb indexes a jointed part of the character.
type Limb int

const (
	LimbHead Limb = iota
	LimbTorso
	LimbLeftArm
	LimbRightArm
	LimbLeftLowerArm
	LimbRightLowerArm
	LimbLeftLeg
	LimbRightLeg
	LimbLeftLowerLeg
	LimbRightLowerLeg
	limbCount
)

// Pose holds each limb's rotation about the x axis, in radians.
type Pose [limbCount]float64

// stride describes one limb's swing: frequency multiple of the step
// frequency, swing range in degrees, and phase offset in degrees.
type stride struct {
	freq     float64
	min, max float64
	phase    float64
}

// Opposite limbs are half a cycle apart; lower limbs trail their parents.
var gait = [limbCount]stride{
	LimbHead:          {2, -10, -5, 0},
	LimbTorso:         {2, -10, -5, 180},
	LimbLeftArm:       {1, -70, 50, 180},
	LimbRightArm:      {1, -70, 50, 0},
	LimbLeftLowerArm:  {1, 70, 140, 180},
	LimbRightLowerArm: {1, 70, 140, 0},
	LimbLeftLeg:       {1, -20, 80, 0},
	LimbRightLeg:      {1, -20, 80, 180},
	LimbLeftLowerLeg:  {1, -130, 5, 240},
	LimbRightLowerLeg: {1, -130, 5, 60},
}

// GaitPose returns the running pose clock seconds into the stride cycle.
func GaitPose(clock float64) Pose {
	var p Pose
	for i, s := range gait {
		p[i] = physics.Sinusoid(s.freq*StepFreq, s.min, s.max, s.phase, clock) * physics.DegToRad
	}
	return p
}
