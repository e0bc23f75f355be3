package object

import (
	"time"

	"github.com/tomz197/annakut/internal/physics"
)

// Motion is the character's movement state. At most one movement runs at a
// time; queued actions start only from MotionRunning.
type Motion int

const (
	MotionRunning Motion = iota
	MotionJumping
	MotionSwitchingLeft
	MotionSwitchingRight
)

func (m Motion) String() string {
	switch m {
	case MotionRunning:
		return "running"
	case MotionJumping:
		return "jumping"
	case MotionSwitchingLeft:
		return "switching-left"
	case MotionSwitchingRight:
		return "switching-right"
	default:
		return "unknown"
	}
}

// Character tuning.
const (
	JumpDuration = 600 * time.Millisecond
	JumpHeight   = 2000.0
	StepFreq     = 2.0   // Strides per second
	SwitchStep   = 200.0 // Lateral world units per tick while switching lanes
	CharacterZ   = -4000.0
)

// Hitboxes around the character's origin. The obstacle box reaches higher
// than it reaches down; the pickup box is wider so coins are easy to grab.
var (
	obstacleBelow = physics.Vec3{X: 115, Y: 310, Z: 40}
	obstacleAbove = physics.Vec3{X: 115, Y: 320, Z: 40}
	pickupHalf    = physics.Vec3{X: 150, Y: 350, Z: 60}
)

// Character is the runner the player steers.
type Character struct {
	Transform
	Lane  int
	Limbs Pose

	motion       Motion
	jumpStart    time.Time
	runningStart time.Time // Phase anchor for the gait
	pauseStart   time.Time
	queue        ActionQueue
}

// NewCharacter creates a runner in the middle lane. now anchors the gait.
func NewCharacter(now time.Time) *Character {
	return &Character{
		Transform: Transform{
			Position: physics.Vec3{Z: CharacterZ},
			Scale:    1,
		},
		runningStart: now,
		pauseStart:   now,
	}
}

// Motion returns the current movement state.
func (c *Character) Motion() Motion {
	return c.motion
}

// Pending returns the number of queued actions.
func (c *Character) Pending() int {
	return c.queue.Len()
}

// Queue appends an action to be started once the current movement ends.
func (c *Character) Queue(a Action) {
	c.queue.Push(a)
}

// OnPause records when the game was paused.
func (c *Character) OnPause(now time.Time) {
	c.pauseStart = now
}

// OnUnpause shifts the time anchors by the pause length so the gait and any
// jump in flight resume where they stopped.
func (c *Character) OnUnpause(now time.Time) {
	d := now.Sub(c.pauseStart)
	c.runningStart = c.runningStart.Add(d)
	if c.motion == MotionJumping {
		c.jumpStart = c.jumpStart.Add(d)
	}
}

// ObstacleBox returns the hitbox tested against obstacles.
func (c *Character) ObstacleBox() physics.Box {
	return physics.Offset(c.Position, obstacleBelow, obstacleAbove)
}

// PickupBox returns the hitbox tested against coins.
func (c *Character) PickupBox() physics.Box {
	return physics.Centered(c.Position, pickupHalf)
}

// Update starts the next queued action if idle and advances the current
// movement to now.
func (c *Character) Update(now time.Time) {
	if c.motion == MotionRunning {
		c.startNext(now)
	}

	switch c.motion {
	case MotionJumping:
		c.jump(now)
	case MotionRunning, MotionSwitchingLeft, MotionSwitchingRight:
		c.run(now)
		c.switchLane()
	}
}

func (c *Character) startNext(now time.Time) {
	a, ok := c.queue.Pop()
	if !ok {
		return
	}
	switch a {
	case ActionUp:
		c.motion = MotionJumping
		c.jumpStart = now
	case ActionLeft:
		if c.Lane != MinLane {
			c.motion = MotionSwitchingLeft
		}
	case ActionRight:
		if c.Lane != MaxLane {
			c.motion = MotionSwitchingRight
		}
	}
}

// JumpOffset returns the height the jump arc adds clock into a jump.
func JumpOffset(clock time.Duration) float64 {
	return physics.HalfSine(JumpHeight, JumpDuration.Seconds(), clock.Seconds())
}

func (c *Character) jump(now time.Time) {
	clock := now.Sub(c.jumpStart)
	bob := physics.Sinusoid(2*StepFreq, 0, 20, 0, c.jumpStart.Sub(c.runningStart).Seconds())
	c.Position.Y = JumpOffset(clock) + bob
	if clock > JumpDuration {
		c.motion = MotionRunning
		c.runningStart = c.runningStart.Add(JumpDuration)
	}
}

func (c *Character) run(now time.Time) {
	clock := now.Sub(c.runningStart).Seconds()
	c.Position.Y = physics.Sinusoid(2*StepFreq, 0, 20, 0, clock)
	c.Limbs = GaitPose(clock)
}

func (c *Character) switchLane() {
	switch c.motion {
	case MotionSwitchingLeft:
		c.Position.X -= SwitchStep
		if LaneX(c.Lane)-c.Position.X >= LaneWidth {
			c.Lane--
			c.Position.X = LaneX(c.Lane)
			c.motion = MotionRunning
		}
	case MotionSwitchingRight:
		c.Position.X += SwitchStep
		if c.Position.X-LaneX(c.Lane) >= LaneWidth {
			c.Lane++
			c.Position.X = LaneX(c.Lane)
			c.motion = MotionRunning
		}
	}
}
