package object

import (
	"math"
	"time"

	"github.com/tomz197/annakut/internal/physics"
)

// Coin constants.
const (
	CoinY            = GroundY + 40 // Resting height, half a coin above ground
	CoinSpin         = 0.1          // Radians per tick
	CoinFloat        = 10.0         // Float amplitude in world units
	CoinCollectTicks = 15           // Length of the shrink animation
)

var coinHalf = physics.Vec3{X: 60, Y: 60, Z: 20}

// Coin is a collectible. Once collected it shrinks away over
// CoinCollectTicks ticks and is then dropped from the scene.
type Coin struct {
	Transform
	BaseY float64

	collected int // ticks of collection animation played; 0 while active
	active    bool
}

// NewCoin places a coin at pos.
func NewCoin(pos physics.Vec3) *Coin {
	return &Coin{
		Transform: Transform{Position: pos, Scale: 1},
		BaseY:     pos.Y,
		active:    true,
	}
}

// Animate spins the coin and floats it around its base height.
func (c *Coin) Animate(now time.Time) {
	c.Rotation.Y += CoinSpin
	c.Position.Y = c.BaseY + math.Sin(float64(now.UnixMilli())*0.003)*CoinFloat
}

// Box returns the coin's hitbox.
func (c *Coin) Box() physics.Box {
	return physics.Centered(c.Position, coinHalf)
}

// Collides reports whether the hitbox b touches an active coin.
func (c *Coin) Collides(b physics.Box) bool {
	return c.active && c.Box().Overlaps(b)
}

// Collect takes the coin out of play and starts its shrink animation.
// Collecting an already collected coin does nothing.
func (c *Coin) Collect() {
	c.active = false
}

// Shrink plays one tick of the collection animation and reports whether it
// has finished.
func (c *Coin) Shrink() bool {
	if c.active {
		return false
	}
	if c.collected < CoinCollectTicks {
		c.collected++
	}
	c.Scale = 1 - float64(c.collected)/CoinCollectTicks
	return c.collected >= CoinCollectTicks
}
