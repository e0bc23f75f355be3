package object

import (
	"testing"
	"time"

	"github.com/tomz197/annakut/internal/physics"
)

// seq replays a fixed sequence of values, wrapping around.
type seq struct {
	vals []float64
	i    int
}

func (s *seq) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func TestTreeBoxScales(t *testing.T) {
	cases := []struct {
		name  string
		scale float64
	}{
		{"small", 0.5},
		{"unit", 1},
		{"largest", 2.25},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tr := NewTree(physics.Vec3{X: 800, Y: GroundY, Z: -5000}, c.scale, TreeLook{})
			b := tr.Box()
			if b.Min.Y != GroundY {
				t.Fatalf("tree should stand on its origin, min y = %v", b.Min.Y)
			}
			if got, want := b.Max.Y-b.Min.Y, TreeHeight*c.scale; got != want {
				t.Fatalf("height = %v, want %v", got, want)
			}
			if got, want := b.Max.X-800, TreeHalfWidth*c.scale; got != want {
				t.Fatalf("half width = %v, want %v", got, want)
			}
		})
	}
}

func TestRandomTreeLookRanges(t *testing.T) {
	for _, v := range []float64{0, 0.5, 0.999999} {
		look := RandomTreeLook(&seq{vals: []float64{v}})
		if look.Height < 0.9 || look.Height >= 1.2 {
			t.Fatalf("height %v out of range", look.Height)
		}
		if look.Width < 0.85 || look.Width >= 1.15 {
			t.Fatalf("width %v out of range", look.Width)
		}
		if look.Lean < -0.1 || look.Lean >= 0.1 {
			t.Fatalf("lean %v out of range", look.Lean)
		}
		if look.Yaw < -0.1 || look.Yaw >= 0.1 {
			t.Fatalf("yaw %v out of range", look.Yaw)
		}
	}
}

func TestCoinCollectAnimation(t *testing.T) {
	c := NewCoin(physics.Vec3{Y: CoinY, Z: -4000})
	if c.Shrink() {
		t.Fatalf("active coin should not shrink")
	}
	box := c.Box()
	if !c.Collides(box) {
		t.Fatalf("coin should collide with its own box")
	}

	c.Collect()
	if c.Collides(box) {
		t.Fatalf("collected coin must not be collected again")
	}
	for i := 1; i < CoinCollectTicks; i++ {
		if c.Shrink() {
			t.Fatalf("animation finished early at tick %d", i)
		}
	}
	if !c.Shrink() {
		t.Fatalf("animation should finish after %d ticks", CoinCollectTicks)
	}
	if c.Scale != 0 {
		t.Fatalf("scale = %v, want 0", c.Scale)
	}
}

func TestCoinAnimate(t *testing.T) {
	c := NewCoin(physics.Vec3{Y: CoinY})
	now := time.UnixMilli(1234567)
	c.Animate(now)
	c.Animate(now)
	if c.Rotation.Y != 2*CoinSpin {
		t.Fatalf("rotation = %v", c.Rotation.Y)
	}
	if d := c.Position.Y - c.BaseY; d < -CoinFloat || d > CoinFloat {
		t.Fatalf("float offset %v exceeds amplitude", d)
	}
}

func TestTransformBehind(t *testing.T) {
	tr := Transform{Position: physics.Vec3{Z: -100}}
	if tr.Behind() {
		t.Fatalf("z=-100 is in front of the camera")
	}
	tr.Advance(100)
	if !tr.Behind() {
		t.Fatalf("z=0 must count as behind")
	}
}

func TestActionQueueFIFO(t *testing.T) {
	var q ActionQueue
	q.Push(ActionLeft)
	q.Push(ActionUp)
	if a, _ := q.Pop(); a != ActionLeft {
		t.Fatalf("first = %v", a)
	}
	if a, _ := q.Pop(); a != ActionUp {
		t.Fatalf("second = %v", a)
	}
	if _, ok := q.Pop(); ok {
		t.Fatalf("queue should be empty")
	}
}
