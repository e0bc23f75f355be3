package world

import "github.com/tomz197/annakut/internal/object"

// View is the per-frame presentation state that is not a scene node.
type View struct {
	Camera  object.Camera
	FogNear float64
	FogFar  float64
}

// Sink receives everything the world wants shown. The world adds a node
// once when it enters play and removes it once when it leaves; in between
// the sink reads the node's transform when presenting.
type Sink interface {
	Add(n object.Node)
	Remove(n object.Node)
	ReportScore(score int)
	ReportCoins(coins int)
	ShowPaused(paused bool)
	ShowGameOver(t RankTable)
	// Present draws one frame. It is called once per tick after the
	// simulation step.
	Present(v View) error
}

// Discard is a Sink that shows nothing.
var Discard Sink = discard{}

type discard struct{}

func (discard) Add(object.Node)        {}
func (discard) Remove(object.Node)     {}
func (discard) ReportScore(int)        {}
func (discard) ReportCoins(int)        {}
func (discard) ShowPaused(bool)        {}
func (discard) ShowGameOver(RankTable) {}
func (discard) Present(View) error     { return nil }
