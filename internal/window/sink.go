package window

import (
	"github.com/tomz197/annakut/internal/object"
	"github.com/tomz197/annakut/internal/render"
	"github.com/tomz197/annakut/internal/world"
)

// sink collects what the world reports. Ebiten draws on its own schedule,
// so Present only keeps the view for the next Draw.
type sink struct {
	scene   render.Scene
	score   int
	coins   int
	paused  bool
	started bool
	ranks   *world.RankTable
	view    world.View
}

var _ world.Sink = (*sink)(nil)

func (s *sink) Add(n object.Node)    { s.scene.Add(n) }
func (s *sink) Remove(n object.Node) { s.scene.Remove(n) }
func (s *sink) ReportScore(v int)    { s.score = v }
func (s *sink) ReportCoins(v int)    { s.coins = v }

func (s *sink) ShowPaused(paused bool) {
	if s.paused && !paused {
		s.started = true
	}
	s.paused = paused
}

func (s *sink) ShowGameOver(t world.RankTable) { s.ranks = &t }

func (s *sink) Present(v world.View) error {
	s.view = v
	return nil
}
