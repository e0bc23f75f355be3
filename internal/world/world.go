// Package world runs the endless-runner simulation: spawning, difficulty,
// scrolling, collisions, scoring, and the pause and game-over states. It
// draws nothing itself; everything visible goes through a Sink.
package world

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/annakut/internal/config"
	"github.com/tomz197/annakut/internal/input"
	"github.com/tomz197/annakut/internal/object"
	"github.com/tomz197/annakut/internal/physics"
)

// State is the world's play state.
type State int

const (
	StatePaused State = iota
	StateRunning
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StateRunning:
		return "running"
	case StateGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Input is what a frontend hands the world each tick.
type Input struct {
	Now  time.Time
	Keys []input.Key // Fresh key presses, already latched
}

// Options configures a new World. Zero fields get defaults.
type Options struct {
	Tuning   *config.Tuning
	Rand     object.Rand // Gameplay randomness: spawn rolls and scales
	Cosmetic object.Rand // Obstacle looks
	Sink     Sink
	Logger   *log.Logger
	Now      time.Time // Start of the run; anchors the character's gait
}

// World is one run of the game. It exclusively owns every entity in play.
type World struct {
	tuning   config.Tuning
	rand     object.Rand
	cosmetic object.Rand
	sink     Sink
	logger   *log.Logger

	state      State
	score      int
	coins      int
	difficulty int
	distance   int // World units scrolled since the run began
	sinceRow   int // World units scrolled since the last row spawned

	treePresenceProb float64
	maxTreeSize      float64
	fogDistance      float64
	ranks            *RankTable

	trees       []*object.Tree
	coinsInPlay []*object.Coin
	collecting  []*object.Coin // Collected coins playing their shrink animation
	character   *object.Character
	ground      *object.Ground
	camera      object.Camera
}

// New builds a world with its initial rows in place, paused and waiting
// for the first key.
func New(opts Options) *World {
	tuning := config.Default()
	if opts.Tuning != nil {
		tuning = *opts.Tuning
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	w := &World{
		tuning:   tuning,
		rand:     opts.Rand,
		cosmetic: opts.Cosmetic,
		sink:     opts.Sink,
		logger:   opts.Logger,
		state:    StatePaused,
		camera:   object.DefaultCamera(),
		sinceRow: tuning.RowSpacing,
	}
	if w.rand == nil {
		w.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if w.cosmetic == nil {
		w.cosmetic = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if w.sink == nil {
		w.sink = Discard
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}

	w.ground = object.NewGround()
	w.sink.Add(w.ground)
	w.character = object.NewCharacter(now)
	w.character.OnPause(now)
	w.sink.Add(w.character)

	w.fogDistance = tuning.Fog.Start
	w.treePresenceProb = tuning.InitialRows.Probability
	w.maxTreeSize = tuning.InitialRows.MaxScale
	for i := tuning.InitialRows.First; i <= tuning.InitialRows.Last; i++ {
		w.SpawnRow(float64(-i*tuning.RowSpacing), w.treePresenceProb, tuning.MinScale, w.maxTreeSize)
	}

	w.sink.ReportScore(0)
	w.sink.ReportCoins(0)
	w.sink.ShowPaused(true)
	return w
}

// State returns the play state.
func (w *World) State() State { return w.state }

// Score returns the current score.
func (w *World) Score() int { return w.score }

// Coins returns the number of coins collected.
func (w *World) Coins() int { return w.coins }

// Difficulty returns the number of rows spawned since the run began.
func (w *World) Difficulty() int { return w.difficulty }

// SpawnPolicy returns the current obstacle probability and maximum size.
func (w *World) SpawnPolicy() (treePresenceProb, maxTreeSize float64) {
	return w.treePresenceProb, w.maxTreeSize
}

// FogDistance returns the far edge of the fog.
func (w *World) FogDistance() float64 { return w.fogDistance }

// Character returns the runner.
func (w *World) Character() *object.Character { return w.character }

// Trees returns the obstacles in play. The slice must not be modified.
func (w *World) Trees() []*object.Tree { return w.trees }

// CoinsInPlay returns the collectible coins. The slice must not be modified.
func (w *World) CoinsInPlay() []*object.Coin { return w.coinsInPlay }

// Ranks returns the final rank table once the game is over.
func (w *World) Ranks() (RankTable, bool) {
	if w.ranks == nil {
		return RankTable{}, false
	}
	return *w.ranks, true
}

// SetTuning swaps the tuning between ticks. The current spawn policy and
// fog distance are kept until the next level or fog change.
func (w *World) SetTuning(t config.Tuning) {
	w.tuning = t
	w.logger.Info("tuning reloaded")
}

// View returns the presentation state of the current frame.
func (w *World) View() View {
	return View{Camera: w.camera, FogNear: w.tuning.Fog.Near, FogFar: w.fogDistance}
}

// Tick handles the frame's key presses, advances the simulation if the game
// is running, and presents the frame.
func (w *World) Tick(in Input) error {
	for _, k := range in.Keys {
		w.handleKey(k, in.Now)
	}
	if w.state == StateRunning {
		w.step(in.Now)
	}
	return w.sink.Present(w.View())
}

func (w *World) handleKey(k input.Key, now time.Time) {
	switch w.state {
	case StateGameOver:
		return
	case StatePaused:
		if k == input.KeyModifier || k == input.KeyQuit || w.colliding() {
			return
		}
		w.state = StateRunning
		w.character.OnUnpause(now)
		w.sink.ShowPaused(false)
	case StateRunning:
		switch k {
		case input.KeyPause:
			w.state = StatePaused
			w.character.OnPause(now)
			w.sink.ShowPaused(true)
		case input.KeyUp:
			w.character.Queue(object.ActionUp)
		case input.KeyLeft:
			w.character.Queue(object.ActionLeft)
		case input.KeyRight:
			w.character.Queue(object.ActionRight)
		}
	}
}

// step advances a running world by one tick.
func (w *World) step(now time.Time) {
	t := w.tuning
	if w.sinceRow >= t.RowSpacing {
		w.sinceRow = 0
		w.levelUp()
		w.SpawnRow(t.SpawnZ, w.treePresenceProb, t.MinScale, w.maxTreeSize)
	}

	w.scroll(now)
	w.collectCoins()
	w.character.Update(now)

	if w.colliding() {
		w.endRun()
		return
	}
	w.score += t.TickScore
	w.sink.ReportScore(w.score)
}

// levelUp raises the difficulty by one row and applies the level table and
// fog windows.
func (w *World) levelUp() {
	t := w.tuning
	w.difficulty++
	if w.difficulty%t.LevelLength == 0 {
		lvl := t.Level(w.difficulty / t.LevelLength)
		w.treePresenceProb = lvl.TreePresenceProb
		w.maxTreeSize = lvl.MaxTreeSize
		w.logger.Debug("level up", "difficulty", w.difficulty, "prob", lvl.TreePresenceProb, "maxSize", lvl.MaxTreeSize)
	}
	if step := t.FogStep(w.difficulty); step != 0 {
		w.fogDistance = max(w.fogDistance-step, t.Fog.Floor)
	}
}

// scroll moves every entity toward the camera and drops those that passed
// it.
func (w *World) scroll(now time.Time) {
	step := float64(w.tuning.ScrollStep)
	w.distance += w.tuning.ScrollStep
	w.sinceRow += w.tuning.ScrollStep

	trees := w.trees[:0]
	for _, tr := range w.trees {
		tr.Advance(step)
		if tr.Behind() {
			w.sink.Remove(tr)
			continue
		}
		trees = append(trees, tr)
	}
	clear(w.trees[len(trees):])
	w.trees = trees

	for _, c := range w.coinsInPlay {
		c.Advance(step)
		c.Animate(now)
	}

	collecting := w.collecting[:0]
	for _, c := range w.collecting {
		c.Advance(step)
		if c.Shrink() || c.Behind() {
			w.sink.Remove(c)
			continue
		}
		collecting = append(collecting, c)
	}
	clear(w.collecting[len(collecting):])
	w.collecting = collecting
}

// collectCoins picks up every coin the character touches, then drops the
// coins that passed the camera.
func (w *World) collectCoins() {
	box := w.character.PickupBox()
	coins := w.coinsInPlay[:0]
	for _, c := range w.coinsInPlay {
		if c.Collides(box) {
			c.Collect()
			w.score += w.tuning.CoinScore
			w.coins++
			w.collecting = append(w.collecting, c)
			w.sink.ReportScore(w.score)
			w.sink.ReportCoins(w.coins)
			continue
		}
		if c.Behind() {
			w.sink.Remove(c)
			continue
		}
		coins = append(coins, c)
	}
	clear(w.coinsInPlay[len(coins):])
	w.coinsInPlay = coins
}

// colliding reports whether the character touches any obstacle.
func (w *World) colliding() bool {
	box := w.character.ObstacleBox()
	for _, tr := range w.trees {
		if tr.Collides(box) {
			return true
		}
	}
	return false
}

func (w *World) endRun() {
	w.state = StateGameOver
	table := BuildRankTable(w.score, w.coins)
	w.ranks = &table
	w.logger.Info("game over", "score", w.score, "coins", w.coins, "rank", table.Achieved.Bucket, "difficulty", w.difficulty, "distance", w.distance)
	w.sink.ShowGameOver(table)
}

// SpawnRow fills the three lanes at depth z. Each lane independently gets
// an obstacle with the given probability, otherwise a coin with the
// tuning's coin chance.
func (w *World) SpawnRow(z, probability, minScale, maxScale float64) {
	for lane := object.MinLane; lane <= object.MaxLane; lane++ {
		x := object.LaneX(lane)
		if w.rand.Float64() < probability {
			scale := w.treeScale(minScale, maxScale)
			tr := object.NewTree(physics.Vec3{X: x, Y: object.GroundY, Z: z}, scale, object.RandomTreeLook(w.cosmetic))
			w.trees = append(w.trees, tr)
			w.sink.Add(tr)
		} else if w.rand.Float64() < w.tuning.CoinChance {
			c := object.NewCoin(physics.Vec3{X: x, Y: object.CoinY, Z: z})
			w.coinsInPlay = append(w.coinsInPlay, c)
			w.sink.Add(c)
		}
	}
}

// treeScale draws an obstacle size. Higher difficulty widens the spread
// around the base size by up to half.
func (w *World) treeScale(minScale, maxScale float64) float64 {
	base := minScale + (maxScale-minScale)*w.rand.Float64()
	spread := min(float64(w.difficulty)/100, 0.5)
	bonus := (w.rand.Float64()*0.4 - 0.2) * spread
	return min(max(base*(1+bonus), minScale), maxScale*1.5)
}
