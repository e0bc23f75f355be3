package world

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tomz197/annakut/internal/config"
	"github.com/tomz197/annakut/internal/input"
	"github.com/tomz197/annakut/internal/object"
	"github.com/tomz197/annakut/internal/physics"
)

var epoch = time.Date(2024, 11, 2, 6, 0, 0, 0, time.UTC)

// script replays fixed values, then repeats the last one forever.
type script struct {
	vals []float64
	i    int
}

func (s *script) Float64() float64 {
	if s.i >= len(s.vals) {
		return s.vals[len(s.vals)-1]
	}
	v := s.vals[s.i]
	s.i++
	return v
}

// cycle repeats its values in order.
type cycle struct {
	vals []float64
	i    int
}

func (c *cycle) Float64() float64 {
	v := c.vals[c.i%len(c.vals)]
	c.i++
	return v
}

// never spawns anything: every roll misses both the obstacle and the coin.
func never() *script { return &script{vals: []float64{0.99}} }

type recorder struct {
	live     map[object.Node]bool
	score    int
	coins    int
	paused   []bool
	gameOver *RankTable
	presents int
	err      error
}

func newRecorder() *recorder {
	return &recorder{live: make(map[object.Node]bool)}
}

func (r *recorder) Add(n object.Node)        { r.live[n] = true }
func (r *recorder) Remove(n object.Node)     { delete(r.live, n) }
func (r *recorder) ReportScore(s int)        { r.score = s }
func (r *recorder) ReportCoins(c int)        { r.coins = c }
func (r *recorder) ShowPaused(p bool)        { r.paused = append(r.paused, p) }
func (r *recorder) ShowGameOver(t RankTable) { r.gameOver = &t }
func (r *recorder) Present(View) error {
	r.presents++
	return r.err
}

type harness struct {
	w   *World
	rec *recorder
	now time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	rec := newRecorder()
	w := New(Options{Rand: never(), Cosmetic: never(), Sink: rec, Now: epoch})
	return &harness{w: w, rec: rec, now: epoch}
}

func (h *harness) tick(t *testing.T, keys ...input.Key) {
	t.Helper()
	h.now = h.now.Add(16 * time.Millisecond)
	if err := h.w.Tick(Input{Now: h.now, Keys: keys}); err != nil {
		t.Fatalf("Tick: %v", err)
	}
}

// place puts an obstacle in play at z on the character's lane.
func (h *harness) place(z float64) *object.Tree {
	return h.placeAt(0, z)
}

func (h *harness) placeAt(x, z float64) *object.Tree {
	tr := object.NewTree(physics.Vec3{X: x, Y: object.GroundY, Z: z}, 0.5, object.TreeLook{})
	h.w.trees = append(h.w.trees, tr)
	h.w.sink.Add(tr)
	return tr
}

func TestNewWorldStartsPaused(t *testing.T) {
	h := newHarness(t)
	if h.w.State() != StatePaused {
		t.Fatalf("state = %v, want paused", h.w.State())
	}
	if len(h.rec.paused) != 1 || !h.rec.paused[0] {
		t.Fatalf("paused banner calls = %v", h.rec.paused)
	}
	// Ground and character are always in the scene.
	if len(h.rec.live) != 2 {
		t.Fatalf("scene has %d nodes, want 2", len(h.rec.live))
	}

	h.tick(t)
	if h.w.Score() != 0 || h.w.Difficulty() != 0 {
		t.Fatalf("paused tick advanced the game: score=%d difficulty=%d", h.w.Score(), h.w.Difficulty())
	}
	if h.rec.presents != 1 {
		t.Fatalf("presents = %d, want 1 per tick", h.rec.presents)
	}
}

func TestInitialRows(t *testing.T) {
	rec := newRecorder()
	// Every lane rolls an obstacle.
	w := New(Options{Rand: &script{vals: []float64{0}}, Cosmetic: never(), Sink: rec, Now: epoch})
	tu := config.Default()
	rows := tu.InitialRows.Last - tu.InitialRows.First + 1
	if got := len(w.Trees()); got != 3*rows {
		t.Fatalf("trees = %d, want %d", got, 3*rows)
	}
	for _, tr := range w.Trees() {
		z := tr.Position.Z
		if z > -30000 || z < -117000 || math.Mod(z, 3000) != 0 {
			t.Fatalf("initial row at z=%v", z)
		}
		if tr.Scale != 0.5 {
			t.Fatalf("initial scale = %v, want 0.5", tr.Scale)
		}
	}
}

func TestSpawnRowThresholds(t *testing.T) {
	h := newHarness(t)
	h.w.rand = &script{vals: []float64{
		0.5, 0.49, // lane -1: r == probability misses the obstacle, coin roll hits
		0.2, 0.3, 0.5, // lane 0: obstacle, base scale roll, bonus roll
		0.6, 0.5, // lane 1: no obstacle, r == coin chance misses the coin
		0.99,
	}}
	h.w.SpawnRow(-120000, 0.5, 0.5, 1.0)

	if len(h.w.CoinsInPlay()) != 1 || h.w.CoinsInPlay()[0].Position.X != -800 {
		t.Fatalf("coins = %+v, want one on lane -1", h.w.CoinsInPlay())
	}
	if c := h.w.CoinsInPlay()[0]; c.Position.Y != object.CoinY || c.Position.Z != -120000 {
		t.Fatalf("coin at %+v", c.Position)
	}
	if len(h.w.Trees()) != 1 {
		t.Fatalf("trees = %d, want 1", len(h.w.Trees()))
	}
	tr := h.w.Trees()[0]
	if tr.Position != (physics.Vec3{X: 0, Y: -400, Z: -120000}) {
		t.Fatalf("tree at %+v", tr.Position)
	}
	if want := 0.5 + 0.5*0.3; math.Abs(tr.Scale-want) > 1e-12 {
		t.Fatalf("scale = %v, want %v", tr.Scale, want)
	}
}

func TestTreeScaleBounds(t *testing.T) {
	cases := []struct {
		name       string
		difficulty int
		rolls      []float64
		min, max   float64
		want       float64
	}{
		{"no_difficulty_no_spread", 0, []float64{1, 0}, 0.5, 1.0, 1.0},
		{"clamped_to_min", 100, []float64{0, 0}, 0.5, 0.5, 0.5},
		{"spread_grows", 50, []float64{0, 0.999999}, 0.5, 1.5, 0.5 * (1 + (0.999999*0.4-0.2)*0.5)},
		{"largest_bonus", 100, []float64{1, 1}, 0.5, 1.0, 1.1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := newHarness(t)
			h.w.difficulty = c.difficulty
			h.w.rand = &script{vals: c.rolls}
			got := h.w.treeScale(c.min, c.max)
			if math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("scale = %v, want %v", got, c.want)
			}
			if got < c.min || got > c.max*1.5 {
				t.Fatalf("scale %v outside [%v, %v]", got, c.min, c.max*1.5)
			}
		})
	}
}

func TestPauseStateMachine(t *testing.T) {
	h := newHarness(t)

	h.tick(t, input.KeyModifier)
	if h.w.State() != StatePaused {
		t.Fatalf("modifier key resumed the game")
	}

	// The key that resumes is consumed.
	h.tick(t, input.KeyLeft)
	if h.w.State() != StateRunning {
		t.Fatalf("state = %v, want running", h.w.State())
	}
	if h.w.Character().Pending() != 0 {
		t.Fatalf("resuming key was also queued")
	}

	h.tick(t, input.KeyPause)
	if h.w.State() != StatePaused {
		t.Fatalf("state = %v, want paused", h.w.State())
	}
	score := h.w.Score()
	h.tick(t)
	if h.w.Score() != score {
		t.Fatalf("score moved while paused")
	}

	h.tick(t, input.KeyPause)
	if h.w.State() != StateRunning {
		t.Fatalf("any key should resume, even the pause key")
	}
	h.tick(t, input.KeyRight, input.KeyUp)
	if h.w.Character().Motion() != object.MotionSwitchingRight {
		t.Fatalf("motion = %v, want switching-right", h.w.Character().Motion())
	}
	if h.w.Character().Pending() != 1 {
		t.Fatalf("pending = %d, want the jump queued", h.w.Character().Pending())
	}

	want := []bool{true, false, true, false}
	if len(h.rec.paused) != len(want) {
		t.Fatalf("pause banner calls = %v, want %v", h.rec.paused, want)
	}
	for i := range want {
		if h.rec.paused[i] != want[i] {
			t.Fatalf("pause banner calls = %v, want %v", h.rec.paused, want)
		}
	}
}

func TestNoResumeWhileColliding(t *testing.T) {
	h := newHarness(t)
	h.place(object.CharacterZ)
	h.tick(t, input.KeyOther)
	if h.w.State() != StatePaused {
		t.Fatalf("resumed while touching an obstacle")
	}
}

func TestScorePerTick(t *testing.T) {
	h := newHarness(t)
	h.tick(t, input.KeyOther)
	for i := 2; i <= 50; i++ {
		before := h.w.Score()
		h.tick(t)
		if got := h.w.Score() - before; got != 10 {
			t.Fatalf("tick %d added %d, want 10", i, got)
		}
	}
	if h.rec.score != h.w.Score() {
		t.Fatalf("reported score %d, world score %d", h.rec.score, h.w.Score())
	}
}

func TestCollisionEndsRun(t *testing.T) {
	h := newHarness(t)
	h.tick(t, input.KeyOther)
	score := h.w.Score()
	h.place(object.CharacterZ - 100)

	h.tick(t)
	if h.w.State() != StateGameOver {
		t.Fatalf("state = %v, want game over", h.w.State())
	}
	if h.w.Score() != score {
		t.Fatalf("collision tick scored: %d -> %d", score, h.w.Score())
	}
	if h.rec.gameOver == nil {
		t.Fatalf("game over not shown")
	}
	if table, ok := h.w.Ranks(); !ok || table.Score != score {
		t.Fatalf("ranks = %+v, %v", table, ok)
	}

	// Game over is terminal: keys are ignored and nothing moves.
	h.tick(t, input.KeyPause, input.KeyOther, input.KeyLeft)
	if h.w.State() != StateGameOver || h.w.Score() != score || h.w.Character().Pending() != 0 {
		t.Fatalf("game over world changed: state=%v score=%d", h.w.State(), h.w.Score())
	}
}

func TestCullIsExhaustive(t *testing.T) {
	h := newHarness(t)
	h.tick(t, input.KeyOther)
	h.w.rand = &cycle{vals: []float64{0.99, 0.0}} // Coins on every lane from now on

	near := h.place(-50)
	h.place(-100)
	far := h.placeAt(object.LaneX(1), -20000)
	h.tick(t)
	if h.rec.live[near] {
		t.Fatalf("tree past the camera still in scene")
	}
	for _, tr := range h.w.Trees() {
		if tr.Position.Z >= 0 {
			t.Fatalf("tree at z=%v still in play", tr.Position.Z)
		}
	}
	if !h.rec.live[far] {
		t.Fatalf("far tree removed")
	}

	for i := 0; i < 2000 && h.w.State() == StateRunning; i++ {
		h.tick(t)
		for _, c := range h.w.CoinsInPlay() {
			if c.Position.Z >= 0 {
				t.Fatalf("coin at z=%v still in play", c.Position.Z)
			}
		}
	}
}

func TestCoinCollection(t *testing.T) {
	h := newHarness(t)
	h.tick(t, input.KeyOther)
	before := h.w.Score()

	c := object.NewCoin(physics.Vec3{Y: object.CoinY, Z: object.CharacterZ - 100})
	h.w.coinsInPlay = append(h.w.coinsInPlay, c)
	h.w.sink.Add(c)

	h.tick(t)
	if h.w.Coins() != 1 || h.rec.coins != 1 {
		t.Fatalf("coins = %d (reported %d), want 1", h.w.Coins(), h.rec.coins)
	}
	if got := h.w.Score() - before; got != 110 {
		t.Fatalf("tick with a coin added %d, want 110", got)
	}
	if len(h.w.CoinsInPlay()) != 0 {
		t.Fatalf("collected coin still collectible")
	}
	if !h.rec.live[c] {
		t.Fatalf("coin left the scene before its animation")
	}

	for i := 0; i < object.CoinCollectTicks; i++ {
		h.tick(t)
	}
	if h.rec.live[c] {
		t.Fatalf("coin still in scene after its animation")
	}
	if h.w.Coins() != 1 {
		t.Fatalf("coin counted twice")
	}
}

func TestDifficultyProgression(t *testing.T) {
	h := newHarness(t)

	// Spawning rows by hand never touches the spawn policy.
	for i := 0; i < 30; i++ {
		h.w.SpawnRow(-120000, 0.2, 0.5, 0.5)
	}
	if p, s := h.w.SpawnPolicy(); p != 0.2 || s != 0.5 || h.w.Difficulty() != 0 {
		t.Fatalf("policy = (%v, %v) difficulty %d after manual rows", p, s, h.w.Difficulty())
	}

	h.tick(t, input.KeyOther)
	if h.w.Difficulty() != 1 {
		t.Fatalf("first running tick should spawn a row, difficulty = %d", h.w.Difficulty())
	}
	for h.w.Difficulty() < 29 {
		h.tick(t)
	}
	if p, s := h.w.SpawnPolicy(); p != 0.2 || s != 0.5 {
		t.Fatalf("policy changed early: (%v, %v)", p, s)
	}
	for h.w.Difficulty() < 30 {
		h.tick(t)
	}
	if p, s := h.w.SpawnPolicy(); p != 0.35 || s != 0.6 {
		t.Fatalf("policy at difficulty 30 = (%v, %v), want (0.35, 0.6)", p, s)
	}
}

func TestRowsKeepComingAfterReload(t *testing.T) {
	cases := []struct {
		name       string
		scrollStep int
		rowSpacing int
	}{
		{"faster_scroll", 300, 3000},
		{"wider_rows", 100, 4500},
		{"narrower_rows", 100, 1200},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := newHarness(t)
			h.tick(t, input.KeyOther)
			if h.w.Difficulty() != 1 {
				t.Fatalf("difficulty = %d, want 1", h.w.Difficulty())
			}

			tu := config.Default()
			tu.ScrollStep = c.scrollStep
			tu.RowSpacing = c.rowSpacing
			h.w.SetTuning(tu)

			ticksPerRow := c.rowSpacing / c.scrollStep
			for i := 0; i < 10*ticksPerRow+1; i++ {
				h.tick(t)
			}
			if got := h.w.Difficulty(); got < 10 {
				t.Fatalf("difficulty = %d after ten rows' worth of ticks", got)
			}
		})
	}
}

func TestFogWindows(t *testing.T) {
	h := newHarness(t)
	h.w.difficulty = 149
	h.w.levelUp()
	if want := 150000 - 25000.0/30; math.Abs(h.w.FogDistance()-want) > 1e-9 {
		t.Fatalf("fog = %v, want %v", h.w.FogDistance(), want)
	}
	for h.w.difficulty < 300 {
		h.w.levelUp()
	}
	if want := 120000.0; math.Abs(h.w.FogDistance()-want) > 1e-6 {
		t.Fatalf("fog after both windows = %v, want %v", h.w.FogDistance(), want)
	}
}

func TestFogFloor(t *testing.T) {
	tu := config.Default()
	tu.Fog.Floor = 149500
	w := New(Options{Tuning: &tu, Rand: never(), Cosmetic: never(), Now: epoch})
	w.difficulty = 149
	for w.difficulty < 300 {
		w.levelUp()
	}
	if w.FogDistance() != 149500 {
		t.Fatalf("fog = %v, want clamped at 149500", w.FogDistance())
	}
}

func TestPresentErrorPropagates(t *testing.T) {
	h := newHarness(t)
	h.rec.err = errors.New("broken pipe")
	if err := h.w.Tick(Input{Now: epoch}); err == nil {
		t.Fatalf("Tick swallowed the sink error")
	}
}
