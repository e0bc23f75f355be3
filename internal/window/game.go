// Package window runs the game in a desktop window with Ebiten.
package window

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/annakut/internal/config"
	"github.com/tomz197/annakut/internal/input"
	"github.com/tomz197/annakut/internal/render"
	"github.com/tomz197/annakut/internal/world"
)

// Base resolution; the window scales it to fit.
const (
	ScreenWidth  = 960
	ScreenHeight = 540
)

// skyBand is the height of one sky gradient stripe.
const skyBand = 6

// Options configures a Game.
type Options struct {
	Tuning  config.Tuning
	Updates <-chan config.Tuning // Tuning reloads, applied between ticks
	Logger  *log.Logger
}

// Game implements ebiten.Game around one world at a time.
type Game struct {
	opts    Options
	tuning  config.Tuning
	world   *world.World
	sink    *sink
	overlay *overlay
	polys   []render.Polygon
	keys    []ebiten.Key
}

var _ ebiten.Game = (*Game)(nil)

// New creates a game with a fresh world.
func New(opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	g := &Game{
		opts:    opts,
		tuning:  opts.Tuning,
		overlay: newOverlay(),
	}
	g.newWorld()
	return g
}

func (g *Game) newWorld() {
	g.sink = &sink{}
	tuning := g.tuning
	g.world = world.New(world.Options{
		Tuning: &tuning,
		Sink:   g.sink,
		Logger: g.opts.Logger,
	})
	g.sink.view = g.world.View()
}

// Update reads the keys pressed this tick and advances the world.
func (g *Game) Update() error {
	select {
	case t := <-g.opts.Updates:
		g.tuning = t
		g.world.SetTuning(t)
		ebiten.SetTPS(t.TickRate)
	default:
	}

	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	keys := make([]input.Key, 0, len(g.keys))
	for _, k := range g.keys {
		keys = append(keys, KeyFor(k))
	}

	for _, k := range keys {
		if k == input.KeyQuit {
			return ebiten.Termination
		}
	}
	if g.world.State() == world.StateGameOver {
		for _, k := range keys {
			if k == input.KeyDown {
				g.opts.Logger.Info("new game", "previous_score", g.world.Score())
				g.newWorld()
				return nil
			}
		}
	}

	if err := g.world.Tick(world.Input{Now: time.Now(), Keys: keys}); err != nil {
		return err
	}
	if g.overlay.show(g.sink) {
		g.overlay.ui.Update()
	}
	return nil
}

// Draw paints the sky, the scene, the HUD, and the overlay panel.
func (g *Game) Draw(screen *ebiten.Image) {
	v := g.sink.view
	proj := render.NewProjector(v.Camera, ScreenWidth, ScreenHeight)

	horizon := max(proj.Horizon(), 1)
	for y := 0; y < ScreenHeight; y += skyBand {
		vector.FillRect(screen, 0, float32(y), ScreenWidth, skyBand, render.Sky(float64(y)/horizon), false)
	}

	fog := render.Fog{Color: render.SkyBottom, Near: v.FogNear, Far: v.FogFar}
	g.polys = g.sink.scene.Polygons(proj, fog, g.polys[:0])
	for i := range g.polys {
		fillPolygon(screen, &g.polys[i])
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %s", humanize.Comma(int64(g.sink.score))), 12, 10)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Coins: %s", humanize.Comma(int64(g.sink.coins))), ScreenWidth-110, 10)

	if g.overlay.show(g.sink) {
		g.overlay.ui.Draw(screen)
	}
}

// Layout keeps the base resolution regardless of the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func fillPolygon(dst *ebiten.Image, p *render.Polygon) {
	pts := p.Vertices()
	if len(pts) < 3 {
		return
	}
	var path vector.Path
	path.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, pt := range pts[1:] {
		path.LineTo(float32(pt.X), float32(pt.Y))
	}
	path.Close()

	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(p.Color)
	vector.FillPath(dst, &path, &vector.FillOptions{}, op)
}

// KeyFor maps an Ebiten key to a game key.
func KeyFor(k ebiten.Key) input.Key {
	switch k {
	case ebiten.KeyArrowUp, ebiten.KeyW, ebiten.KeyI, ebiten.KeySpace:
		return input.KeyUp
	case ebiten.KeyArrowDown, ebiten.KeyS, ebiten.KeyK:
		return input.KeyDown
	case ebiten.KeyArrowLeft, ebiten.KeyA, ebiten.KeyJ:
		return input.KeyLeft
	case ebiten.KeyArrowRight, ebiten.KeyD, ebiten.KeyL:
		return input.KeyRight
	case ebiten.KeyP:
		return input.KeyPause
	case ebiten.KeyQ, ebiten.KeyEscape:
		return input.KeyQuit
	case ebiten.KeyShiftLeft, ebiten.KeyShiftRight, ebiten.KeyControlLeft, ebiten.KeyControlRight,
		ebiten.KeyAltLeft, ebiten.KeyAltRight, ebiten.KeyMetaLeft, ebiten.KeyMetaRight,
		ebiten.KeyTab, ebiten.KeyEnter, ebiten.KeyBackspace, ebiten.KeyDelete, ebiten.KeyCapsLock:
		return input.KeyModifier
	default:
		return input.KeyOther
	}
}
