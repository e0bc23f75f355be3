package loop

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"github.com/tomz197/annakut/internal/draw"
	"github.com/tomz197/annakut/internal/object"
	"github.com/tomz197/annakut/internal/render"
	"github.com/tomz197/annakut/internal/world"
)

// mode is what the overlay currently shows. A change of mode clears the
// terminal so text from the previous mode does not linger.
type mode int

const (
	modePlaying mode = iota
	modeStart
	modePaused
	modeGameOver
	modeNotice
)

// Screen is a world.Sink that paints the scene onto a terminal canvas and
// writes the HUD and banners as text over it.
type Screen struct {
	canvas *draw.Canvas
	cw     *draw.ChunkWriter
	scene  render.Scene
	polys  []render.Polygon
	styles styles

	score   int
	coins   int
	paused  bool
	started bool // The player has unpaused at least once
	ranks   *world.RankTable
	notice  []string // Replaces every other overlay while set

	prevMode mode
}

var _ world.Sink = (*Screen)(nil)

// NewScreen creates a screen drawing onto canvas and writing through cw.
// out is the terminal the text styles are rendered for.
func NewScreen(canvas *draw.Canvas, cw *draw.ChunkWriter, out io.Writer) *Screen {
	return &Screen{
		canvas: canvas,
		cw:     cw,
		styles: newStyles(out),
	}
}

// Reset forgets every node and readout, ready for a new world.
func (s *Screen) Reset() {
	s.scene = render.Scene{}
	s.score = 0
	s.coins = 0
	s.paused = false
	s.started = false
	s.ranks = nil
}

// SetNotice shows lines centered over the scene instead of the usual
// overlay. nil removes the notice.
func (s *Screen) SetNotice(lines []string) {
	s.notice = lines
}

func (s *Screen) Add(n object.Node)    { s.scene.Add(n) }
func (s *Screen) Remove(n object.Node) { s.scene.Remove(n) }
func (s *Screen) ReportScore(v int)    { s.score = v }
func (s *Screen) ReportCoins(v int)    { s.coins = v }

func (s *Screen) ShowPaused(paused bool) {
	if s.paused && !paused {
		s.started = true
	}
	s.paused = paused
}

func (s *Screen) ShowGameOver(t world.RankTable) {
	s.ranks = &t
}

// Present draws the frame and flushes it to the terminal.
func (s *Screen) Present(v world.View) error {
	m := s.mode()
	if m != s.prevMode {
		s.cw.Clear()
		s.canvas.ForceRedraw()
		s.prevMode = m
	}

	s.drawScene(v)

	if err := s.canvas.Render(s.cw); err != nil {
		return err
	}
	s.canvas.RenderBorder(s.cw)
	s.drawUI(m)

	return s.cw.Flush()
}

func (s *Screen) mode() mode {
	switch {
	case s.notice != nil:
		return modeNotice
	case s.ranks != nil:
		return modeGameOver
	case s.paused && !s.started:
		return modeStart
	case s.paused:
		return modePaused
	default:
		return modePlaying
	}
}

// drawScene paints the sky gradient and then every visible face back to
// front.
func (s *Screen) drawScene(v world.View) {
	width, height := s.canvas.LogicalWidth(), s.canvas.LogicalHeight()
	proj := render.NewProjector(v.Camera, width, height)

	horizon := max(proj.Horizon(), 1)
	for y := 0.0; y < height; y++ {
		s.canvas.FillRows(y, y+1, render.Sky(y/horizon))
	}

	fog := render.Fog{Color: render.SkyBottom, Near: v.FogNear, Far: v.FogFar}
	s.polys = s.scene.Polygons(proj, fog, s.polys[:0])
	for i := range s.polys {
		p := &s.polys[i]
		pts := s.canvas.BorrowPoints(p.N)
		for j, pt := range p.Vertices() {
			pts[j] = draw.Point{X: pt.X, Y: pt.Y}
		}
		s.canvas.FillPolygon(pts, p.Color)
	}
}

func (s *Screen) drawUI(m mode) {
	termWidth := s.canvas.TerminalWidth()
	termHeight := s.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if m == modeNotice {
		s.drawBlock(centerX, centerY-len(s.notice)/2, s.notice)
		return
	}

	s.drawHUD(termWidth)

	switch m {
	case modeStart:
		s.drawStartScreen(centerX, centerY)
	case modePaused:
		s.drawBlock(centerX, centerY, []string{s.styles.banner.Render(world.PausedMessage)})
	case modeGameOver:
		s.drawGameOver(centerX, centerY)
	}
}

// drawHUD draws the score and coin readouts.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (s *Screen) drawHUD(termWidth int) {
	scoreText := fmt.Sprintf("Score: %-10s", humanize.Comma(int64(s.score)))
	s.text(2, 1, s.styles.hud.Render(scoreText))

	coinsText := fmt.Sprintf("Coins: %-6s", humanize.Comma(int64(s.coins)))
	s.text(termWidth-len(coinsText)-1, 1, s.styles.hud.Render(coinsText))
}

var controls = [][2]string{
	{"Up / W / Space", "Jump"},
	{"Left / A", "Move left"},
	{"Right / D", "Move right"},
	{"P", "Pause"},
	{"Q", "Quit"},
}

// drawStartScreen draws the title and controls shown before the first run
// starts.
func (s *Screen) drawStartScreen(centerX, centerY int) {
	lines := strings.Split(s.styles.title.Render("ANNAKUT LOOT"), "\n")
	lines = append(lines, "", "Controls")
	for _, c := range controls {
		lines = append(lines, fmt.Sprintf("%-16s%14s", c[0], c[1]))
	}
	lines = append(lines, "")
	// Blinking start prompt
	prompt := ""
	if time.Now().UnixMilli()/600%2 == 0 {
		prompt = ">>  Press any key to start  <<"
	}
	lines = append(lines, fmt.Sprintf("%-30s", prompt))
	s.drawBlock(centerX, centerY-len(lines)/2, lines)
}

// drawGameOver draws the game-over message above the rank table.
func (s *Screen) drawGameOver(centerX, centerY int) {
	lines := []string{
		s.styles.banner.Render(world.GameOverMessage(s.ranks.Coins)),
		fmt.Sprintf("Final score: %s", humanize.Comma(int64(s.ranks.Score))),
		"",
	}
	lines = append(lines, strings.Split(s.rankTable(*s.ranks), "\n")...)
	s.drawBlock(centerX, centerY-len(lines)/2, lines)
}

// rankTable renders the rank rows as a bordered table, the achieved row
// highlighted.
func (s *Screen) rankTable(t world.RankTable) string {
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, []string{r.Bucket, r.Label})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.styles.border).
		Headers("Score", "Rank").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.styles.header
			}
			switch t.Rows[row].Kind {
			case world.RowAchieved:
				return s.styles.achieved
			case world.RowNext:
				return s.styles.next
			default:
				return s.styles.cell
			}
		}).
		String()
}

// drawBlock writes lines centered on centerX, starting at row top.
func (s *Screen) drawBlock(centerX, top int, lines []string) {
	for i, line := range lines {
		s.text(centerX-lipgloss.Width(line)/2, top+i, line)
	}
}

// text writes str at the 1-based canvas position and marks the cells dirty,
// so the canvas paints over the text once it is no longer drawn.
func (s *Screen) text(col, row int, str string) {
	if row < 1 || row > s.canvas.TerminalHeight() {
		return
	}
	col = max(col, 1)
	s.cw.WriteAt(col, row, str)
	s.canvas.MarkTextDirty(col, row, lipgloss.Width(str))
}

type styles struct {
	hud      lipgloss.Style
	title    lipgloss.Style
	banner   lipgloss.Style
	border   lipgloss.Style
	header   lipgloss.Style
	cell     lipgloss.Style
	achieved lipgloss.Style
	next     lipgloss.Style
}

// newStyles builds the text styles for out. Sessions share no terminal, so
// each screen gets its own renderer. The canvas already needs truecolor,
// so the styles assume it too.
func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	r.SetColorProfile(termenv.TrueColor)

	gold := lipgloss.Color("#ffd700")
	saffron := lipgloss.Color("#ff9933")
	cream := lipgloss.Color("#fff4e0")
	maroon := lipgloss.Color("#800000")
	night := lipgloss.Color("#1e2460")

	return styles{
		hud:      r.NewStyle().Bold(true).Foreground(gold).Background(night),
		title:    r.NewStyle().Bold(true).Foreground(gold).Background(maroon).Border(lipgloss.DoubleBorder()).BorderForeground(gold).Padding(0, 3),
		banner:   r.NewStyle().Bold(true).Foreground(cream).Background(maroon).Padding(0, 1),
		border:   r.NewStyle().Foreground(gold),
		header:   r.NewStyle().Bold(true).Foreground(gold).Padding(0, 1),
		cell:     r.NewStyle().Foreground(cream).Padding(0, 1),
		achieved: r.NewStyle().Bold(true).Foreground(night).Background(gold).Padding(0, 1),
		next:     r.NewStyle().Italic(true).Foreground(saffron).Padding(0, 1),
	}
}
