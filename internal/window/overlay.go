package window

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/tomz197/annakut/internal/world"
)

// overlay is the centered panel shown while paused and after game over.
type overlay struct {
	ui    *ebitenui.UI
	title *widget.Text
	body  *widget.Text
}

// newOverlay builds a centered panel with a title and a body text. Labels
// are swapped as the game state changes.
func newOverlay() *overlay {
	// semi-transparent panel background
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x1e, G: 0x24, B: 0x60, A: 210})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	title := widget.NewText(
		widget.TextOpts.Text("", &face, color.NRGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}),
		widget.TextOpts.Position(widget.TextPositionCenter, widget.TextPositionCenter),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	body := widget.NewText(
		widget.TextOpts.Text("", &face, color.NRGBA{R: 0xff, G: 0xf4, B: 0xe0, A: 0xff}),
		widget.TextOpts.Position(widget.TextPositionCenter, widget.TextPositionCenter),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(14),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(body)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &overlay{
		ui:    &ebitenui.UI{Container: root},
		title: title,
		body:  body,
	}
}

// show sets the panel text for the sink's state. It reports false when
// nothing should be shown.
func (o *overlay) show(s *sink) bool {
	switch {
	case s.ranks != nil:
		o.title.Label = world.GameOverMessage(s.ranks.Coins)
		o.body.Label = rankLines(*s.ranks)
	case s.paused && !s.started:
		o.title.Label = "ANNAKUT LOOT"
		o.body.Label = strings.Join([]string{
			"Up / W / Space: jump",
			"Left / A, Right / D: switch lane",
			"P: pause    Q / Esc: quit",
			"",
			"Press any key to start",
		}, "\n")
	case s.paused:
		o.title.Label = "Paused"
		o.body.Label = world.PausedMessage
	default:
		return false
	}
	return true
}

func rankLines(t world.RankTable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Final score: %s\n\n", humanize.Comma(int64(t.Score)))
	for _, r := range t.Rows {
		marker := "  "
		switch r.Kind {
		case world.RowAchieved:
			marker = "> "
		case world.RowNext:
			marker = "* "
		}
		fmt.Fprintf(&b, "%s%-10s %s\n", marker, r.Bucket, r.Label)
	}
	return strings.TrimRight(b.String(), "\n")
}
