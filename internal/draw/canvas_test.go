package draw

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"testing"
)

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

func TestFillPolygon(t *testing.T) {
	c := NewCanvas(10, 5) // 10x10 sub-pixels
	c.FillPolygon([]Point{{2, 2}, {6, 2}, {6, 6}, {2, 6}}, red)

	cases := []struct {
		x, y int
		want color.RGBA
	}{
		{2, 2, red},
		{5, 5, red},
		{6, 6, color.RGBA{}},
		{1, 3, color.RGBA{}},
		{9, 9, color.RGBA{}},
	}
	for _, cs := range cases {
		if got := c.At(cs.x, cs.y); got != cs.want {
			t.Errorf("At(%d, %d) = %v, want %v", cs.x, cs.y, got, cs.want)
		}
	}
}

func TestFillPolygonClipsToCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillPolygon([]Point{{-100, -100}, {100, -100}, {100, 100}, {-100, 100}}, blue)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if c.At(x, y) != blue {
				t.Fatalf("pixel (%d, %d) not filled", x, y)
			}
		}
	}
}

func TestRenderOnlyRepaintsChanges(t *testing.T) {
	c := NewCanvas(8, 4)
	c.Fill(blue)

	var first bytes.Buffer
	if err := c.Render(&first); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(first.String(), string(BlockUpperHalf)); got != 32 {
		t.Fatalf("first frame painted %d cells, want 32", got)
	}

	var second bytes.Buffer
	if err := c.Render(&second); err != nil {
		t.Fatal(err)
	}
	if second.Len() != 0 {
		t.Fatalf("unchanged frame wrote %q", second.String())
	}

	c.Set(3, 1, red) // Bottom half of cell (4, 1)
	var third bytes.Buffer
	if err := c.Render(&third); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(third.String(), string(BlockUpperHalf)); got != 1 {
		t.Fatalf("one changed pixel repainted %d cells", got)
	}
	if !strings.Contains(third.String(), "\033[1;4H") {
		t.Fatalf("missing cursor move to the changed cell: %q", third.String())
	}
	if !strings.Contains(third.String(), "\033[48;2;255;0;0m") {
		t.Fatalf("changed bottom half should be the background color: %q", third.String())
	}
}

func TestMarkTextDirty(t *testing.T) {
	c := NewCanvas(8, 4)
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		t.Fatal(err)
	}

	c.MarkTextDirty(2, 3, 4)
	buf.Reset()
	if err := c.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), string(BlockUpperHalf)); got != 4 {
		t.Fatalf("repainted %d cells, want 4", got)
	}

	c.ForceRedraw()
	buf.Reset()
	if err := c.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), string(BlockUpperHalf)); got != 32 {
		t.Fatalf("forced redraw painted %d cells, want 32", got)
	}
}

func TestChunkWriterOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 3, 2)
	cw.WriteAt(1, 1, "hi")
	cw.WriteAbs(1, 1, "x")
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "\033[3;4Hhi\033[1;1Hx"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if cw.Len() != 0 {
		t.Fatalf("buffer not reset after flush")
	}

	out.Reset()
	cw.SetOffset(0, 0)
	cw.Clear()
	cw.WriteAt(2, 5, "ok")
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "\033[H\033[2J\033[5;2Hok"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestChunkWriterSplitsLargeFrames(t *testing.T) {
	var out countingWriter
	cw := NewChunkWriter(&out, 0, 0)
	frame := strings.Repeat("x", 3*maxChunkSize+10)
	cw.Write([]byte(frame))
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if out.writes != 4 || out.bytes != len(frame) {
		t.Fatalf("writes = %d bytes = %d, want 4 writes of %d bytes", out.writes, out.bytes, len(frame))
	}
}

type countingWriter struct {
	writes, bytes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	if len(p) > maxChunkSize {
		return 0, fmt.Errorf("chunk of %d bytes", len(p))
	}
	w.writes++
	w.bytes += len(p)
	return len(p), nil
}

func TestSetupRestores(t *testing.T) {
	cases := []struct {
		name      string
		alt       bool
		enter     string
		leaveTail string
	}{
		{"inline", false, "\033[?25l\033[H\033[2J", "\033[?25h"},
		{"alternate_screen", true, "\033[?1049h\033[?25l\033[H\033[2J", "\033[?1049l"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out bytes.Buffer
			restore := Setup(&out, c.alt)
			if out.String() != c.enter {
				t.Fatalf("setup wrote %q, want %q", out.String(), c.enter)
			}
			out.Reset()
			restore()
			if !strings.HasSuffix(out.String(), c.leaveTail) || !strings.Contains(out.String(), "\033[?25h") {
				t.Fatalf("restore wrote %q", out.String())
			}
		})
	}
}
