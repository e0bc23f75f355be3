package draw

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Screen control sequences.
const (
	clearScreen = "\033[H\033[2J"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
	enterAlt    = "\033[?1049h"
	exitAlt     = "\033[?1049l"
)

// TermSizeFunc reports the terminal size in columns and rows.
type TermSizeFunc func() (width, height int, err error)

// StdoutSize reports the size of the terminal on os.Stdout.
func StdoutSize() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// Setup takes over the terminal on w for a full-screen game: the alternate
// screen when alt is set, a hidden cursor and a blank screen. The returned
// func hands the terminal back in the state it was found.
func Setup(w io.Writer, alt bool) (restore func()) {
	seq := hideCursor + clearScreen
	if alt {
		seq = enterAlt + seq
	}
	io.WriteString(w, seq)
	return func() {
		seq := clearScreen + ResetStyle + showCursor
		if alt {
			seq += exitAlt
		}
		io.WriteString(w, seq)
	}
}

// ChunkWriter collects one frame of terminal output and sends it in
// MTU-sized writes, so a frame crosses an SSH channel in few packets.
// Positions given to WriteAt are canvas coordinates shifted by the offset
// of the centered play area.
type ChunkWriter struct {
	buf    []byte
	out    io.Writer
	offCol int
	offRow int
}

var _ io.Writer = (*ChunkWriter)(nil)

// NewChunkWriter creates a ChunkWriter flushing to w, with the play area
// offset by offsetCol columns and offsetRow rows.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		buf:    make([]byte, 0, 8192),
		out:    w,
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset moves the play area after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// Write queues raw output.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.buf = append(cw.buf, p...)
	return len(p), nil
}

// Clear queues a full screen clear, used when the picture changes wholesale.
func (cw *ChunkWriter) Clear() {
	cw.buf = append(cw.buf, clearScreen...)
}

// WriteAt queues s at 1-based canvas position (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.buf = appendCursor(cw.buf, col+cw.offCol, row+cw.offRow)
	cw.buf = append(cw.buf, s...)
}

// WriteAbs queues s at a 1-based terminal position, outside the play area
// offset. The canvas border is drawn this way.
func (cw *ChunkWriter) WriteAbs(col, row int, s string) {
	cw.buf = appendCursor(cw.buf, col, row)
	cw.buf = append(cw.buf, s...)
}

// Len returns the number of bytes waiting to be flushed.
func (cw *ChunkWriter) Len() int {
	return len(cw.buf)
}

// Flush sends the queued frame and empties the queue.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf
	cw.buf = cw.buf[:0]
	for len(data) > 0 {
		chunk := data[:min(len(data), maxChunkSize)]
		if _, err := cw.out.Write(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}
