// Package input turns the raw terminal byte stream into key presses.
package input

import (
	"bufio"
	"time"
)

// Key is a logical key the game reacts to.
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPause
	KeyQuit
	KeyModifier // Enter, Tab, Backspace and similar keys that never resume a paused game
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyPause:
		return "pause"
	case KeyQuit:
		return "quit"
	case KeyModifier:
		return "modifier"
	default:
		return "other"
	}
}

// Focus reporting control sequences. While enabled the terminal sends
// ESC [ I on focus in and ESC [ O on focus out.
const (
	EnableFocusReporting  = "\x1b[?1004h"
	DisableFocusReporting = "\x1b[?1004l"
)

// Stream delivers input bytes via a channel.
type Stream struct {
	ch chan byte
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Drain returns all bytes available without blocking. closed reports that
// the underlying reader has ended.
func (s *Stream) Drain() (buf []byte, closed bool) {
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				return buf, true
			}
			buf = append(buf, b)
		default:
			return buf, false
		}
	}
}

// Frame is the input gathered for one frame.
type Frame struct {
	Keys  []Key  // Key presses in arrival order
	Focus bool   // A focus in/out event arrived
	Rest  []byte // Incomplete escape sequence at the end of the chunk
}

// Parse decodes a chunk of terminal input. Escape sequences it does not
// know are skipped whole. An escape sequence cut off by the end of buf is
// returned in Rest, undecoded.
func Parse(buf []byte) Frame {
	return parse(buf, false)
}

func parse(buf []byte, final bool) Frame {
	var f Frame
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+1 == len(buf) && !final {
			f.Rest = buf[i:]
			break
		}
		if b == '\x1b' && i+1 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
			end := sequenceEnd(buf, i+2)
			if end >= len(buf) {
				if !final {
					f.Rest = buf[i:]
				}
				break
			}
			switch buf[end] {
			case 'A':
				f.Keys = append(f.Keys, KeyUp)
			case 'B':
				f.Keys = append(f.Keys, KeyDown)
			case 'C':
				f.Keys = append(f.Keys, KeyRight)
			case 'D':
				f.Keys = append(f.Keys, KeyLeft)
			case 'I', 'O':
				if buf[i+1] == '[' && end == i+2 {
					f.Focus = true
				}
			}
			i = end
			continue
		}

		f.Keys = append(f.Keys, byteKey(b))
	}
	return f
}

// Decoder parses input across frames. An escape sequence split between two
// reads is held back until the rest of it arrives. A tail still incomplete
// after a frame without new input is decoded as it stands: a lone ESC is a
// key of its own, a cut-off CSI sequence is dropped.
type Decoder struct {
	pending []byte
}

// Decode parses the bytes read this frame.
func (d *Decoder) Decode(buf []byte) Frame {
	if len(buf) == 0 {
		if len(d.pending) == 0 {
			return Frame{}
		}
		f := parse(d.pending, true)
		d.pending = d.pending[:0]
		return f
	}

	data := append(d.pending, buf...)
	f := parse(data, false)
	d.pending = append([]byte(nil), f.Rest...)
	f.Rest = nil
	return f
}

// sequenceEnd returns the index of the final byte of a CSI sequence whose
// parameters start at i.
func sequenceEnd(buf []byte, i int) int {
	for i < len(buf) && buf[i] >= 0x20 && buf[i] <= 0x3f {
		i++
	}
	return i
}

func byteKey(b byte) Key {
	switch b {
	case 'q', 'Q', 0x03:
		return KeyQuit
	case 'p', 'P':
		return KeyPause
	case 'a', 'A', 'j', 'J':
		return KeyLeft
	case 'd', 'D', 'l', 'L':
		return KeyRight
	case 'w', 'W', 'i', 'I', ' ':
		return KeyUp
	case 's', 'S', 'k', 'K':
		return KeyDown
	case '\n', '\r', '\t', '\b', 0x7f:
		return KeyModifier
	default:
		return KeyOther
	}
}

// DefaultHold is how long a key stays latched after it was last seen.
// Terminals report no key releases, only auto-repeat, so a key counts as
// released once its repeats stop for this long.
const DefaultHold = 150 * time.Millisecond

// Latch lets a key through once per press. Repeats of a held key are
// swallowed until the key is released.
type Latch struct {
	hold time.Duration
	seen map[Key]time.Time
}

// NewLatch returns a latch that releases keys after hold without repeats.
func NewLatch(hold time.Duration) *Latch {
	return &Latch{hold: hold, seen: make(map[Key]time.Time)}
}

// Filter returns the keys among keys that are fresh presses at now.
func (l *Latch) Filter(now time.Time, keys []Key) []Key {
	for k, t := range l.seen {
		if now.Sub(t) >= l.hold {
			delete(l.seen, k)
		}
	}
	var fresh []Key
	for _, k := range keys {
		if _, held := l.seen[k]; !held {
			fresh = append(fresh, k)
		}
		l.seen[k] = now
	}
	return fresh
}

// Clear unlatches every key.
func (l *Latch) Clear() {
	clear(l.seen)
}
