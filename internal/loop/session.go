// Package loop runs terminal game sessions: the fixed-rate Input → Tick →
// Present cycle, the terminal sink, and the hub that lets a server shut its
// sessions down gracefully.
package loop

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/annakut/internal/config"
	"github.com/tomz197/annakut/internal/draw"
	"github.com/tomz197/annakut/internal/input"
	"github.com/tomz197/annakut/internal/world"
)

// Options configures a session.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Tuning       config.Tuning
	Updates      <-chan config.Tuning // Tuning reloads, applied between ticks
	Hub          *Hub                 // Optional; receives shutdown and reload events
	Logger       *log.Logger
	IdleWarn     time.Duration // Zero means InactivityWarnUser
	IdleKick     time.Duration // Zero means InactivityDisconnectUser
	Hold         time.Duration // Key latch window; zero means input.DefaultHold
}

// Session runs one player's game on one terminal.
type Session struct {
	ID string

	opts         Options
	tuning       config.Tuning
	world        *world.World
	screen       *Screen
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	decoder      input.Decoder
	latch        *input.Latch
	handle       *Handle
	logger       *log.Logger
	termSizeFunc draw.TermSizeFunc

	running       bool
	lastInput     time.Time
	isInactive    bool
	shuttingDown  bool
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
}

// NewSession creates a session reading keys from r and drawing to w.
func NewSession(r *bufio.Reader, w io.Writer, opts Options) *Session {
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.StdoutSize
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.IdleWarn <= 0 {
		opts.IdleWarn = InactivityWarnUser
	}
	if opts.IdleKick <= 0 {
		opts.IdleKick = InactivityDisconnectUser
	}
	if opts.Hold <= 0 {
		opts.Hold = input.DefaultHold
	}

	id := uuid.NewString()

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := opts.TermSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, ViewWidth, ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	s := &Session{
		ID:           id,
		opts:         opts,
		tuning:       opts.Tuning,
		screen:       NewScreen(canvas, chunkWriter, w),
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		inputStream:  input.StartStream(r),
		latch:        input.NewLatch(opts.Hold),
		logger:       opts.Logger.With("session", id),
		termSizeFunc: opts.TermSizeFunc,
		running:      true,
		lastInput:    time.Now(),
	}
	if opts.Hub != nil {
		s.handle = opts.Hub.Register(id)
	}
	s.newWorld(time.Now())
	return s
}

// World returns the game currently played.
func (s *Session) World() *world.World {
	return s.world
}

// Run starts the session loop. Blocks until the player quits, the input
// ends, or the session is disconnected for inactivity or shutdown.
func (s *Session) Run() error {
	restore := draw.Setup(s.writer, false)
	defer restore()
	defer s.close()

	s.logger.Info("session started")
	lastTime := time.Now()

	for s.running {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		keys := s.processInput(frameStart)
		s.processEvents()
		s.applyTuning()
		s.updateScreen()

		if err := s.step(frameStart, delta, keys); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if ft := frameTime(s.tuning.TickRate); elapsed < ft {
			time.Sleep(ft - elapsed)
		}
	}
	return nil
}

func (s *Session) close() {
	if s.handle != nil {
		s.opts.Hub.Unregister(s.handle.ID)
	}
	s.logger.Info("session ended", "score", s.world.Score(), "state", s.world.State())
}

// newWorld starts a fresh game, as if the page were reloaded.
func (s *Session) newWorld(now time.Time) {
	s.screen.Reset()
	tuning := s.tuning
	s.world = world.New(world.Options{
		Tuning: &tuning,
		Sink:   s.screen,
		Logger: s.logger,
		Now:    now,
	})
	s.latch.Clear()
}

// processInput reads the frame's input and returns the fresh key presses.
func (s *Session) processInput(now time.Time) []input.Key {
	buf, closed := s.inputStream.Drain()
	if closed {
		s.running = false
	}
	frame := s.decoder.Decode(buf)
	if frame.Focus {
		s.latch.Clear()
	}

	if len(frame.Keys) > 0 {
		s.lastInput = now
		s.isInactive = false
	} else if now.Sub(s.lastInput) > s.opts.IdleKick {
		s.logger.Info("disconnecting inactive session")
		s.running = false
	} else if now.Sub(s.lastInput) > s.opts.IdleWarn {
		s.isInactive = true
	}

	if slices.Contains(frame.Keys, input.KeyQuit) {
		s.running = false
	}

	return s.latch.Filter(now, frame.Keys)
}

// processEvents handles events from the hub.
func (s *Session) processEvents() {
	if s.handle == nil {
		return
	}
	for {
		select {
		case event := <-s.handle.Events:
			switch event.Type {
			case EventServerShutdown:
				if !s.shuttingDown {
					s.shuttingDown = true
					s.shutdownTimer = ShutdownDisplaySeconds
				}
			case EventTuning:
				s.setTuning(event.Tuning)
			}
		default:
			return
		}
	}
}

// applyTuning takes the newest reloaded tuning, if any.
func (s *Session) applyTuning() {
	if s.opts.Updates == nil {
		return
	}
	select {
	case t := <-s.opts.Updates:
		s.setTuning(t)
	default:
	}
}

func (s *Session) setTuning(t config.Tuning) {
	s.tuning = t
	s.world.SetTuning(t)
}

// step advances the game by one frame, or counts down the shutdown screen.
func (s *Session) step(now time.Time, delta time.Duration, keys []input.Key) error {
	if s.shuttingDown {
		s.shutdownTimer -= delta.Seconds()
		if s.shutdownTimer <= 0 {
			s.running = false
		}
		s.screen.SetNotice(s.shutdownNotice())
		return s.screen.Present(s.world.View())
	}

	if s.isInactive {
		s.screen.SetNotice(s.inactivityNotice(now))
	} else {
		s.screen.SetNotice(nil)
	}

	if s.world.State() == world.StateGameOver && slices.Contains(keys, input.KeyDown) {
		s.logger.Info("new game", "previous_score", s.world.Score())
		s.newWorld(now)
		keys = nil
	}
	return s.world.Tick(world.Input{Now: now, Keys: keys})
}

func (s *Session) inactivityNotice(now time.Time) []string {
	return []string{
		"INACTIVITY WARNING",
		"",
		fmt.Sprintf(
			"You have been inactive for too long. You will be disconnected in %d seconds.",
			int((s.opts.IdleKick - now.Sub(s.lastInput)).Seconds()),
		),
		"",
		"Press any key to continue",
	}
}

func (s *Session) shutdownNotice() []string {
	remaining := int(s.shutdownTimer) + 1
	return []string{
		"SERVER SHUTTING DOWN",
		"",
		"The server is restarting for maintenance.",
		"Please reconnect in a moment.",
		"",
		fmt.Sprintf("Disconnecting in %d seconds...", remaining),
		"",
		"Press Q to disconnect now",
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (s *Session) updateScreen() {
	termWidth, termHeight, err := s.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth == s.canvas.TerminalWidth() && renderHeight == s.canvas.TerminalHeight() &&
		offsetCol == s.canvas.OffsetCol() && offsetRow == s.canvas.OffsetRow() {
		return
	}
	s.chunkWriter.Clear()
	s.canvas.Resize(renderWidth, renderHeight)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, MaxTermWidth)
	renderHeight = min(termHeight, MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}
