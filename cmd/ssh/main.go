package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/annakut/internal/config"
	"github.com/tomz197/annakut/internal/draw"
	"github.com/tomz197/annakut/internal/input"
	"github.com/tomz197/annakut/internal/loop"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	logger := config.NewLogger(os.Stderr, "ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	idleWarn := config.GetEnvDuration("SSH_IDLE_WARN", loop.InactivityWarnUser)
	idleKick := config.GetEnvDuration("SSH_IDLE_KICK", loop.InactivityDisconnectUser)
	tuningPath := config.GetEnv("ANNAKUT_TUNING", "")
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath,
		"idleWarn", idleWarn, "idleKick", idleKick, "tuning", tuningPath)

	tuning, err := config.Load(tuningPath)
	if err != nil {
		logger.Fatal("failed to load tuning", "err", err)
	}

	// Every session plays its own game; the hub only tracks them for
	// shutdown and tuning reloads.
	hub := loop.NewHub()
	srv := &app{
		hub:      hub,
		logger:   logger,
		idleWarn: idleWarn,
		idleKick: idleKick,
	}
	srv.setTuning(tuning)

	if tuningPath != "" && config.GetEnvBool("ANNAKUT_WATCH", false) {
		watcher, err := config.Watch(tuningPath)
		if err != nil {
			logger.Fatal("failed to watch tuning", "err", err)
		}
		defer watcher.Close()
		go srv.forwardTuning(watcher)
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			srv.gameMiddleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Notify players and wait for them to disconnect
	logger.Info("Notifying connected players about shutdown...", "sessions", hub.Len())
	hub.Shutdown(15 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

type app struct {
	hub      *loop.Hub
	logger   *log.Logger
	idleWarn time.Duration
	idleKick time.Duration

	mu     sync.RWMutex
	tuning config.Tuning
}

func (a *app) setTuning(t config.Tuning) {
	a.mu.Lock()
	a.tuning = t
	a.mu.Unlock()
}

func (a *app) currentTuning() config.Tuning {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tuning
}

// forwardTuning hands every reloaded tuning to the running sessions and
// keeps it for sessions started later.
func (a *app) forwardTuning(w *config.Watcher) {
	for {
		select {
		case t, ok := <-w.Updates:
			if !ok {
				return
			}
			a.setTuning(t)
			a.logger.Info("tuning reloaded", "sessions", a.hub.Len())
			a.hub.Broadcast(loop.Event{Type: loop.EventTuning, Tuning: t})
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			a.logger.Warn("tuning reload failed, keeping the previous tuning", "err", err)
		}
	}
}

// gameMiddleware handles SSH sessions and runs a game for each.
func (a *app) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		fmt.Fprint(sess, input.EnableFocusReporting)
		defer fmt.Fprint(sess, input.DisableFocusReporting)

		reader := bufio.NewReader(sess)
		session := loop.NewSession(reader, sess, loop.Options{
			TermSizeFunc: sizeTracker.getSize,
			Tuning:       a.currentTuning(),
			Hub:          a.hub,
			Logger:       a.logger.With("user", sess.User()),
			IdleWarn:     a.idleWarn,
			IdleKick:     a.idleKick,
		})
		a.logger.Info("New game session", "session", session.ID, "user", sess.User(),
			"terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		if err := session.Run(); err != nil {
			a.logger.Error("Game error", "session", session.ID, "user", sess.User(), "err", err)
		}

		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
