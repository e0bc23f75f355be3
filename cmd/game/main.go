package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/annakut/internal/config"
	"github.com/tomz197/annakut/internal/draw"
	"github.com/tomz197/annakut/internal/input"
	"github.com/tomz197/annakut/internal/loop"
)

func main() {
	tuningPath := flag.String("tuning", config.GetEnv("ANNAKUT_TUNING", ""), "tuning YAML file (built-in defaults when empty)")
	watch := flag.Bool("watch", config.GetEnvBool("ANNAKUT_WATCH", false), "reload the tuning file when it changes")
	logPath := flag.String("log", config.GetEnv("ANNAKUT_LOG", ""), "log file (logging is off when empty)")
	flag.Parse()

	if err := run(*tuningPath, *watch, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run(tuningPath string, watch bool, logPath string) error {
	// The terminal belongs to the game, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "game")

	tuning, err := config.Load(tuningPath)
	if err != nil {
		return err
	}

	opts := loop.Options{
		Tuning: tuning,
		Logger: logger,
	}
	if watch && tuningPath != "" {
		watcher, err := config.Watch(tuningPath)
		if err != nil {
			return fmt.Errorf("watch tuning: %w", err)
		}
		defer watcher.Close()
		opts.Updates = watcher.Updates
		go logReloadErrors(watcher, logger)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	restore := draw.Setup(os.Stdout, true)
	defer restore()
	fmt.Fprint(os.Stdout, input.EnableFocusReporting)
	defer fmt.Fprint(os.Stdout, input.DisableFocusReporting)

	reader := bufio.NewReader(os.Stdin)
	return loop.NewSession(reader, os.Stdout, opts).Run()
}

func logReloadErrors(w *config.Watcher, logger *log.Logger) {
	for err := range w.Errors {
		logger.Warn("tuning reload failed, keeping the previous tuning", "err", err)
	}
}
