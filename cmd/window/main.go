package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/annakut/internal/config"
	"github.com/tomz197/annakut/internal/window"
)

func main() {
	tuningPath := flag.String("tuning", config.GetEnv("ANNAKUT_TUNING", ""), "tuning YAML file (built-in defaults when empty)")
	watch := flag.Bool("watch", config.GetEnvBool("ANNAKUT_WATCH", false), "reload the tuning file when it changes")
	scale := flag.Int("scale", 1, "initial window size as a multiple of the base resolution")
	flag.Parse()

	logger := config.NewLogger(os.Stderr, "window")

	tuning, err := config.Load(*tuningPath)
	if err != nil {
		logger.Fatal("failed to load tuning", "err", err)
	}

	opts := window.Options{
		Tuning: tuning,
		Logger: logger,
	}
	if *watch && *tuningPath != "" {
		watcher, err := config.Watch(*tuningPath)
		if err != nil {
			logger.Fatal("failed to watch tuning", "err", err)
		}
		defer watcher.Close()
		opts.Updates = watcher.Updates
		go func() {
			for err := range watcher.Errors {
				logger.Warn("tuning reload failed, keeping the previous tuning", "err", err)
			}
		}()
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(window.ScreenWidth*max(*scale, 1), window.ScreenHeight*max(*scale, 1))
	ebiten.SetWindowTitle("Annakut Loot")
	ebiten.SetTPS(tuning.TickRate)

	if err := ebiten.RunGame(window.New(opts)); err != nil {
		logger.Error("game error", "err", err)
	}
}
