package loop

import "time"

// View resolution - the visible viewport in logical units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 160 // Logical viewport width
	ViewHeight = 100 // Logical viewport height (in sub-pixels, so 50 terminal rows)
)

// Largest area the canvas renders into. Bigger terminals get the canvas
// centered with a border around it.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
)

// DefaultFPS is used when the tuning has no tick rate.
const DefaultFPS = 60

func frameTime(tickRate int) time.Duration {
	if tickRate <= 0 {
		tickRate = DefaultFPS
	}
	return time.Second / time.Duration(tickRate)
}
