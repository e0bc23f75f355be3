// Package draw renders to a terminal: a half-block color canvas, a chunked
// ANSI writer, and terminal control helpers.
package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// BlockUpperHalf is the character every canvas cell is drawn with.
const BlockUpperHalf = '▀'

// ResetStyle clears all colors and attributes.
const ResetStyle = "\033[0m"
