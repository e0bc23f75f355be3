package physics

import "math"

// DegToRad converts degrees to radians.
const DegToRad = math.Pi / 180

// Sinusoid returns the value at time t (seconds) of a sine wave oscillating
// between minimum and maximum frequency times per second, shifted by phase
// degrees.
func Sinusoid(frequency, minimum, maximum, phase, t float64) float64 {
	amplitude := 0.5 * (maximum - minimum)
	angular := 2 * math.Pi * frequency
	offset := amplitude * math.Sin(angular*t+phase*DegToRad)
	return (minimum+maximum)/2 + offset
}

// HalfSine returns height * sin(pi * t / duration) for t inside (0, duration)
// and exactly 0 outside it, so an arc built from it starts and ends flush.
func HalfSine(height, duration, t float64) float64 {
	if duration <= 0 || t <= 0 || t >= duration {
		return 0
	}
	return height * math.Sin(math.Pi*t/duration)
}
