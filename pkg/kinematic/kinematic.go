package kinematic

// This package includes the kinematic helpers used to move targets around the arena.

import (
	"math"
)

// Vector is a 2D vector in arena units.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Displacement returns the displacement of an object given its initial velocity, time, and acceleration.
func Displacement(initialVelocity float64, time float64, acceleration float64) float64 {
	return initialVelocity*time + 0.5*acceleration*math.Pow(time, 2)
}

// Clamp limits v to [lo, hi]. When the interval is empty the midpoint is returned.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}

// Bounce moves a circle of the given radius along one axis bounded by [0, limit].
// If the circle would cross a wall while travelling toward it, the velocity is
// reflected toward the interior and the overshoot is mirrored back inside.
// At most one reflection happens per call. The returned position always keeps
// the full circle inside the bounds.
func Bounce(position, velocity, radius, limit, dt float64) (float64, float64, bool) {
	next := position + Displacement(velocity, dt, 0)
	lo := radius
	hi := limit - radius

	reflected := false
	if next < lo && velocity < 0 {
		next = 2*lo - next
		velocity = -velocity
		reflected = true
	} else if next > hi && velocity > 0 {
		next = 2*hi - next
		velocity = -velocity
		reflected = true
	}

	return Clamp(next, lo, hi), velocity, reflected
}
