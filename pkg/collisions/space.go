package collisions

import (
	"math"

	"github.com/solarlune/resolv"
)

// CellSize is the width and height of a collision space cell
const CellSize = 16

// NewCollisionSpace returns a space covering a width by height arena.
func NewCollisionSpace(width, height float64) *resolv.Space {
	return resolv.NewSpace(int(math.Ceil(width)), int(math.Ceil(height)), CellSize, CellSize)
}
