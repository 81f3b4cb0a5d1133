package geom

import (
	"math"

	"golang.org/x/exp/constraints"
)

func ceil[T constraints.Integer | constraints.Float](a T) int {
	return int(math.Ceil(float64(a)))
}

func floor[T constraints.Integer | constraints.Float](a T) int {
	return int(math.Floor(float64(a)))
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
