package pathfind

import "math"

// Heuristic estimates the remaining cost between two cells
type Heuristic func(from, to Cell) float64

// Euclidean is the straight-line distance. It is the default heuristic.
func Euclidean(from, to Cell) float64 {
	dx := float64(from.X - to.X)
	dy := float64(from.Y - to.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Manhattan is the orthogonal step distance, exact on an empty unit-cost grid.
func Manhattan(from, to Cell) float64 {
	return math.Abs(float64(from.X-to.X)) + math.Abs(float64(from.Y-to.Y))
}
