package zones

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// Simplify reduces zone outlines with Douglas-Peucker. epsilon is in grid
// cells; zero or less returns zones unchanged. A ring that would collapse
// below a triangle keeps its original shape.
func Simplify(zones []Zone, epsilon float64) []Zone {
	if epsilon <= 0 {
		return zones
	}

	dp := simplify.DouglasPeucker(epsilon)
	out := make([]Zone, len(zones))
	for i, z := range zones {
		simplified, ok := dp.Simplify(z.Polygon.Clone()).(orb.Polygon)
		if !ok || len(simplified) == 0 || len(simplified[0]) < 4 {
			out[i] = z
			continue
		}
		out[i] = Zone{Name: z.Name, Polygon: simplified}
	}
	return out
}

// VertexCount returns the number of vertices over all rings of all zones
func VertexCount(zones []Zone) int {
	n := 0
	for _, z := range zones {
		for _, r := range z.Polygon {
			n += len(r)
		}
	}
	return n
}
