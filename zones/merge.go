package zones

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// RemoveContained drops zones that lie entirely inside another zone.
// Of two identical zones the first is kept.
func RemoveContained(zones []Zone) []Zone {
	if len(zones) <= 1 {
		return zones
	}

	contained := make([]bool, len(zones))
	for i := range zones {
		if contained[i] {
			continue
		}
		for j := range zones {
			if i == j || contained[j] {
				continue
			}
			if isContainedIn(zones[i], zones[j]) && !(j > i && isContainedIn(zones[j], zones[i])) {
				contained[i] = true
				break
			}
		}
	}

	result := make([]Zone, 0, len(zones))
	for i, z := range zones {
		if !contained[i] {
			result = append(result, z)
		}
	}
	return result
}

// isContainedIn checks if every outer-ring vertex of a lies inside b
func isContainedIn(a, b Zone) bool {
	if len(a.Polygon) == 0 || len(b.Polygon) == 0 || len(a.Polygon[0]) == 0 {
		return false
	}
	if !boundContains(b.Bound(), a.Bound()) {
		return false
	}
	for _, vertex := range a.Polygon[0] {
		if !planar.PolygonContains(b.Polygon, vertex) {
			return false
		}
	}
	return true
}

func boundContains(outer, inner orb.Bound) bool {
	return outer.Contains(inner.Min) && outer.Contains(inner.Max)
}
