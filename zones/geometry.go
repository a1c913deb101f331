package zones

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"grid-planner/pathfind"
)

// Zone is an obstacle region in grid coordinates, one unit per cell.
type Zone struct {
	Name    string
	Polygon orb.Polygon
}

// Bound returns the axis-aligned bounding box of the zone
func (z Zone) Bound() orb.Bound {
	return z.Polygon.Bound()
}

// CellCenter returns the centre point of a cell in zone coordinates
func CellCenter(c pathfind.Cell) orb.Point {
	return orb.Point{float64(c.X) + 0.5, float64(c.Y) + 0.5}
}

// CellBound returns the unit square covered by a cell
func CellBound(c pathfind.Cell) orb.Bound {
	return orb.Bound{
		Min: orb.Point{float64(c.X), float64(c.Y)},
		Max: orb.Point{float64(c.X + 1), float64(c.Y + 1)},
	}
}

// PathFeature returns a route as a LineString through cell centres
func PathFeature(path []pathfind.Cell) *geojson.Feature {
	line := make(orb.LineString, 0, len(path))
	for _, c := range path {
		line = append(line, CellCenter(c))
	}
	return geojson.NewFeature(line)
}

// ZoneFeature converts a zone back to a GeoJSON polygon feature
func ZoneFeature(z Zone) *geojson.Feature {
	f := geojson.NewFeature(z.Polygon)
	if z.Name != "" {
		f.Properties["name"] = z.Name
	}
	return f
}
