package zones

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"grid-planner/pathfind"
)

type zoneEntry struct {
	zone Zone
	bbox rtreego.Rect
}

// Bounds implements rtreego.Spatial
func (e *zoneEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// Index answers "which zones may cover this region" with an R-tree.
type Index struct {
	tree *rtreego.Rtree
}

// NewIndex builds an index over zones. Zones with a degenerate bounding box are dropped.
func NewIndex(zones []Zone) *Index {
	tree := rtreego.NewTree(2, 25, 50)
	for _, z := range zones {
		bbox, err := boundToRect(z.Bound())
		if err != nil {
			continue
		}
		tree.Insert(&zoneEntry{zone: z, bbox: bbox})
	}
	return &Index{tree: tree}
}

// Len returns the number of indexed zones
func (ix *Index) Len() int {
	return ix.tree.Size()
}

// Query returns zones whose bounding boxes intersect b
func (ix *Index) Query(b orb.Bound) []Zone {
	rect, err := boundToRect(b)
	if err != nil {
		return nil
	}
	results := ix.tree.SearchIntersect(rect)
	zones := make([]Zone, 0, len(results))
	for _, item := range results {
		zones = append(zones, item.(*zoneEntry).zone)
	}
	return zones
}

// Covers reports whether the centre of c lies inside any indexed zone
func (ix *Index) Covers(c pathfind.Cell) bool {
	center := CellCenter(c)
	for _, z := range ix.Query(CellBound(c)) {
		if planar.PolygonContains(z.Polygon, center) {
			return true
		}
	}
	return false
}

func boundToRect(b orb.Bound) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{b.Min[0], b.Min[1]},
		[]float64{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1]},
	)
}

// Rasterize marks every cell covered by a zone as Obstacle and returns how many
// cells changed. Start and Goal cells are left alone.
func Rasterize(g *pathfind.Grid, ix *Index) int {
	changed := 0
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			switch g.State(x, y) {
			case pathfind.Obstacle, pathfind.Start, pathfind.Goal:
				continue
			}
			if ix.Covers(pathfind.Cell{X: x, Y: y}) {
				g.SetObstacle(x, y)
				changed++
			}
		}
	}
	return changed
}
