package pathfind

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

type recorder struct {
	expanded []Cell
	path     []Cell
}

func (r *recorder) MarkExpanded(c Cell) { r.expanded = append(r.expanded, c) }
func (r *recorder) MarkOnPath(c Cell)   { r.path = append(r.path, c) }

func mustGrid(t *testing.T, rows [][]int) *Grid {
	t.Helper()
	g, err := GridFromRows(rows)
	if err != nil {
		t.Fatalf("GridFromRows: %v", err)
	}
	return g
}

func emptyGrid(t *testing.T, w, h int) *Grid {
	t.Helper()
	g, err := NewGrid(w, h)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

// bfsDistance is the oracle: shortest orthogonal step count, -1 if unreachable
func bfsDistance(g *Grid, start, goal Cell) int {
	dist := map[Cell]int{start: 0}
	queue := []Cell{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == goal {
			return dist[c]
		}
		for _, d := range directions {
			n := Cell{c.X + d.X, c.Y + d.Y}
			if !g.OnGrid(n.X, n.Y) || g.IsObstacle(n.X, n.Y) {
				continue
			}
			if _, seen := dist[n]; seen {
				continue
			}
			dist[n] = dist[c] + 1
			queue = append(queue, n)
		}
	}
	return -1
}

func assertValidPath(t *testing.T, g *Grid, path []Cell, start, goal Cell) {
	t.Helper()
	if len(path) == 0 {
		t.Fatal("expected non-empty path")
	}
	if path[0] != start {
		t.Errorf("path starts at %v, want %v", path[0], start)
	}
	if path[len(path)-1] != goal {
		t.Errorf("path ends at %v, want %v", path[len(path)-1], goal)
	}
	for i, c := range path {
		if !g.OnGrid(c.X, c.Y) {
			t.Fatalf("path cell %d %v is off grid", i, c)
		}
		if g.IsObstacle(c.X, c.Y) && c != start {
			t.Errorf("path cell %d %v is an obstacle", i, c)
		}
		if i == 0 {
			continue
		}
		p := path[i-1]
		dx, dy := c.X-p.X, c.Y-p.Y
		if dx*dx+dy*dy != 1 {
			t.Errorf("cells %v -> %v are not orthogonally adjacent", p, c)
		}
	}
}

func TestFindPathOpenThreeByThree(t *testing.T) {
	g := emptyGrid(t, 3, 3)
	rec := &recorder{}

	res, err := FindPath(context.Background(), g, Cell{0, 0}, Cell{2, 2}, WithObserver(rec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Fatal("expected path to be found")
	}

	want := []Cell{{0, 0}, {0, 1}, {1, 1}, {1, 2}, {2, 2}}
	if !reflect.DeepEqual(res.Path, want) {
		t.Errorf("expected path %v, got %v", want, res.Path)
	}
	if res.Cost != 4 {
		t.Errorf("expected cost 4, got %v", res.Cost)
	}
	if res.Expanded != 8 {
		t.Errorf("expected 8 expansions, got %d", res.Expanded)
	}

	wantExpanded := []Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {0, 2}, {2, 0}, {1, 2}, {2, 1}}
	if !reflect.DeepEqual(rec.expanded, wantExpanded) {
		t.Errorf("expected expansion order %v, got %v", wantExpanded, rec.expanded)
	}
	if !reflect.DeepEqual(rec.path, want) {
		t.Errorf("expected observer path %v, got %v", want, rec.path)
	}
}

func TestFindPathBlockedMiddleRow(t *testing.T) {
	g := mustGrid(t, [][]int{
		{0, 0, 0},
		{5, 5, 5},
		{0, 0, 0},
	})

	res, err := FindPath(context.Background(), g, Cell{1, 0}, Cell{1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Found {
		t.Fatalf("expected no path, got %v", res.Path)
	}
	if res.Path != nil {
		t.Errorf("expected nil path, got %v", res.Path)
	}
	if res.Expanded != 3 {
		t.Errorf("expected 3 expansions, got %d", res.Expanded)
	}
}

func TestFindPathTrivial(t *testing.T) {
	g := emptyGrid(t, 5, 5)
	res, err := FindPath(context.Background(), g, Cell{2, 3}, Cell{2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found || !reflect.DeepEqual(res.Path, []Cell{{2, 3}}) {
		t.Errorf("expected single-cell path, got found=%v path=%v", res.Found, res.Path)
	}
	if res.Cost != 0 || res.Expanded != 0 {
		t.Errorf("expected zero cost and expansions, got cost=%v expanded=%d", res.Cost, res.Expanded)
	}
}

func TestFindPathTieBreakFollowsDiscoveryOrder(t *testing.T) {
	tests := []struct {
		name        string
		start, goal Cell
		want        []Cell
	}{
		{"down before right", Cell{0, 0}, Cell{1, 1}, []Cell{{0, 0}, {0, 1}, {1, 1}}},
		{"up before left", Cell{1, 1}, Cell{0, 0}, []Cell{{1, 1}, {1, 0}, {0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := emptyGrid(t, 2, 2)
			res, err := FindPath(context.Background(), g, tt.start, tt.goal)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(res.Path, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, res.Path)
			}
		})
	}
}

func TestFindPathEnclosedGoal(t *testing.T) {
	g := mustGrid(t, [][]int{
		{0, 0, 0, 0, 0, 0, 0},
		{0, 5, 5, 5, 5, 5, 0},
		{0, 5, 0, 0, 0, 5, 0},
		{0, 5, 0, 0, 0, 5, 0},
		{0, 5, 0, 0, 0, 5, 0},
		{0, 5, 5, 5, 5, 5, 0},
		{0, 0, 0, 0, 0, 0, 0},
	})

	res, err := FindPath(context.Background(), g, Cell{0, 0}, Cell{3, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Found {
		t.Errorf("expected no path into enclosure, got %v", res.Path)
	}
	// Everything outside the wall gets expanded before giving up.
	if res.Expanded != 24 {
		t.Errorf("expected 24 expansions, got %d", res.Expanded)
	}
}

func TestFindPathMatchesBFSOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	heuristics := map[string]Heuristic{"euclidean": Euclidean, "manhattan": Manhattan}

	for trial := 0; trial < 200; trial++ {
		w, h := 4+rng.Intn(20), 4+rng.Intn(20)
		g := emptyGrid(t, w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if rng.Float64() < 0.3 {
					g.SetObstacle(x, y)
				}
			}
		}
		start := Cell{rng.Intn(w), rng.Intn(h)}
		goal := Cell{rng.Intn(w), rng.Intn(h)}
		g.SetState(start.X, start.Y, Free)
		g.SetState(goal.X, goal.Y, Free)

		want := bfsDistance(g, start, goal)
		for name, hf := range heuristics {
			res, err := FindPath(context.Background(), g, start, goal, WithHeuristic(hf))
			if err != nil {
				t.Fatalf("trial %d %s: unexpected error: %v", trial, name, err)
			}
			if want < 0 {
				if res.Found {
					t.Errorf("trial %d %s: oracle says unreachable, got %v", trial, name, res.Path)
				}
				continue
			}
			if !res.Found {
				t.Errorf("trial %d %s: expected path of length %d, got none", trial, name, want)
				continue
			}
			assertValidPath(t, g, res.Path, start, goal)
			if got := len(res.Path) - 1; got != want {
				t.Errorf("trial %d %s: expected length %d, got %d", trial, name, want, got)
			}
			if res.Cost != float64(want) {
				t.Errorf("trial %d %s: expected cost %d, got %v", trial, name, want, res.Cost)
			}
		}
	}
}

func TestFindPathDeterministic(t *testing.T) {
	g := mustGrid(t, [][]int{
		{0, 0, 0, 0, 0, 0},
		{0, 5, 0, 0, 5, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 5, 0, 5, 5, 0},
		{0, 0, 0, 0, 0, 0},
	})

	first, err := FindPath(context.Background(), g, Cell{0, 0}, Cell{5, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := FindPath(context.Background(), g, Cell{0, 0}, Cell{5, 4})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, first.Path, again.Path)
		}
	}
}

func TestFindPathDoesNotChangeObstacles(t *testing.T) {
	g := mustGrid(t, [][]int{
		{0, 0, 0, 0},
		{5, 5, 0, 5},
		{0, 0, 0, 0},
		{0, 5, 5, 0},
	})
	before := g.Rows()

	if _, err := FindPath(context.Background(), g, Cell{0, 0}, Cell{0, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(before, g.Rows()) {
		t.Error("search without observer mutated the grid")
	}

	painted := g.Clone()
	painted.MarkStart(Cell{0, 0})
	painted.MarkGoal(Cell{0, 3})
	res, err := FindPath(context.Background(), painted, Cell{0, 0}, Cell{0, 3}, WithObserver(GridPainter{Grid: painted}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Fatal("expected path")
	}

	for y, row := range before {
		for x, code := range row {
			wasObstacle := code == int(Obstacle)
			if painted.IsObstacle(x, y) != wasObstacle {
				t.Errorf("cell (%d,%d) obstacle classification changed", x, y)
			}
		}
	}
	if painted.State(0, 0) != Start || painted.State(0, 3) != Goal {
		t.Error("start or goal marker was overwritten")
	}
	for _, c := range res.Path[1 : len(res.Path)-1] {
		if painted.State(c.X, c.Y) != Path {
			t.Errorf("expected %v marked as path, got %v", c, painted.State(c.X, c.Y))
		}
	}
}

func TestFindPathOffGrid(t *testing.T) {
	g := emptyGrid(t, 3, 3)
	tests := []struct {
		name        string
		start, goal Cell
	}{
		{"start left", Cell{-1, 0}, Cell{2, 2}},
		{"start below", Cell{0, 3}, Cell{2, 2}},
		{"goal right", Cell{0, 0}, Cell{3, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FindPath(context.Background(), g, tt.start, tt.goal)
			if !errors.Is(err, ErrOffGrid) {
				t.Errorf("expected ErrOffGrid, got %v", err)
			}
		})
	}
}

func TestFindPathCancelled(t *testing.T) {
	g := emptyGrid(t, 10, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindPath(ctx, g, Cell{0, 0}, Cell{9, 9})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFindPathBlockedStartStillExpands(t *testing.T) {
	g := mustGrid(t, [][]int{{5, 0, 0}})

	res, err := FindPath(context.Background(), g, Cell{0, 0}, Cell{2, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Cell{{0, 0}, {1, 0}, {2, 0}}
	if !res.Found || !reflect.DeepEqual(res.Path, want) {
		t.Errorf("expected %v, got found=%v path=%v", want, res.Found, res.Path)
	}
}

func TestFindPathBlockedGoal(t *testing.T) {
	g := mustGrid(t, [][]int{{0, 0, 5}})

	res, err := FindPath(context.Background(), g, Cell{0, 0}, Cell{2, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Found {
		t.Errorf("expected no path to an obstacle goal, got %v", res.Path)
	}
}

func TestSearchStepByStep(t *testing.T) {
	g := emptyGrid(t, 3, 3)
	s, err := NewSearch(g, Cell{0, 0}, Cell{2, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	steps := 0
	for !s.Step() {
		steps++
		if steps > 100 {
			t.Fatal("search did not terminate")
		}
	}
	if !s.Done() {
		t.Error("expected Done after final step")
	}
	if steps != 8 {
		t.Errorf("expected 8 non-final steps, got %d", steps)
	}
	if !s.Step() {
		t.Error("Step after completion should keep reporting done")
	}
	if got := len(s.Result().Path); got != 5 {
		t.Errorf("expected 5-cell path, got %d", got)
	}
}

type scanNode struct {
	cell   Cell
	g, h   float64
	parent int
}

// linearScanSearch is a direct A*: the open list is scanned for the lowest
// f, the earliest entry winning ties, and an improved open node has its g
// and parent rewritten where it stands. relaxed counts those rewrites.
func linearScanSearch(g *Grid, start, goal Cell) (res Result, relaxed int) {
	nodes := []scanNode{{cell: start, h: Euclidean(start, goal), parent: -1}}
	index := map[Cell]int{start: 0}
	closed := map[Cell]bool{}
	open := []int{0}

	for len(open) > 0 {
		best := 0
		for i := 1; i < len(open); i++ {
			a, b := nodes[open[i]], nodes[open[best]]
			if a.g+a.h < b.g+b.h {
				best = i
			}
		}
		cur := open[best]
		open = append(open[:best], open[best+1:]...)
		n := nodes[cur]

		if n.cell == goal {
			var path []Cell
			for i := cur; i != -1; i = nodes[i].parent {
				path = append([]Cell{nodes[i].cell}, path...)
			}
			return Result{Path: path, Found: true, Cost: n.g, Expanded: res.Expanded}, relaxed
		}

		closed[n.cell] = true
		res.Expanded++

		for _, d := range []Cell{{0, 1}, {0, -1}, {-1, 0}, {1, 0}} {
			next := Cell{X: n.cell.X + d.X, Y: n.cell.Y + d.Y}
			if !g.OnGrid(next.X, next.Y) || g.IsObstacle(next.X, next.Y) || closed[next] {
				continue
			}
			tentative := n.g + 1
			if i, ok := index[next]; ok {
				if tentative < nodes[i].g {
					nodes[i].g = tentative
					nodes[i].parent = cur
					relaxed++
				}
				continue
			}
			index[next] = len(nodes)
			nodes = append(nodes, scanNode{cell: next, g: tentative, h: Euclidean(next, goal), parent: cur})
			open = append(open, len(nodes)-1)
		}
	}
	return res, relaxed
}

func TestFindPathMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	relaxedTrials := 0

	for trial := 0; trial < 3000; trial++ {
		w, h := 3+rng.Intn(14), 3+rng.Intn(14)
		g := emptyGrid(t, w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if rng.Float64() < 0.3 {
					g.SetObstacle(x, y)
				}
			}
		}
		start := Cell{rng.Intn(w), rng.Intn(h)}
		goal := Cell{rng.Intn(w), rng.Intn(h)}
		if start == goal {
			continue
		}
		g.SetState(start.X, start.Y, Free)
		g.SetState(goal.X, goal.Y, Free)

		want, relaxed := linearScanSearch(g, start, goal)
		if relaxed > 0 {
			relaxedTrials++
		}

		got, err := FindPath(context.Background(), g, start, goal)
		if err != nil {
			t.Fatalf("trial %d: unexpected error: %v", trial, err)
		}
		if got.Found != want.Found || got.Cost != want.Cost || got.Expanded != want.Expanded {
			t.Errorf("trial %d (%dx%d %v->%v): got found=%v cost=%v expanded=%d, want found=%v cost=%v expanded=%d",
				trial, w, h, start, goal, got.Found, got.Cost, got.Expanded, want.Found, want.Cost, want.Expanded)
			continue
		}
		if !reflect.DeepEqual(got.Path, want.Path) {
			t.Errorf("trial %d (%dx%d %v->%v, %d relaxations): path %v, want %v",
				trial, w, h, start, goal, relaxed, got.Path, want.Path)
		}
	}

	if relaxedTrials == 0 {
		t.Error("no sampled grid improved an open node; the comparison does not cover relaxation")
	}
}
