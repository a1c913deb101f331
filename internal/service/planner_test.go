package service

import (
	"context"
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"grid-planner/pathfind"
	"grid-planner/zones"
)

func newTestPlanner(t *testing.T) *Planner {
	t.Helper()
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return NewPlanner(l, Options{Workers: 2, MaxCells: 10000})
}

func openGrid(t *testing.T, w, h int) *pathfind.Grid {
	t.Helper()
	g, err := pathfind.NewGrid(w, h)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestRegisterAndGet(t *testing.T) {
	p := newTestPlanner(t)
	g := openGrid(t, 3, 3)

	id, err := p.Register(g)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty ID")
	}

	// later edits to the caller's grid must not leak into the registry
	g.SetObstacle(1, 1)

	stored, err := p.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.IsObstacle(1, 1) {
		t.Error("registry shares memory with the caller's grid")
	}
	if p.Count() != 1 {
		t.Errorf("expected 1 grid, got %d", p.Count())
	}
}

func TestGetUnknown(t *testing.T) {
	p := newTestPlanner(t)
	if _, err := p.Get("missing"); !errors.Is(err, ErrGridNotFound) {
		t.Errorf("expected ErrGridNotFound, got %v", err)
	}
	if _, err := p.Route(context.Background(), "missing", pathfind.Cell{}, pathfind.Cell{}); !errors.Is(err, ErrGridNotFound) {
		t.Errorf("expected ErrGridNotFound from Route, got %v", err)
	}
}

func TestPutRejectsLargeGrid(t *testing.T) {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	p := NewPlanner(l, Options{Workers: 1, MaxCells: 8})

	if err := p.Put("big", openGrid(t, 3, 3)); !errors.Is(err, ErrGridTooLarge) {
		t.Errorf("expected ErrGridTooLarge, got %v", err)
	}
}

func TestRoute(t *testing.T) {
	p := newTestPlanner(t)
	if err := p.Put("default", openGrid(t, 3, 3)); err != nil {
		t.Fatal(err)
	}

	res, err := p.Route(context.Background(), "default", pathfind.Cell{X: 0, Y: 0}, pathfind.Cell{X: 2, Y: 2})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if !res.Found || res.Cost != 4 || len(res.Path) != 5 {
		t.Errorf("unexpected result: %+v", res)
	}

	_, err = p.Route(context.Background(), "default", pathfind.Cell{X: -1, Y: 0}, pathfind.Cell{X: 2, Y: 2})
	if !errors.Is(err, pathfind.ErrOffGrid) {
		t.Errorf("expected ErrOffGrid, got %v", err)
	}
}

func TestRoutePaintedLeavesStoredGridClean(t *testing.T) {
	p := newTestPlanner(t)
	if err := p.Put("default", openGrid(t, 3, 3)); err != nil {
		t.Fatal(err)
	}

	painted, res, err := p.RoutePainted(context.Background(), "default", pathfind.Cell{X: 0, Y: 0}, pathfind.Cell{X: 2, Y: 2})
	if err != nil {
		t.Fatalf("RoutePainted: %v", err)
	}
	if !res.Found {
		t.Fatal("expected path")
	}
	if painted.State(0, 0) != pathfind.Start || painted.State(2, 2) != pathfind.Goal {
		t.Error("endpoints not marked")
	}
	if got := painted.Count(pathfind.Path); got != 3 {
		t.Errorf("expected 3 path cells between endpoints, got %d", got)
	}

	stored, _ := p.Get("default")
	if stored.Count(pathfind.Free) != 9 {
		t.Error("stored grid was painted")
	}
}

func TestApplyZones(t *testing.T) {
	p := newTestPlanner(t)
	if err := p.Put("default", openGrid(t, 3, 3)); err != nil {
		t.Fatal(err)
	}

	wall := zones.Zone{Name: "wall", Polygon: orb.Polygon{orb.Ring{
		{0, 1}, {3, 1}, {3, 2}, {0, 2}, {0, 1},
	}}}
	changed, err := p.ApplyZones("default", []zones.Zone{wall})
	if err != nil {
		t.Fatalf("ApplyZones: %v", err)
	}
	if changed != 3 {
		t.Errorf("expected 3 blocked cells, got %d", changed)
	}

	res, err := p.Route(context.Background(), "default", pathfind.Cell{X: 0, Y: 0}, pathfind.Cell{X: 2, Y: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Found {
		t.Error("expected the zone to cut the grid in two")
	}

	if _, err := p.ApplyZones("missing", nil); !errors.Is(err, ErrGridNotFound) {
		t.Errorf("expected ErrGridNotFound, got %v", err)
	}
}

func TestRouteBatch(t *testing.T) {
	p := newTestPlanner(t)
	if err := p.Put("default", openGrid(t, 4, 4)); err != nil {
		t.Fatal(err)
	}

	queries := []pathfind.Query{
		{Start: pathfind.Cell{X: 0, Y: 0}, Goal: pathfind.Cell{X: 3, Y: 3}},
		{Start: pathfind.Cell{X: 3, Y: 0}, Goal: pathfind.Cell{X: 0, Y: 3}},
		{Start: pathfind.Cell{X: 1, Y: 1}, Goal: pathfind.Cell{X: 1, Y: 1}},
	}
	results, err := p.RouteBatch(context.Background(), "default", queries)
	if err != nil {
		t.Fatalf("RouteBatch: %v", err)
	}
	want := []float64{6, 6, 0}
	for i, r := range results {
		if !r.Found || r.Cost != want[i] {
			t.Errorf("query %d: expected cost %v, got %+v", i, want[i], r)
		}
	}
}
