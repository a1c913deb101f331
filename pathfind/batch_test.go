package pathfind

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestFindPathsMatchesSequential(t *testing.T) {
	g := mustGrid(t, [][]int{
		{0, 0, 0, 0, 0},
		{0, 5, 5, 5, 0},
		{0, 0, 0, 5, 0},
		{5, 5, 0, 5, 0},
		{0, 0, 0, 0, 0},
	})
	queries := []Query{
		{Start: Cell{0, 0}, Goal: Cell{4, 4}},
		{Start: Cell{2, 2}, Goal: Cell{0, 4}},
		{Start: Cell{4, 0}, Goal: Cell{4, 0}},
		{Start: Cell{0, 2}, Goal: Cell{2, 4}},
	}

	got, err := FindPaths(context.Background(), g, queries, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(queries) {
		t.Fatalf("expected %d results, got %d", len(queries), len(got))
	}
	for i, q := range queries {
		want, err := FindPath(context.Background(), g, q.Start, q.Goal)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(want, got[i]) {
			t.Errorf("query %d: expected %+v, got %+v", i, want, got[i])
		}
	}
}

func TestFindPathsPropagatesOffGrid(t *testing.T) {
	g := emptyGrid(t, 3, 3)
	queries := []Query{
		{Start: Cell{0, 0}, Goal: Cell{2, 2}},
		{Start: Cell{0, 0}, Goal: Cell{9, 9}},
	}
	_, err := FindPaths(context.Background(), g, queries, 0)
	if !errors.Is(err, ErrOffGrid) {
		t.Errorf("expected ErrOffGrid, got %v", err)
	}
}
