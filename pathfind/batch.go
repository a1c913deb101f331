package pathfind

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Query is one start/goal pair for FindPaths
type Query struct {
	Start Cell `json:"start"`
	Goal  Cell `json:"goal"`
}

// FindPaths runs independent searches concurrently against a read-only view and
// returns results in query order. workers <= 0 uses runtime.NumCPU().
// The view must not be mutated while FindPaths runs.
func FindPaths(ctx context.Context, view GridView, queries []Query, workers int, options ...Option) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(queries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			r, err := FindPath(ctx, view, q.Start, q.Goal, options...)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
