// Package service holds the grid registry and route solving used by the API and CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"grid-planner/internal/metrics"
	"grid-planner/pathfind"
	"grid-planner/zones"
)

var (
	// ErrGridNotFound is returned for an unknown grid ID.
	ErrGridNotFound = errors.New("grid not found")
	// ErrGridTooLarge is returned when a grid exceeds the configured cell limit.
	ErrGridTooLarge = errors.New("grid too large")
)

// Planner keeps named grids and answers route queries against them.
// Stored grids are never mutated; updates replace them, so a search can read
// a grid without holding the lock.
type Planner struct {
	log    *logrus.Logger
	tracer trace.Tracer
	opts   Options

	mu    sync.RWMutex
	grids map[string]*pathfind.Grid
}

// Options tunes a Planner.
type Options struct {
	// Workers bounds batch concurrency.
	Workers int
	// MaxCells rejects grids with more cells.
	MaxCells int
	// ZoneSimplify is the Douglas-Peucker tolerance, in cells, applied to
	// zones before rasterizing. Zero disables it.
	ZoneSimplify float64
}

// NewPlanner creates an empty planner
func NewPlanner(log *logrus.Logger, opts Options) *Planner {
	return &Planner{
		log:    log,
		tracer: otel.Tracer("grid-planner/service"),
		opts:   opts,
		grids:  make(map[string]*pathfind.Grid),
	}
}

func (p *Planner) checkSize(g *pathfind.Grid) error {
	if cells := g.Width() * g.Height(); cells > p.opts.MaxCells {
		return fmt.Errorf("%w: %d cells, limit %d", ErrGridTooLarge, cells, p.opts.MaxCells)
	}
	return nil
}

// Register stores a copy of g under a new ID
func (p *Planner) Register(g *pathfind.Grid) (string, error) {
	id := uuid.New().String()
	if err := p.Put(id, g); err != nil {
		return "", err
	}
	return id, nil
}

// Put stores a copy of g under id, replacing any previous grid
func (p *Planner) Put(id string, g *pathfind.Grid) error {
	if err := p.checkSize(g); err != nil {
		return err
	}

	p.mu.Lock()
	p.grids[id] = g.Clone()
	count := len(p.grids)
	p.mu.Unlock()

	metrics.GridsRegistered.Set(float64(count))
	p.log.WithFields(logrus.Fields{
		"grid_id": id,
		"width":   g.Width(),
		"height":  g.Height(),
	}).Info("grid stored")
	return nil
}

// Get returns a copy of the grid stored under id
func (p *Planner) Get(id string) (*pathfind.Grid, error) {
	g, err := p.lookup(id)
	if err != nil {
		return nil, err
	}
	return g.Clone(), nil
}

func (p *Planner) lookup(id string) (*pathfind.Grid, error) {
	p.mu.RLock()
	g, ok := p.grids[id]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGridNotFound, id)
	}
	return g, nil
}

// Count returns the number of stored grids
func (p *Planner) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.grids)
}

// ApplyZones rasterizes zones onto the grid stored under id and returns
// how many cells became obstacles.
func (p *Planner) ApplyZones(id string, zs []zones.Zone) (int, error) {
	zs = zones.RemoveContained(zones.Simplify(zs, p.opts.ZoneSimplify))
	ix := zones.NewIndex(zs)

	p.mu.Lock()
	defer p.mu.Unlock()

	g, ok := p.grids[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrGridNotFound, id)
	}
	updated := g.Clone()
	changed := zones.Rasterize(updated, ix)
	p.grids[id] = updated

	p.log.WithFields(logrus.Fields{
		"grid_id":  id,
		"zones":    ix.Len(),
		"vertices": zones.VertexCount(zs),
		"blocked":  changed,
	}).Info("zones applied")
	return changed, nil
}

// Route finds a path on the grid stored under id
func (p *Planner) Route(ctx context.Context, id string, start, goal pathfind.Cell) (pathfind.Result, error) {
	g, err := p.lookup(id)
	if err != nil {
		return pathfind.Result{}, err
	}
	return p.search(ctx, id, g, start, goal)
}

// RoutePainted finds a path and returns a copy of the grid with Start, Goal,
// Visited and Path markers drawn on it.
func (p *Planner) RoutePainted(ctx context.Context, id string, start, goal pathfind.Cell) (*pathfind.Grid, pathfind.Result, error) {
	g, err := p.Get(id)
	if err != nil {
		return nil, pathfind.Result{}, err
	}
	if !g.OnGrid(start.X, start.Y) || !g.OnGrid(goal.X, goal.Y) {
		return nil, pathfind.Result{}, fmt.Errorf("route %s -> %s: %w", start, goal, pathfind.ErrOffGrid)
	}
	g.MarkStart(start)
	g.MarkGoal(goal)

	res, err := p.search(ctx, id, g, start, goal, pathfind.WithObserver(pathfind.GridPainter{Grid: g}))
	if err != nil {
		return nil, pathfind.Result{}, err
	}
	return g, res, nil
}

func (p *Planner) search(ctx context.Context, id string, g *pathfind.Grid, start, goal pathfind.Cell, opts ...pathfind.Option) (pathfind.Result, error) {
	ctx, span := p.tracer.Start(ctx, "planner.route", trace.WithAttributes(
		attribute.String("grid.id", id),
		attribute.Int("start.x", start.X),
		attribute.Int("start.y", start.Y),
		attribute.Int("goal.x", goal.X),
		attribute.Int("goal.y", goal.Y),
	))
	defer span.End()

	began := time.Now()
	res, err := pathfind.FindPath(ctx, g, start, goal, opts...)
	elapsed := time.Since(began)

	fields := logrus.Fields{
		"grid_id":  id,
		"start":    start.String(),
		"goal":     goal.String(),
		"duration": elapsed.String(),
	}

	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.log.WithFields(fields).WithError(err).Warn("route rejected")
		return pathfind.Result{}, err
	}

	outcome := "not_found"
	if res.Found {
		outcome = "found"
	}
	metrics.SearchesTotal.WithLabelValues(outcome).Inc()
	metrics.ExpandedNodes.Observe(float64(res.Expanded))
	metrics.SearchDuration.Observe(elapsed.Seconds())

	span.SetAttributes(
		attribute.String("route.outcome", outcome),
		attribute.Int("route.expanded", res.Expanded),
		attribute.Int("route.length", len(res.Path)),
	)

	fields["outcome"] = outcome
	fields["expanded"] = res.Expanded
	if res.Found {
		fields["cost"] = res.Cost
	}
	p.log.WithFields(fields).Info("route computed")
	return res, nil
}

// RouteBatch answers several queries concurrently on one grid
func (p *Planner) RouteBatch(ctx context.Context, id string, queries []pathfind.Query) ([]pathfind.Result, error) {
	g, err := p.lookup(id)
	if err != nil {
		return nil, err
	}

	ctx, span := p.tracer.Start(ctx, "planner.route_batch", trace.WithAttributes(
		attribute.String("grid.id", id),
		attribute.Int("queries", len(queries)),
	))
	defer span.End()

	results, err := pathfind.FindPaths(ctx, g, queries, p.opts.Workers)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	found := 0
	for _, r := range results {
		outcome := "not_found"
		if r.Found {
			outcome = "found"
			found++
		}
		metrics.SearchesTotal.WithLabelValues(outcome).Inc()
		metrics.ExpandedNodes.Observe(float64(r.Expanded))
	}

	p.log.WithFields(logrus.Fields{
		"grid_id": id,
		"queries": len(queries),
		"found":   found,
	}).Info("batch routed")
	return results, nil
}
