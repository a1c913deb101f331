package pathfind

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
)

// ErrOffGrid is returned when the start or goal lies outside the grid.
var ErrOffGrid = errors.New("cell is off the grid")

// moveCost is the cost of one orthogonal step
const moveCost = 1.0

// directions lists neighbor offsets in discovery order: down, up, left, right.
// The order decides which of several equal-cost paths wins and must not change.
var directions = [4]Cell{
	{X: 0, Y: 1},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
}

// Result is the outcome of a search. Found is false when no route exists;
// that is a valid answer, not an error.
type Result struct {
	Path     []Cell  `json:"path"`
	Found    bool    `json:"found"`
	Cost     float64 `json:"cost"`
	Expanded int     `json:"expanded"`
}

// Options defines parameters for a search.
type Options struct {
	Heuristic Heuristic
	Observers []Observer
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithHeuristic replaces the default Euclidean heuristic.
func WithHeuristic(h Heuristic) Option {
	return func(o *Options) { o.Heuristic = h }
}

// WithObserver registers an observer for expansion and path events.
func WithObserver(ob Observer) Option {
	return func(o *Options) { o.Observers = append(o.Observers, ob) }
}

// Search is a single A* run that can be advanced one expansion at a time.
// It owns its open and closed sets; it must not be shared across goroutines.
type Search struct {
	view      GridView
	start     Cell
	goal      Cell
	heuristic Heuristic
	observer  observers

	arena   []*node
	byCell  map[Cell]int // arena index of the node at a position
	open    openQueue
	nextSeq int

	expanded int
	done     bool
	result   Result
}

// NewSearch validates the endpoints and seeds the open set with the start node.
func NewSearch(view GridView, start, goal Cell, options ...Option) (*Search, error) {
	if !view.OnGrid(start.X, start.Y) {
		return nil, fmt.Errorf("start %s: %w", start, ErrOffGrid)
	}
	if !view.OnGrid(goal.X, goal.Y) {
		return nil, fmt.Errorf("goal %s: %w", goal, ErrOffGrid)
	}

	opts := Options{Heuristic: Euclidean}
	for _, option := range options {
		option(&opts)
	}

	s := &Search{
		view:      view,
		start:     start,
		goal:      goal,
		heuristic: opts.Heuristic,
		observer:  observers(opts.Observers),
		byCell:    make(map[Cell]int),
	}
	heap.Init(&s.open)
	s.discover(start, 0, -1)
	return s, nil
}

// discover creates a node, assigns the next sequence number and queues it
func (s *Search) discover(c Cell, g float64, parent int) {
	n := &node{
		cell:   c,
		g:      g,
		h:      s.heuristic(c, s.goal),
		parent: parent,
		seq:    s.nextSeq,
	}
	s.nextSeq++
	s.byCell[c] = len(s.arena)
	s.arena = append(s.arena, n)
	heap.Push(&s.open, n)
}

// Done reports whether the search has finished
func (s *Search) Done() bool {
	return s.done
}

// Result returns the outcome once Done is true
func (s *Search) Result() Result {
	return s.result
}

// Step expands the lowest-priority open node and reports whether the search has finished.
func (s *Search) Step() bool {
	if s.done {
		return true
	}
	if s.open.Len() == 0 {
		s.finish(Result{Expanded: s.expanded})
		return true
	}

	current := heap.Pop(&s.open).(*node)
	currentIdx := s.byCell[current.cell]

	if current.cell == s.goal {
		path := s.reconstruct(currentIdx)
		s.finish(Result{Path: path, Found: true, Cost: current.g, Expanded: s.expanded})
		for _, c := range path {
			s.observer.MarkOnPath(c)
		}
		return true
	}

	current.closed = true
	s.expanded++
	s.observer.MarkExpanded(current.cell)

	for _, d := range directions {
		next := Cell{X: current.cell.X + d.X, Y: current.cell.Y + d.Y}
		if !s.view.OnGrid(next.X, next.Y) || s.view.IsObstacle(next.X, next.Y) {
			continue
		}

		tentativeG := current.g + moveCost

		idx, exists := s.byCell[next]
		if !exists {
			s.discover(next, tentativeG, currentIdx)
			continue
		}

		neighbor := s.arena[idx]
		// Closed nodes are never reopened.
		if neighbor.closed {
			continue
		}
		if tentativeG < neighbor.g {
			neighbor.g = tentativeG
			neighbor.parent = currentIdx
			heap.Fix(&s.open, neighbor.index)
		}
	}
	return false
}

func (s *Search) finish(r Result) {
	s.result = r
	s.done = true
	s.open = nil
}

// reconstruct walks parent indices back to the start and returns the path start→goal
func (s *Search) reconstruct(idx int) []Cell {
	var path []Cell
	for i := idx; i != -1; i = s.arena[i].parent {
		path = append(path, s.arena[i].cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FindPath runs A* from start to goal on view. A missing route is reported
// through Result.Found, not as an error. Cancellation is checked between expansions.
func FindPath(ctx context.Context, view GridView, start, goal Cell, options ...Option) (Result, error) {
	s, err := NewSearch(view, start, goal, options...)
	if err != nil {
		return Result{}, err
	}
	for !s.Step() {
		if err := ctx.Err(); err != nil {
			return Result{Expanded: s.expanded}, err
		}
	}
	return s.Result(), nil
}
