package pathfind

import (
	"errors"
	"fmt"
)

// CellState is the occupancy marker of one grid cell.
// Values match the numeric codes used in grid files.
type CellState int

const (
	Free     CellState = 0
	Path     CellState = 2
	Start    CellState = 3
	Goal     CellState = 4
	Obstacle CellState = 5
	Visited  CellState = 6
)

var (
	// ErrInvalidDimensions is returned when a grid would have no cells or ragged rows.
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	// ErrUnknownCellState is returned when a numeric code is not a known CellState.
	ErrUnknownCellState = errors.New("unknown cell state")
)

// ParseCellState converts a numeric map code into a CellState
func ParseCellState(code int) (CellState, error) {
	switch s := CellState(code); s {
	case Free, Path, Start, Goal, Obstacle, Visited:
		return s, nil
	}
	return Free, fmt.Errorf("%w: %d", ErrUnknownCellState, code)
}

func (s CellState) String() string {
	switch s {
	case Free:
		return "free"
	case Path:
		return "path"
	case Start:
		return "start"
	case Goal:
		return "goal"
	case Obstacle:
		return "obstacle"
	case Visited:
		return "visited"
	}
	return fmt.Sprintf("CellState(%d)", int(s))
}

// Cell is a discrete grid coordinate
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// GridView is the read-only occupancy view the search engine needs.
// IsObstacle is only called for coordinates where OnGrid is true.
type GridView interface {
	OnGrid(x, y int) bool
	IsObstacle(x, y int) bool
}

// Grid is a fixed W×H occupancy map stored row-major.
type Grid struct {
	width, height int
	cells         []CellState
}

// NewGrid creates a grid with every cell Free
func NewGrid(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]CellState, width*height),
	}, nil
}

// GridFromRows builds a grid from rectangular rows of numeric cell codes (rows[y][x]).
func GridFromRows(rows [][]int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty rows", ErrInvalidDimensions)
	}
	g, err := NewGrid(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidDimensions, y, len(row), g.width)
		}
		for x, code := range row {
			s, err := ParseCellState(code)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", x, y, err)
			}
			g.cells[y*g.width+x] = s
		}
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// OnGrid reports whether (x, y) lies inside the grid
func (g *Grid) OnGrid(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// IsObstacle reports whether the cell is blocked. (x, y) must be on the grid.
func (g *Grid) IsObstacle(x, y int) bool {
	return g.cells[y*g.width+x] == Obstacle
}

// State returns the state of an on-grid cell
func (g *Grid) State(x, y int) CellState {
	return g.cells[y*g.width+x]
}

// SetState overwrites the state of an on-grid cell unconditionally
func (g *Grid) SetState(x, y int, s CellState) {
	g.cells[y*g.width+x] = s
}

func (g *Grid) SetObstacle(x, y int) {
	g.SetState(x, y, Obstacle)
}

// MarkStart sets c to Start, replacing whatever state it held, obstacles included
func (g *Grid) MarkStart(c Cell) {
	g.SetState(c.X, c.Y, Start)
}

// MarkGoal sets c to Goal, replacing whatever state it held
func (g *Grid) MarkGoal(c Cell) {
	g.SetState(c.X, c.Y, Goal)
}

// MarkVisited overlays Visited unless the cell is Start or Goal
func (g *Grid) MarkVisited(x, y int) {
	g.overlay(x, y, Visited)
}

// MarkPath overlays Path unless the cell is Start or Goal
func (g *Grid) MarkPath(x, y int) {
	g.overlay(x, y, Path)
}

func (g *Grid) overlay(x, y int, s CellState) {
	i := y*g.width + x
	switch g.cells[i] {
	case Start, Goal:
		return
	case Obstacle:
		// The overlay never changes obstacle classification.
		return
	}
	g.cells[i] = s
}

// ClearOverlay resets Visited and Path cells back to Free
func (g *Grid) ClearOverlay() {
	for i, s := range g.cells {
		if s == Visited || s == Path {
			g.cells[i] = Free
		}
	}
}

// Clone returns an independent copy of the grid
func (g *Grid) Clone() *Grid {
	cells := make([]CellState, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, cells: cells}
}

// Rows returns the numeric cell codes as rows[y][x]
func (g *Grid) Rows() [][]int {
	rows := make([][]int, g.height)
	for y := range rows {
		rows[y] = make([]int, g.width)
		for x := range rows[y] {
			rows[y][x] = int(g.cells[y*g.width+x])
		}
	}
	return rows
}

// Count returns how many cells currently hold state s
func (g *Grid) Count(s CellState) int {
	n := 0
	for _, c := range g.cells {
		if c == s {
			n++
		}
	}
	return n
}
