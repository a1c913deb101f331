package pathfind

// Observer receives search progress, typically to paint or animate it.
// MarkExpanded is called once per node moved to the closed set and
// MarkOnPath once per path cell, start to goal, after a path is found.
type Observer interface {
	MarkExpanded(c Cell)
	MarkOnPath(c Cell)
}

// GridPainter writes Visited and Path markers back onto a Grid.
type GridPainter struct {
	Grid *Grid
}

func (p GridPainter) MarkExpanded(c Cell) {
	p.Grid.MarkVisited(c.X, c.Y)
}

func (p GridPainter) MarkOnPath(c Cell) {
	p.Grid.MarkPath(c.X, c.Y)
}

type observers []Observer

func (o observers) MarkExpanded(c Cell) {
	for _, ob := range o {
		ob.MarkExpanded(c)
	}
}

func (o observers) MarkOnPath(c Cell) {
	for _, ob := range o {
		ob.MarkOnPath(c)
	}
}
