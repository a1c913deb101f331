// Package tui animates a search in the terminal.
package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"grid-planner/pathfind"
)

// cellWidth is the number of terminal columns per grid cell, so cells look square
const cellWidth = 2

var (
	colorFree     = tcell.NewRGBColor(255, 240, 245)
	colorObstacle = tcell.NewRGBColor(255, 105, 180)
	colorPath     = tcell.NewRGBColor(199, 21, 133)
	colorStart    = tcell.NewRGBColor(255, 20, 147)
	colorGoal     = tcell.NewRGBColor(219, 112, 147)
	colorVisited  = tcell.NewRGBColor(255, 192, 203)
)

// StyleFor returns the style a cell state is drawn with
func StyleFor(s pathfind.CellState) tcell.Style {
	bg := colorFree
	switch s {
	case pathfind.Obstacle:
		bg = colorObstacle
	case pathfind.Path:
		bg = colorPath
	case pathfind.Start:
		bg = colorStart
	case pathfind.Goal:
		bg = colorGoal
	case pathfind.Visited:
		bg = colorVisited
	}
	return tcell.StyleDefault.Background(bg).Foreground(tcell.ColorBlack)
}

// Animator paints search progress onto a tcell screen. It implements
// pathfind.Observer: every expansion and every path cell is drawn and
// followed by a pause of delay. Esc, Ctrl-C or q stop a running animation.
type Animator struct {
	screen tcell.Screen
	grid   *pathfind.Grid
	delay  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan tcell.Event
	listen sync.Once
}

// New creates an Animator that draws grid on screen. The grid is painted as
// the search progresses.
func New(screen tcell.Screen, grid *pathfind.Grid, delay time.Duration) *Animator {
	return &Animator{
		screen: screen,
		grid:   grid,
		delay:  delay,
		ctx:    context.Background(),
		cancel: func() {},
		events: make(chan tcell.Event, 16),
	}
}

// poll starts forwarding screen events to a.events. The goroutine ends when
// the screen is finalized; events arriving while the buffer is full are dropped.
func (a *Animator) poll() {
	a.listen.Do(func() {
		go func() {
			for {
				ev := a.screen.PollEvent()
				if ev == nil {
					close(a.events)
					return
				}
				select {
				case a.events <- ev:
				default:
				}
			}
		}()
	})
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

func (a *Animator) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			a.cancel()
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
}

// pause waits out the frame delay while handling input. It returns early
// once the animation is cancelled.
func (a *Animator) pause() {
	if a.delay <= 0 {
		for {
			select {
			case ev, ok := <-a.events:
				if !ok {
					return
				}
				a.handle(ev)
			default:
				return
			}
		}
	}

	timer := time.NewTimer(a.delay)
	defer timer.Stop()
	events := a.events
	for {
		select {
		case <-timer.C:
			return
		case <-a.ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			a.handle(ev)
		}
	}
}

func (a *Animator) drawCell(x, y int) {
	style := StyleFor(a.grid.State(x, y))
	for i := 0; i < cellWidth; i++ {
		a.screen.SetContent(x*cellWidth+i, y, ' ', nil, style)
	}
}

// Draw repaints the whole grid
func (a *Animator) Draw() {
	a.screen.Clear()
	for y := 0; y < a.grid.Height(); y++ {
		for x := 0; x < a.grid.Width(); x++ {
			a.drawCell(x, y)
		}
	}
	a.screen.Show()
}

func (a *Animator) frame(c pathfind.Cell) {
	a.drawCell(c.X, c.Y)
	a.screen.Show()
	a.pause()
}

func (a *Animator) MarkExpanded(c pathfind.Cell) {
	a.grid.MarkVisited(c.X, c.Y)
	a.frame(c)
}

func (a *Animator) MarkOnPath(c pathfind.Cell) {
	a.grid.MarkPath(c.X, c.Y)
	a.frame(c)
}

// Status writes msg on the line below the grid
func (a *Animator) Status(msg string) {
	y := a.grid.Height()
	w, _ := a.screen.Size()
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
	}
	for i, r := range []rune(msg) {
		a.screen.SetContent(i, y, r, nil, tcell.StyleDefault)
	}
	a.screen.Show()
}

// Run marks the endpoints, animates a search from start to goal and writes
// the outcome on the status line. A quit key cancels the search and Run
// returns context.Canceled.
func (a *Animator) Run(ctx context.Context, start, goal pathfind.Cell, opts ...pathfind.Option) (pathfind.Result, error) {
	if !a.grid.OnGrid(start.X, start.Y) || !a.grid.OnGrid(goal.X, goal.Y) {
		return pathfind.Result{}, fmt.Errorf("animate %s -> %s: %w", start, goal, pathfind.ErrOffGrid)
	}

	a.ctx, a.cancel = context.WithCancel(ctx)
	defer func() {
		a.cancel()
		a.ctx, a.cancel = context.Background(), func() {}
	}()
	a.poll()
	a.grid.MarkStart(start)
	a.grid.MarkGoal(goal)
	a.Draw()

	res, err := pathfind.FindPath(a.ctx, a.grid, start, goal, append(opts, pathfind.WithObserver(a))...)
	if err != nil {
		return res, err
	}

	if res.Found {
		a.Status(fmt.Sprintf("path found: %d cells, cost %g, expanded %d. press any key", len(res.Path), res.Cost, res.Expanded))
	} else {
		a.Status(fmt.Sprintf("no path found, expanded %d. press any key", res.Expanded))
	}
	return res, nil
}

// WaitForKey blocks until a key is pressed or ctx is done.
func (a *Animator) WaitForKey(ctx context.Context) {
	a.poll()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-a.events:
			if !ok {
				return
			}
			switch ev.(type) {
			case *tcell.EventKey:
				return
			case *tcell.EventResize:
				a.screen.Sync()
			}
		}
	}
}
