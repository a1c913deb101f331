package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"grid-planner/gridfile"
	"grid-planner/internal/config"
	"grid-planner/internal/service"
	"grid-planner/pathfind"
	"grid-planner/zones"
)

// gridFlags are the grid and endpoint flags shared by solve and view.
type gridFlags struct {
	path      string
	width     int
	height    int
	zones     string
	simplify  float64
	start     string
	goal      string
	heuristic string
}

func (f *gridFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "grid", "", "Grid file (env: GRID_FILE)")
	cmd.Flags().IntVar(&f.width, "width", 0, "Grid width; 0 infers it from the file layout")
	cmd.Flags().IntVar(&f.height, "height", 0, "Grid height; 0 infers it from the file layout")
	cmd.Flags().StringVar(&f.zones, "zones", "", "GeoJSON obstacle zones (env: ZONES_FILE)")
	cmd.Flags().Float64Var(&f.simplify, "simplify", 0, "Zone simplification tolerance in cells (env: ZONE_SIMPLIFY)")
	cmd.Flags().StringVar(&f.start, "start", "0,0", "Start cell as x,y")
	cmd.Flags().StringVar(&f.goal, "goal", "", "Goal cell as x,y (default: bottom-right corner)")
	cmd.Flags().StringVar(&f.heuristic, "heuristic", "euclidean", "Heuristic: euclidean|manhattan")
}

// parseCell reads a cell written as "x,y".
func parseCell(s string) (pathfind.Cell, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return pathfind.Cell{}, fmt.Errorf("invalid cell %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return pathfind.Cell{}, fmt.Errorf("invalid cell %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return pathfind.Cell{}, fmt.Errorf("invalid cell %q: %w", s, err)
	}
	return pathfind.Cell{X: x, Y: y}, nil
}

func parseHeuristic(name string) (pathfind.Heuristic, error) {
	switch strings.ToLower(name) {
	case "", "euclidean":
		return pathfind.Euclidean, nil
	case "manhattan":
		return pathfind.Manhattan, nil
	default:
		return nil, fmt.Errorf("unknown heuristic %q", name)
	}
}

// loadGrid reads a grid file, inferring its size unless both dimensions are set.
func loadGrid(path string, width, height int) (*pathfind.Grid, error) {
	if width > 0 && height > 0 {
		return gridfile.ReadFile(path, width, height)
	}
	return gridfile.ReadFileRows(path)
}

// gridSize picks the --width/--height pair, or the configured one when both
// flags are unset, and checks it against the cell limit.
func (f *gridFlags) gridSize(c *config.Config) (int, int, error) {
	width, height := f.width, f.height
	switch {
	case width < 0 || height < 0:
		return 0, 0, fmt.Errorf("--width and --height must not be negative")
	case (width == 0) != (height == 0):
		return 0, 0, fmt.Errorf("--width and --height must be set together")
	case width == 0:
		width, height = c.GridWidth, c.GridHeight
	}
	if width > 0 && width > c.MaxGridCells/height {
		return 0, 0, fmt.Errorf("%w: %dx%d exceeds %d cells", service.ErrGridTooLarge, width, height, c.MaxGridCells)
	}
	return width, height, nil
}

// applyZones blocks every cell covered by the zones at path, a file or a
// directory of *.geojson files, and returns the zones it used.
func applyZones(g *pathfind.Grid, path string, epsilon float64, log logrus.FieldLogger) ([]zones.Zone, int, error) {
	zs, err := zones.LoadPath(path, log)
	if err != nil {
		return nil, 0, err
	}
	zs = zones.RemoveContained(zones.Simplify(zs, epsilon))
	return zs, zones.Rasterize(g, zones.NewIndex(zs)), nil
}

// problem is a loaded grid with validated endpoints.
type problem struct {
	grid        *pathfind.Grid
	start, goal pathfind.Cell
	heuristic   pathfind.Heuristic
	zones       []zones.Zone
}

func (f *gridFlags) load(c *config.Config, log logrus.FieldLogger) (*problem, error) {
	gridFile, zonesFile, epsilon := c.GridFile, c.ZonesFile, c.ZoneSimplify
	if f.path != "" {
		gridFile = f.path
	}
	if f.zones != "" {
		zonesFile = f.zones
	}
	if f.simplify > 0 {
		epsilon = f.simplify
	}
	if gridFile == "" {
		return nil, fmt.Errorf("no grid file: pass --grid or set GRID_FILE")
	}

	width, height, err := f.gridSize(c)
	if err != nil {
		return nil, err
	}
	g, err := loadGrid(gridFile, width, height)
	if err != nil {
		return nil, err
	}
	if cells := g.Width() * g.Height(); cells > c.MaxGridCells {
		return nil, fmt.Errorf("%w: %d cells, limit %d", service.ErrGridTooLarge, cells, c.MaxGridCells)
	}
	// A previously painted map is solved afresh.
	g.ClearOverlay()

	var zs []zones.Zone
	if zonesFile != "" {
		var blocked int
		zs, blocked, err = applyZones(g, zonesFile, epsilon, log)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"zones_file": zonesFile, "blocked": blocked}).Info("zones applied")
	}

	start, err := parseCell(f.start)
	if err != nil {
		return nil, err
	}
	goal := pathfind.Cell{X: g.Width() - 1, Y: g.Height() - 1}
	if f.goal != "" {
		if goal, err = parseCell(f.goal); err != nil {
			return nil, err
		}
	}
	for _, c := range []pathfind.Cell{start, goal} {
		if !g.OnGrid(c.X, c.Y) {
			return nil, fmt.Errorf("cell %s outside %dx%d grid: %w", c, g.Width(), g.Height(), pathfind.ErrOffGrid)
		}
	}

	h, err := parseHeuristic(f.heuristic)
	if err != nil {
		return nil, err
	}

	return &problem{grid: g, start: start, goal: goal, heuristic: h, zones: zs}, nil
}
