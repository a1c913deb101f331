// Package gridfile reads and writes the whitespace-delimited numeric grid format.
package gridfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"grid-planner/pathfind"
)

// ErrShortGrid is returned when the source holds fewer than width*height values.
var ErrShortGrid = errors.New("grid source has too few values")

// Decode reads width*height integers row-major. Values after the last cell are ignored.
func Decode(r io.Reader, width, height int) (*pathfind.Grid, error) {
	g, err := pathfind.NewGrid(width, height)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	total := width * height
	for i := 0; i < total; i++ {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("failed to read grid: %w", err)
			}
			return nil, fmt.Errorf("%w: got %d, want %d", ErrShortGrid, i, total)
		}
		x, y := i%width, i/width
		s, err := parseCell(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("cell (%d,%d): %w", x, y, err)
		}
		g.SetState(x, y, s)
	}
	return g, nil
}

// DecodeRows reads a grid whose dimensions follow from its layout:
// one row per non-blank line, every row the same length.
func DecodeRows(r io.Reader) (*pathfind.Grid, error) {
	var rows [][]int
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		row := make([]int, len(fields))
		for i, f := range fields {
			s, err := parseCell(f)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			row[i] = int(s)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}
	return pathfind.GridFromRows(rows)
}

func parseCell(token string) (pathfind.CellState, error) {
	v, err := strconv.Atoi(token)
	if err != nil {
		return pathfind.Free, fmt.Errorf("invalid value %q: %w", token, err)
	}
	return pathfind.ParseCellState(v)
}

// ReadFile loads a grid of known dimensions from path
func ReadFile(path string, width, height int) (*pathfind.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open grid file: %w", err)
	}
	defer f.Close()

	g, err := Decode(f, width, height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ReadFileRows loads a grid from path, inferring its dimensions
func ReadFileRows(path string) (*pathfind.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open grid file: %w", err)
	}
	defer f.Close()

	g, err := DecodeRows(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Encode writes the numeric map, one row per line, each value followed by a space.
func Encode(w io.Writer, g *pathfind.Grid) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			bw.WriteString(strconv.Itoa(int(g.State(x, y))))
			bw.WriteByte(' ')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

var glyphs = map[pathfind.CellState]rune{
	pathfind.Free:     ' ',
	pathfind.Obstacle: '█',
	pathfind.Start:    'S',
	pathfind.Goal:     'G',
	pathfind.Path:     '•',
	pathfind.Visited:  '·',
}

// Render draws the grid with one glyph per cell
func Render(w io.Writer, g *pathfind.Grid) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			bw.WriteRune(glyphs[g.State(x, y)])
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
