package main

import (
	"fmt"
	"io"

	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"grid-planner/gridfile"
	"grid-planner/pathfind"
	"grid-planner/zones"
)

func newSolveCmd() *cobra.Command {
	var (
		flags   gridFlags
		numeric bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find a path and print the painted map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.load(cfg, log)
			if err != nil {
				return err
			}

			p.grid.MarkStart(p.start)
			p.grid.MarkGoal(p.goal)
			res, err := pathfind.FindPath(cmd.Context(), p.grid, p.start, p.goal,
				pathfind.WithHeuristic(p.heuristic),
				pathfind.WithObserver(pathfind.GridPainter{Grid: p.grid}))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeFeatures(out, res, p.zones)
			}
			if res.Found {
				fmt.Fprintf(out, "Path found: %d cells, cost %g, %d nodes expanded\n", len(res.Path), res.Cost, res.Expanded)
			} else {
				fmt.Fprintf(out, "No path found, %d nodes expanded\n", res.Expanded)
			}

			if numeric {
				return gridfile.Encode(out, p.grid)
			}
			return gridfile.Render(out, p.grid)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&numeric, "numeric", false, "Print numeric cell codes instead of glyphs")
	cmd.Flags().BoolVar(&asJSON, "geojson", false, "Print the route and applied zones as a GeoJSON FeatureCollection")
	return cmd
}

func writeFeatures(w io.Writer, res pathfind.Result, zs []zones.Zone) error {
	fc := geojson.NewFeatureCollection()
	if res.Found {
		f := zones.PathFeature(res.Path)
		f.Properties["cost"] = res.Cost
		f.Properties["expanded"] = res.Expanded
		fc.Append(f)
	}
	for _, z := range zs {
		fc.Append(zones.ZoneFeature(z))
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
