package api

import (
	"context"

	"grid-planner/pathfind"
	"grid-planner/zones"
)

// GridStore defines grid registry operations used by GridHandler.
type GridStore interface {
	Register(g *pathfind.Grid) (string, error)
	Get(id string) (*pathfind.Grid, error)
	ApplyZones(id string, zs []zones.Zone) (int, error)
	Count() int
}

// Router defines route solving operations used by RouteHandler.
type Router interface {
	Route(ctx context.Context, id string, start, goal pathfind.Cell) (pathfind.Result, error)
	RoutePainted(ctx context.Context, id string, start, goal pathfind.Cell) (*pathfind.Grid, pathfind.Result, error)
	RouteBatch(ctx context.Context, id string, queries []pathfind.Query) ([]pathfind.Result, error)
}
