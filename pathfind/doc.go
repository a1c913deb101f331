// Package pathfind finds shortest orthogonal paths on a 2D occupancy grid with A*.
//
// It exposes two entry points:
//
//   - FindPath: run the search to completion and get a Result.
//   - Search: advance the search one expansion at a time to drive animations.
//
// Equal-priority nodes are expanded in discovery order, and neighbors are discovered
// down, up, left, right, so a given grid and endpoints always yield the same path.
// Closed nodes are never reopened.
package pathfind
