package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"grid-planner/internal/service"
	"grid-planner/pathfind"
	"grid-planner/zones"
)

const maxBatchQueries = 1000

// RouteHandler serves path finding endpoints.
type RouteHandler struct {
	router Router
	log    *logrus.Logger
}

// NewRouteHandler creates a RouteHandler with the given router and logger.
func NewRouteHandler(router Router, log *logrus.Logger) *RouteHandler {
	return &RouteHandler{router: router, log: log}
}

// RouteRequest asks for a path between two cells of a stored grid.
// Paint returns the grid with Visited and Path markers drawn on it.
type RouteRequest struct {
	GridID string        `json:"gridId" binding:"required"`
	Start  pathfind.Cell `json:"start"`
	Goal   pathfind.Cell `json:"goal"`
	Paint  bool          `json:"paint,omitempty"`
}

// RouteResponse is the outcome of one search. Success is false when the
// goal cannot be reached.
type RouteResponse struct {
	Path     []pathfind.Cell `json:"path"`
	Success  bool            `json:"success"`
	Message  string          `json:"message,omitempty"`
	Cost     float64         `json:"cost"`
	Expanded int             `json:"expanded"`
	Rows     [][]int         `json:"rows,omitempty"`
}

// BatchRequest asks for several paths on one stored grid.
type BatchRequest struct {
	GridID  string           `json:"gridId" binding:"required"`
	Queries []pathfind.Query `json:"queries" binding:"required"`
}

type batchResponse struct {
	Results []RouteResponse `json:"results"`
}

func toResponse(res pathfind.Result) RouteResponse {
	resp := RouteResponse{
		Path:     res.Path,
		Success:  res.Found,
		Cost:     res.Cost,
		Expanded: res.Expanded,
	}
	if !res.Found {
		resp.Path = []pathfind.Cell{}
		resp.Message = "no path found"
	}
	return resp
}

// Route handles POST /route. With ?format=geojson the path is returned as a
// FeatureCollection holding one LineString through cell centres.
func (h *RouteHandler) Route(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	var (
		res     pathfind.Result
		painted *pathfind.Grid
		err     error
	)
	if req.Paint {
		painted, res, err = h.router.RoutePainted(c.Request.Context(), req.GridID, req.Start, req.Goal)
	} else {
		res, err = h.router.Route(c.Request.Context(), req.GridID, req.Start, req.Goal)
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	if c.Query("format") == "geojson" {
		fc := geojson.NewFeatureCollection()
		if res.Found {
			f := zones.PathFeature(res.Path)
			f.Properties["cost"] = res.Cost
			f.Properties["expanded"] = res.Expanded
			fc.Append(f)
		}
		c.JSON(http.StatusOK, fc)
		return
	}

	resp := toResponse(res)
	if painted != nil {
		resp.Rows = painted.Rows()
	}
	c.JSON(http.StatusOK, resp)
}

// Batch handles POST /route/batch.
func (h *RouteHandler) Batch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}
	if len(req.Queries) > maxBatchQueries {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError,
			fmt.Sprintf("at most %d queries per batch", maxBatchQueries))
		return
	}

	results, err := h.router.RouteBatch(c.Request.Context(), req.GridID, req.Queries)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := batchResponse{Results: make([]RouteResponse, len(results))}
	for i, r := range results {
		resp.Results[i] = toResponse(r)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RouteHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGridNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "grid not found")
	case errors.Is(err, pathfind.ErrOffGrid):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidArgument, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.log.WithError(err).Debug("route cancelled")
		c.Abort()
	default:
		h.log.WithError(err).Error("routing")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
