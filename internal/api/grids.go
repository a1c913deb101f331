package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"grid-planner/internal/service"
	"grid-planner/pathfind"
	"grid-planner/zones"
)

// GridHandler serves grid registry endpoints.
type GridHandler struct {
	store GridStore
	log   *logrus.Logger
}

// NewGridHandler creates a GridHandler with the given store and logger.
func NewGridHandler(store GridStore, log *logrus.Logger) *GridHandler {
	return &GridHandler{store: store, log: log}
}

// CreateGridRequest carries numeric cell codes, rows[y][x].
type CreateGridRequest struct {
	Rows [][]int `json:"rows" binding:"required"`
}

// GridResponse describes a stored grid.
type GridResponse struct {
	ID        string  `json:"id"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Obstacles int     `json:"obstacles"`
	Rows      [][]int `json:"rows,omitempty"`
}

type zonesResponse struct {
	Zones   int `json:"zones"`
	Skipped int `json:"skipped"`
	Blocked int `json:"blocked"`
}

// Create handles POST /grids.
func (h *GridHandler) Create(c *gin.Context) {
	var req CreateGridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	g, err := pathfind.GridFromRows(req.Rows)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	id, err := h.store.Register(g)
	if err != nil {
		if errors.Is(err, service.ErrGridTooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, ErrCodeValidationError, err.Error())
			return
		}
		h.log.WithError(err).Error("registering grid")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	c.JSON(http.StatusCreated, GridResponse{
		ID:        id,
		Width:     g.Width(),
		Height:    g.Height(),
		Obstacles: g.Count(pathfind.Obstacle),
	})
}

// Get handles GET /grids/:id.
func (h *GridHandler) Get(c *gin.Context) {
	id := c.Param("id")
	g, err := h.store.Get(id)
	if err != nil {
		h.fail(c, err, "getting grid")
		return
	}

	c.JSON(http.StatusOK, GridResponse{
		ID:        id,
		Width:     g.Width(),
		Height:    g.Height(),
		Obstacles: g.Count(pathfind.Obstacle),
		Rows:      g.Rows(),
	})
}

// ApplyZones handles POST /grids/:id/zones. The body is a GeoJSON
// FeatureCollection in grid-cell coordinates.
func (h *GridHandler) ApplyZones(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "unreadable request body")
		return
	}

	zs, skipped, err := zones.Parse(data)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	blocked, err := h.store.ApplyZones(c.Param("id"), zs)
	if err != nil {
		h.fail(c, err, "applying zones")
		return
	}

	c.JSON(http.StatusOK, zonesResponse{Zones: len(zs), Skipped: skipped, Blocked: blocked})
}

func (h *GridHandler) fail(c *gin.Context, err error, action string) {
	if errors.Is(err, service.ErrGridNotFound) {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "grid not found")
		return
	}
	h.log.WithError(err).Error(action)
	respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}
