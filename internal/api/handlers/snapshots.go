package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jockelind/lagerkoll/internal/store"
	domain "github.com/jockelind/lagerkoll/pkg/types"
)

const defaultHistoryLimit = 100

// SnapshotHandler serves the per-item snapshot history.
type SnapshotHandler struct {
	store store.Store
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(s store.Store) *SnapshotHandler {
	return &SnapshotHandler{store: s}
}

type historyResponse struct {
	Snapshots []domain.Snapshot `json:"snapshots"`
	Total     int               `json:"total"`
}

// History handles GET /api/v1/items/:id/history.
//
// @Summary Snapshot history for an item
// @Description Returns the newest snapshots first, plus the total row count.
// @Tags items
// @Produce json
// @Param id path int true "Item ID"
// @Param limit query int false "Max rows returned (default 100)"
// @Success 200 {object} historyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/items/{id}/history [get]
func (h *SnapshotHandler) History(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid item id",
		})
	}

	// 404 for unknown items rather than an empty history.
	if _, err := h.store.GetItem(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "item not found",
		})
	}

	limit := defaultHistoryLimit
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	snaps, err := h.store.ListSnapshots(c.Request().Context(), id, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "listing snapshots: " + err.Error(),
		})
	}

	total, err := h.store.CountSnapshots(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "counting snapshots: " + err.Error(),
		})
	}

	if snaps == nil {
		snaps = []domain.Snapshot{}
	}

	return c.JSON(http.StatusOK, historyResponse{Snapshots: snaps, Total: total})
}
