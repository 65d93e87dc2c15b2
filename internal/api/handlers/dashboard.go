package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jockelind/lagerkoll/internal/store"
)

// DashboardHandler serves aggregate item counts for the dashboard view.
type DashboardHandler struct {
	store store.Store
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(s store.Store) *DashboardHandler {
	return &DashboardHandler{store: s}
}

// Summary handles GET /api/v1/dashboard.
//
// @Summary Dashboard summary counts
// @Description Returns item counts by state, optionally scoped to one owner.
// @Tags dashboard
// @Produce json
// @Param user_id query int false "Scope counts to an owner"
// @Success 200 {object} domain.DashboardSummary
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Summary(c echo.Context) error {
	var ownerID *int64
	if v := c.QueryParam("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid user_id",
			})
		}
		ownerID = &id
	}

	summary, err := h.store.GetDashboardSummary(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "loading dashboard summary: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, summary)
}
