package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jockelind/lagerkoll/internal/availability"
	"github.com/jockelind/lagerkoll/internal/store"
)

// StoresHandler serves live lookups against the availability source: the
// store directory for a region and the current per-store stock for an item.
// Neither touches the database beyond loading the item row.
type StoresHandler struct {
	store  store.Store
	source availability.Source
}

// NewStoresHandler creates a new StoresHandler.
func NewStoresHandler(s store.Store, src availability.Source) *StoresHandler {
	return &StoresHandler{store: s, source: src}
}

// ListStores handles GET /api/v1/stores/:region.
//
// @Summary List stores in a region
// @Description Queries the availability source for the region's store directory.
// @Tags stores
// @Produce json
// @Param region path string true "Region code, e.g. se"
// @Success 200 {array} availability.StoreInfo
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/stores/{region} [get]
func (h *StoresHandler) ListStores(c echo.Context) error {
	region := c.Param("region")
	if region == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "region is required",
		})
	}

	stores, err := h.source.Stores(c.Request().Context(), region)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "fetching store directory: " + err.Error(),
		})
	}

	if stores == nil {
		stores = []availability.StoreInfo{}
	}

	return c.JSON(http.StatusOK, stores)
}

// LiveAvailability handles GET /api/v1/items/:id/live.
//
// @Summary Live per-store availability for an item
// @Description Queries the availability source directly without recording a snapshot.
// @Tags items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {array} availability.StoreStock
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/items/{id}/live [get]
func (h *StoresHandler) LiveAvailability(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid item id",
		})
	}

	it, err := h.store.GetItem(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "item not found",
		})
	}

	records, err := h.source.Fetch(
		c.Request().Context(), it.RegionCode, it.ProductID, it.StoreFilter(),
	)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "fetching live availability: " + err.Error(),
		})
	}

	if records == nil {
		records = []availability.StoreStock{}
	}

	return c.JSON(http.StatusOK, records)
}
