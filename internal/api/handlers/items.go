package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jockelind/lagerkoll/internal/store"
	domain "github.com/jockelind/lagerkoll/pkg/types"
)

// ItemHandler handles tracked item CRUD operations.
type ItemHandler struct {
	store store.Store
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(s store.Store) *ItemHandler {
	return &ItemHandler{store: s}
}

func itemID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// List handles GET /api/v1/items.
//
// @Summary List tracked items
// @Description Returns tracked items, optionally filtered by owner, active flag, or a name/product search.
// @Tags items
// @Produce json
// @Param user_id query int false "Filter by owner"
// @Param active query string false "Only active items" Enums(true)
// @Param search query string false "Match name or product id"
// @Param limit query int false "Page size (max 500)"
// @Param offset query int false "Page offset"
// @Param order_by query string false "Sort column" Enums(name, added_at, last_checked_at, last_stock)
// @Success 200 {array} domain.Item
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/items [get]
func (h *ItemHandler) List(c echo.Context) error {
	q := &store.ItemQuery{
		ActiveOnly: c.QueryParam("active") == "true",
		Search:     c.QueryParam("search"),
		OrderBy:    c.QueryParam("order_by"),
	}
	if v := c.QueryParam("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid user_id",
			})
		}
		q.UserID = &id
	}
	if v := c.QueryParam("limit"); v != "" {
		q.Limit, _ = strconv.Atoi(v)
	}
	if v := c.QueryParam("offset"); v != "" {
		q.Offset, _ = strconv.Atoi(v)
	}

	items, err := h.store.ListItems(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "listing items: " + err.Error(),
		})
	}

	if items == nil {
		items = []domain.Item{}
	}

	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/v1/items/:id.
//
// @Summary Get a tracked item
// @Tags items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} domain.Item
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/items/{id} [get]
func (h *ItemHandler) Get(c echo.Context) error {
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

	return c.JSON(http.StatusOK, it)
}

// Create handles POST /api/v1/items.
//
// @Summary Create a tracked item
// @Tags items
// @Accept json
// @Produce json
// @Param item body domain.Item true "Item to create"
// @Success 201 {object} domain.Item
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/items [post]
func (h *ItemHandler) Create(c echo.Context) error {
	var it domain.Item
	if err := c.Bind(&it); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	if it.Name == "" || it.ProductID == "" || it.RegionCode == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "name, product_id and region_code are required",
		})
	}

	if err := h.store.CreateItem(c.Request().Context(), &it); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "creating item: " + err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, it)
}

// Update handles PUT /api/v1/items/:id.
//
// @Summary Update a tracked item
// @Tags items
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param item body domain.Item true "Updated item"
// @Success 200 {object} domain.Item
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/items/{id} [put]
func (h *ItemHandler) Update(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid item id",
		})
	}

	var it domain.Item
	if err := c.Bind(&it); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	it.ID = id
	if err := h.store.UpdateItem(c.Request().Context(), &it); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "item not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "updating item: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, it)
}

type setActiveRequest struct {
	Active bool `json:"active" example:"true"`
}

// SetActive handles PUT /api/v1/items/:id/active.
//
// @Summary Activate or deactivate a tracked item
// @Tags items
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param body body setActiveRequest true "Active flag"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/items/{id}/active [put]
func (h *ItemHandler) SetActive(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid item id",
		})
	}

	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	if err := h.store.SetItemActive(c.Request().Context(), id, req.Active); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "item not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "setting item active: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "updated",
	})
}

// Delete handles DELETE /api/v1/items/:id. Deleting an item cascades to its
// snapshot history.
//
// @Summary Delete a tracked item and its history
// @Tags items
// @Param id path int true "Item ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/items/{id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid item id",
		})
	}

	if err := h.store.DeleteItem(c.Request().Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "item not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "deleting item: " + err.Error(),
		})
	}

	return c.NoContent(http.StatusNoContent)
}
