package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jockelind/lagerkoll/internal/store"
	domain "github.com/jockelind/lagerkoll/pkg/types"
)

// UserHandler handles the minimal user registry. Users exist to scope items
// and to resolve alert recipients; there is no authentication.
type UserHandler struct {
	store store.Store
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(s store.Store) *UserHandler {
	return &UserHandler{store: s}
}

// List handles GET /api/v1/users.
//
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} domain.User
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.store.ListUsers(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "listing users: " + err.Error(),
		})
	}

	if users == nil {
		users = []domain.User{}
	}

	return c.JSON(http.StatusOK, users)
}

// Get handles GET /api/v1/users/:id.
//
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} domain.User
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid user id",
		})
	}

	u, err := h.store.GetUser(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "user not found",
		})
	}

	return c.JSON(http.StatusOK, u)
}

// Create handles POST /api/v1/users.
//
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body domain.User true "User to create"
// @Success 201 {object} domain.User
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var u domain.User
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	if u.Username == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "username is required",
		})
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	if u.Role != domain.RoleUser && u.Role != domain.RoleAdmin {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "role must be user or admin",
		})
	}

	if err := h.store.CreateUser(c.Request().Context(), &u); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "creating user: " + err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, u)
}
