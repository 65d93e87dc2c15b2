package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jockelind/lagerkoll/internal/api/handlers"
	"github.com/jockelind/lagerkoll/internal/store"
	domain "github.com/jockelind/lagerkoll/pkg/types"
)

func TestUserHandler_List(t *testing.T) {
	t.Parallel()

	email := "anna@example.com"
	fs := &fakeStore{
		listUsers: func() ([]domain.User, error) {
			return []domain.User{{ID: 1, Username: "anna", Role: domain.RoleUser, Email: &email}}, nil
		},
	}
	h := handlers.NewUserHandler(fs)

	c, rec := newEchoContext(http.MethodGet, "/api/v1/users", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"anna"`)
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	t.Parallel()

	fs := &fakeStore{
		getUser: func(int64) (*domain.User, error) { return nil, store.ErrNotFound },
	}
	h := handlers.NewUserHandler(fs)

	c, rec := newEchoContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserHandler_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "defaults to user role",
			body:       `{"username":"anna","email":"anna@example.com"}`,
			wantStatus: http.StatusCreated,
			wantBody:   `"role":"user"`,
		},
		{
			name:       "admin role accepted",
			body:       `{"username":"ops","role":"admin"}`,
			wantStatus: http.StatusCreated,
			wantBody:   `"role":"admin"`,
		},
		{
			name:       "missing username",
			body:       `{"email":"x@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "username is required",
		},
		{
			name:       "unknown role rejected",
			body:       `{"username":"anna","role":"superuser"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "role must be user or admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := &fakeStore{
				createUser: func(u *domain.User) error {
					u.ID = 1
					return nil
				},
			}
			h := handlers.NewUserHandler(fs)

			c, rec := newEchoContext(http.MethodPost, "/api/v1/users", tt.body)
			require.NoError(t, h.Create(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
