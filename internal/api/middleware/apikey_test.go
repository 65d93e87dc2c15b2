package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	mw "github.com/jockelind/lagerkoll/internal/api/middleware"
)

func callWithKey(key, header string) *httptest.ResponseRecorder {
	e := echo.New()
	e.Use(mw.APIKey(key))
	e.POST("/api/v1/check", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/check", http.NoBody)
	if header != "" {
		req.Header.Set("X-API-Key", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAPIKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		configured string
		supplied   string
		wantStatus int
	}{
		{name: "matching key passes", configured: "secret", supplied: "secret", wantStatus: http.StatusOK},
		{name: "wrong key rejected", configured: "secret", supplied: "nope", wantStatus: http.StatusUnauthorized},
		{name: "missing key rejected", configured: "secret", supplied: "", wantStatus: http.StatusUnauthorized},
		{name: "empty config disables guard", configured: "", supplied: "", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := callWithKey(tt.configured, tt.supplied)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
