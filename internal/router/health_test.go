package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gantaAishwarya/Lunch-log/internal/receipt"
	"github.com/gantaAishwarya/Lunch-log/internal/restaurant"

	"github.com/gin-gonic/gin"
)

func TestHealthCheck(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)

	// In-memory handlers are enough for routing tests
	receiptHandler := receipt.NewHandler(receipt.NewInMemoryRepository(), nil)
	restaurantHandler := restaurant.NewHandler(
		restaurant.NewService(restaurant.NewInMemoryRepository(), nil),
	)
	r := NewRouter(receiptHandler, restaurantHandler)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	// Act
	r.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	receiptHandler := receipt.NewHandler(receipt.NewInMemoryRepository(), nil)
	restaurantHandler := restaurant.NewHandler(
		restaurant.NewService(restaurant.NewInMemoryRepository(), nil),
	)
	r := NewRouter(receiptHandler, restaurantHandler)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/receipts"},
		{http.MethodGet, "/receipts"},
		{http.MethodGet, "/recommendations"},
		{http.MethodGet, "/recommendations/discover"},
		{http.MethodPost, "/restaurants/fetch"},
	}

	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected status 401, got %d", p.method, p.path, w.Code)
		}
	}
}
