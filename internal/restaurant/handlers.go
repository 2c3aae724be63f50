package restaurant

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RecommendationItem is the wire shape of one recommendation.
type RecommendationItem struct {
	Name    string   `json:"name"`
	Cuisine []string `json:"cuisine"`
	Address string   `json:"address"`
	Rating  *float64 `json:"rating"`
}

// --------------------------------------------------
// GET /recommendations?city=...&limit=...
// --------------------------------------------------
func (h *Handler) GetRecommendations(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city is required"})
		return
	}

	limit := DefaultRecommendLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	restaurants, err := h.service.Recommend(c.Request.Context(), userID, city, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute recommendations"})
		return
	}

	items := make([]RecommendationItem, 0, len(restaurants))
	for _, r := range restaurants {
		items = append(items, RecommendationItem{
			Name:    r.Name,
			Cuisine: r.Cuisine,
			Address: r.Address,
			Rating:  r.Rating,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"city":    city,
		"results": items,
	})
}

// --------------------------------------------------
// GET /recommendations/discover?city=...
// --------------------------------------------------
func (h *Handler) Discover(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city is required"})
		return
	}

	result, err := h.service.Discover(c.Request.Context(), city)
	if err != nil {
		if errors.Is(err, ErrCityEmpty) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": fmt.Sprintf("no restaurants found for %s after fetching", city),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// --------------------------------------------------
// POST /restaurants/fetch
// --------------------------------------------------
func (h *Handler) FetchByCity(c *gin.Context) {
	var req struct {
		City string `json:"city"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.City == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city is required"})
		return
	}

	count, err := h.service.FetchByCity(c.Request.Context(), req.City)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("restaurant data fetched for %s", req.City),
		"count":   count,
	})
}
