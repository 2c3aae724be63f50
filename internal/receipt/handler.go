package receipt

import (
	"context"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/gantaAishwarya/Lunch-log/internal/storage"
)

// Uploader stores a receipt image and returns its public URL.
// Implemented by storage.R2Client.
type Uploader interface {
	Upload(ctx context.Context, key string, file multipart.File) (string, error)
}

type Handler struct {
	repo     Repository
	uploader Uploader
}

func NewHandler(repo Repository, uploader Uploader) *Handler {
	return &Handler{
		repo:     repo,
		uploader: uploader,
	}
}

// --------------------------------------------------
// POST /receipts  (multipart form)
// --------------------------------------------------
func (h *Handler) Create(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	name := c.PostForm("restaurant_name")
	addr := c.PostForm("address")
	if name == "" || addr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "restaurant_name and address are required"})
		return
	}

	date, err := time.Parse("2006-01-02", c.PostForm("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
		return
	}

	price, err := decimal.NewFromString(c.PostForm("price"))
	if err != nil || price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	r := &Receipt{
		UserID:         userID,
		RestaurantName: name,
		Address:        addr,
		Date:           date,
		Price:          price,
	}

	if fileHeader, err := c.FormFile("image"); err == nil && h.uploader != nil {
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image"})
			return
		}
		defer f.Close()

		url, err := h.uploader.Upload(
			c.Request.Context(),
			storage.ReceiptKey(userID, date),
			f,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed"})
			return
		}
		r.ImageURL = &url
	}

	// The INSERT is the enqueue: the worker picks the row up from here.
	if err := h.repo.Create(c.Request.Context(), r); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store receipt"})
		return
	}

	c.JSON(http.StatusCreated, r)
}

// --------------------------------------------------
// GET /receipts?month=YYYY-MM
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var month *time.Time
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month format, use YYYY-MM"})
			return
		}
		month = &parsed
	}

	receipts, err := h.repo.ListByUser(c.Request.Context(), userID, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch receipts"})
		return
	}
	if receipts == nil {
		receipts = []*Receipt{}
	}

	c.JSON(http.StatusOK, receipts)
}
