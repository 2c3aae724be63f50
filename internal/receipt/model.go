package receipt

import (
	"time"

	"github.com/shopspring/decimal"
)

// Processing states. A receipt row doubles as the work-queue entry for
// the interaction updater; the enqueue is the INSERT itself.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusProcessed  = "PROCESSED"
	StatusFailed     = "FAILED"
)

type Receipt struct {
	ID             int             `json:"id"`
	UserID         string          `json:"user_id"`
	RestaurantName string          `json:"restaurant_name"`
	Address        string          `json:"address"`
	Date           time.Time       `json:"date"`
	Price          decimal.Decimal `json:"price"`
	ImageURL       *string         `json:"image_url,omitempty"`
	Status         string          `json:"status"`
	Error          *string         `json:"error,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
