package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReceiptKey builds the object key for a receipt image:
// receipts/<user_id>/<YYYY-MM-DD>/receipt_<uuid>.jpg
func ReceiptKey(userID string, date time.Time) string {
	return fmt.Sprintf(
		"receipts/%s/%s/receipt_%s.jpg",
		userID,
		date.Format("2006-01-02"),
		uuid.New().String(),
	)
}
