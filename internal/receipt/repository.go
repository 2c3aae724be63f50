package receipt

import (
	"context"
	"time"
)

// Repository is the data-access contract for receipts. Handlers and
// the worker depend ONLY on this interface.
type Repository interface {
	Create(ctx context.Context, r *Receipt) error

	// ListByUser returns the user's receipts, newest date first. month,
	// when non-nil, restricts the listing to that calendar month.
	ListByUser(ctx context.Context, userID string, month *time.Time) ([]*Receipt, error)

	// ClaimPending atomically picks the oldest PENDING receipt and marks
	// it PROCESSING. Returns (nil, nil) when the queue is empty.
	ClaimPending(ctx context.Context) (*Receipt, error)

	MarkProcessed(ctx context.Context, id int) error
	MarkFailed(ctx context.Context, id int, reason string) error
}
