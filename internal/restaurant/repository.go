package restaurant

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository is the data-access contract for the registry and the
// interaction store. Service depends ONLY on this interface.
type Repository interface {
	// UpsertByPlaceID creates the restaurant or, when the place
	// identifier already exists, overwrites its attributes. The
	// canonical row id is written back to r.
	UpsertByPlaceID(ctx context.Context, r *Restaurant) error

	// UpdateDetails overwrites the mutable attributes of an existing row.
	UpdateDetails(ctx context.Context, r *Restaurant) error

	// FindByNameCity matches case-insensitively on (name, city).
	// Returns (nil, nil) when no row matches.
	FindByNameCity(ctx context.Context, name, city string) (*Restaurant, error)

	// ListByCity returns restaurants in a city ordered by rating
	// descending (nulls last, id ascending). limit 0 means no limit.
	ListByCity(ctx context.Context, city string, limit int) ([]*Restaurant, error)

	// ListByIDs returns the restaurants whose id is in ids, in no
	// particular order.
	ListByIDs(ctx context.Context, ids []int) ([]*Restaurant, error)

	// VisitTotalsByUser sums one user's visits per restaurant in a city,
	// ordered by total descending, restaurant id ascending.
	VisitTotalsByUser(ctx context.Context, userID, city string) ([]VisitTotal, error)

	// VisitTotalsInCity sums all users' visits per restaurant in a city,
	// excluding the given restaurant ids, same ordering, truncated to limit.
	VisitTotalsInCity(ctx context.Context, city string, exclude []int, limit int) ([]VisitTotal, error)

	// RecordVisit creates or advances the (user, restaurant) interaction
	// as one atomic unit and returns the resulting row.
	RecordVisit(ctx context.Context, userID string, restaurantID int, visitDate time.Time, price decimal.Decimal) (*Interaction, error)
}
