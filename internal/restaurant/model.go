package restaurant

import (
	"time"

	"github.com/shopspring/decimal"
)

// Restaurant is one physical venue. PlaceID is the external place
// identifier and is the source of truth for identity once resolved;
// empty means the venue has not been verified against the provider.
type Restaurant struct {
	ID               int       `json:"id"`
	PlaceID          string    `json:"place_id,omitempty"`
	Name             string    `json:"name"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	Cuisine          []string  `json:"cuisine"`
	Rating           *float64  `json:"rating"`
	UserRatingsTotal *int      `json:"user_ratings_total"`
	PhoneNumber      *string   `json:"phone_number"`
	CreatedAt        time.Time `json:"created_at"`
}

// Interaction aggregates a single user's visit history at a single
// restaurant. At most one row exists per (user, restaurant).
type Interaction struct {
	ID           int
	UserID       string
	RestaurantID int
	Visits       int
	LastVisited  time.Time
	AverageSpend decimal.NullDecimal
}

// applyVisit folds one more visit into the aggregate. The average is
// the weighted incremental mean over the pre-increment count, computed
// in decimal to match NUMERIC(10,2) storage exactly.
func (i *Interaction) applyVisit(visitDate time.Time, price decimal.Decimal) {
	newCount := i.Visits + 1

	if i.AverageSpend.Valid {
		total := i.AverageSpend.Decimal.
			Mul(decimal.NewFromInt(int64(i.Visits))).
			Add(price)
		i.AverageSpend.Decimal = total.DivRound(decimal.NewFromInt(int64(newCount)), 2)
	} else {
		i.AverageSpend = decimal.NewNullDecimal(price)
	}

	i.Visits = newCount
	if visitDate.After(i.LastVisited) {
		i.LastVisited = visitDate
	}
}

// VisitTotal is one row of a visits-per-restaurant aggregation.
type VisitTotal struct {
	RestaurantID int
	Visits       int
}
