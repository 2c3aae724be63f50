package places

import "context"

// Details holds the canonical attributes of a resolved venue.
type Details struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	City             string   `json:"city"`
	Cuisine          []string `json:"cuisine"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal *int     `json:"user_ratings_total"`
	PhoneNumber      *string  `json:"phone_number"`
}

// Client resolves free-text venue references against an external
// places provider. Implementations must distinguish "nothing found"
// (nil, nil) from a provider failure (nil, err).
type Client interface {
	// Resolve maps a (name, city) pair to canonical attributes.
	// Returns (nil, nil) when the provider has no candidate.
	Resolve(ctx context.Context, name, city string) (*Details, error)

	// SearchByCity pages through the provider's city-wide search and
	// detail-resolves every result.
	SearchByCity(ctx context.Context, city string) ([]*Details, error)

	// SearchByKeyword returns up to limit lightweight suggestions for a
	// cuisine keyword in a city (no details lookup).
	SearchByKeyword(ctx context.Context, city, keyword string, limit int) ([]*Details, error)
}
