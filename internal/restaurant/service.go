package restaurant

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gantaAishwarya/Lunch-log/internal/places"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")

	// ErrCityEmpty means a city has no stored restaurants even after a
	// provider fetch.
	ErrCityEmpty = errors.New("no restaurants found for city")
)

type Service struct {
	repo     Repository
	resolver places.Client
}

func NewService(repo Repository, resolver places.Client) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
	}
}

// --------------------------------------------------
// Bulk fetch: populate the registry for a city
// --------------------------------------------------
// FetchByCity resolves every venue the provider returns for the city
// and upserts it keyed by place identifier. Idempotent per place:
// re-running refreshes attributes instead of duplicating rows.
func (s *Service) FetchByCity(ctx context.Context, city string) (int, error) {
	results, err := s.resolver.SearchByCity(ctx, city)
	if err != nil {
		return 0, fmt.Errorf("search %q: %w", city, err)
	}

	stored := 0
	for _, d := range results {
		if d.PlaceID == "" {
			continue
		}

		r := restaurantFromDetails(d)
		if err := s.repo.UpsertByPlaceID(ctx, r); err != nil {
			return stored, fmt.Errorf("upsert %q: %w", d.PlaceID, err)
		}
		stored++
	}
	return stored, nil
}

func restaurantFromDetails(d *places.Details) *Restaurant {
	return &Restaurant{
		PlaceID:          d.PlaceID,
		Name:             d.Name,
		Address:          d.Address,
		City:             d.City,
		Cuisine:          d.Cuisine,
		Rating:           d.Rating,
		UserRatingsTotal: d.UserRatingsTotal,
		PhoneNumber:      d.PhoneNumber,
	}
}

// --------------------------------------------------
// Cuisine discovery
// --------------------------------------------------
type DiscoverResult struct {
	City        string            `json:"city"`
	TopCuisines []string          `json:"top_cuisines"`
	Local       []*Restaurant     `json:"local_restaurants"`
	Suggestions []*places.Details `json:"suggestions"`
}

// Discover blends stored data with fresh provider suggestions: the
// three most common cuisine tags across the city's stored restaurants,
// the top stored venues, and two provider hits per top cuisine.
// Fetches the city from the provider first when nothing is stored yet.
func (s *Service) Discover(ctx context.Context, city string) (*DiscoverResult, error) {
	stored, err := s.repo.ListByCity(ctx, city, 0)
	if err != nil {
		return nil, err
	}

	if len(stored) == 0 {
		if _, err := s.FetchByCity(ctx, city); err != nil {
			return nil, err
		}
		stored, err = s.repo.ListByCity(ctx, city, 0)
		if err != nil {
			return nil, err
		}
		if len(stored) == 0 {
			return nil, ErrCityEmpty
		}
	}

	top := topCuisines(stored, 3)

	var suggestions []*places.Details
	for _, cuisine := range top {
		hits, err := s.resolver.SearchByKeyword(ctx, city, cuisine, 2)
		if err != nil {
			return nil, fmt.Errorf("keyword search %q: %w", cuisine, err)
		}
		suggestions = append(suggestions, hits...)
	}

	local := stored
	if len(local) > 5 {
		local = local[:5]
	}

	return &DiscoverResult{
		City:        city,
		TopCuisines: top,
		Local:       local,
		Suggestions: suggestions,
	}, nil
}

func topCuisines(restaurants []*Restaurant, n int) []string {
	counts := make(map[string]int)
	for _, r := range restaurants {
		for _, c := range r.Cuisine {
			counts[strings.ToLower(c)]++
		}
	}

	cuisines := make([]string, 0, len(counts))
	for c := range counts {
		cuisines = append(cuisines, c)
	}
	sort.Slice(cuisines, func(i, j int) bool {
		if counts[cuisines[i]] != counts[cuisines[j]] {
			return counts[cuisines[i]] > counts[cuisines[j]]
		}
		return cuisines[i] < cuisines[j]
	})

	if len(cuisines) > n {
		cuisines = cuisines[:n]
	}
	return cuisines
}
