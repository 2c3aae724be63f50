package restaurant

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// InMemoryRepository mirrors the Postgres repository for tests.
type InMemoryRepository struct {
	mu           sync.Mutex
	restaurants  map[int]*Restaurant
	interactions map[string]*Interaction
	nextRestID   int
	nextInterID  int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		restaurants:  make(map[int]*Restaurant),
		interactions: make(map[string]*Interaction),
		nextRestID:   1,
		nextInterID:  1,
	}
}

func interactionKey(userID string, restaurantID int) string {
	return userID + "/" + strconv.Itoa(restaurantID)
}

func (m *InMemoryRepository) UpsertByPlaceID(ctx context.Context, r *Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.PlaceID != "" {
		for _, existing := range m.restaurants {
			if existing.PlaceID == r.PlaceID {
				r.ID = existing.ID
				r.CreatedAt = existing.CreatedAt
				m.restaurants[existing.ID] = cloneRestaurant(r)
				return nil
			}
		}
	}

	r.ID = m.nextRestID
	m.nextRestID++
	r.CreatedAt = time.Now()
	m.restaurants[r.ID] = cloneRestaurant(r)
	return nil
}

func (m *InMemoryRepository) UpdateDetails(ctx context.Context, r *Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.restaurants[r.ID]; !ok {
		return ErrRestaurantNotFound
	}
	m.restaurants[r.ID] = cloneRestaurant(r)
	return nil
}

func (m *InMemoryRepository) FindByNameCity(ctx context.Context, name, city string) (*Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found *Restaurant
	for _, r := range m.restaurants {
		if strings.EqualFold(r.Name, name) && strings.EqualFold(r.City, city) {
			if found == nil || r.ID < found.ID {
				found = r
			}
		}
	}
	if found == nil {
		return nil, nil
	}
	return cloneRestaurant(found), nil
}

func (m *InMemoryRepository) ListByCity(ctx context.Context, city string, limit int) ([]*Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Restaurant
	for _, r := range m.restaurants {
		if strings.EqualFold(r.City, city) {
			out = append(out, cloneRestaurant(r))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Rating, out[j].Rating
		switch {
		case ri != nil && rj != nil && *ri != *rj:
			return *ri > *rj
		case ri != nil && rj == nil:
			return true
		case ri == nil && rj != nil:
			return false
		}
		return out[i].ID < out[j].ID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *InMemoryRepository) ListByIDs(ctx context.Context, ids []int) ([]*Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Restaurant
	for _, id := range ids {
		if r, ok := m.restaurants[id]; ok {
			out = append(out, cloneRestaurant(r))
		}
	}
	return out, nil
}

func (m *InMemoryRepository) VisitTotalsByUser(ctx context.Context, userID, city string) ([]VisitTotal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	totals := make(map[int]int)
	for _, in := range m.interactions {
		r, ok := m.restaurants[in.RestaurantID]
		if !ok || in.UserID != userID || !strings.EqualFold(r.City, city) {
			continue
		}
		totals[in.RestaurantID] += in.Visits
	}
	return sortedTotals(totals, 0), nil
}

func (m *InMemoryRepository) VisitTotalsInCity(ctx context.Context, city string, exclude []int, limit int) ([]VisitTotal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	excluded := make(map[int]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}

	totals := make(map[int]int)
	for _, in := range m.interactions {
		r, ok := m.restaurants[in.RestaurantID]
		if !ok || excluded[in.RestaurantID] || !strings.EqualFold(r.City, city) {
			continue
		}
		totals[in.RestaurantID] += in.Visits
	}
	return sortedTotals(totals, limit), nil
}

func sortedTotals(totals map[int]int, limit int) []VisitTotal {
	out := make([]VisitTotal, 0, len(totals))
	for id, visits := range totals {
		out = append(out, VisitTotal{RestaurantID: id, Visits: visits})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Visits != out[j].Visits {
			return out[i].Visits > out[j].Visits
		}
		return out[i].RestaurantID < out[j].RestaurantID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *InMemoryRepository) RecordVisit(
	ctx context.Context,
	userID string,
	restaurantID int,
	visitDate time.Time,
	price decimal.Decimal,
) (*Interaction, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	key := interactionKey(userID, restaurantID)
	if in, ok := m.interactions[key]; ok {
		in.applyVisit(visitDate, price)
		cp := *in
		return &cp, nil
	}

	in := &Interaction{
		ID:           m.nextInterID,
		UserID:       userID,
		RestaurantID: restaurantID,
		Visits:       1,
		LastVisited:  visitDate,
		AverageSpend: decimal.NewNullDecimal(price),
	}
	m.nextInterID++
	m.interactions[key] = in

	cp := *in
	return &cp, nil
}

func cloneRestaurant(r *Restaurant) *Restaurant {
	cp := *r
	cp.Cuisine = append([]string(nil), r.Cuisine...)
	return &cp
}
