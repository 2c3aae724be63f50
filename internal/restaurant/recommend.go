package restaurant

import "context"

const DefaultRecommendLimit = 10

// Recommend produces an ordered restaurant list for a user and city:
// the user's own venues first (by summed visits), then the city's most
// visited venues the user has not been to, falling back to the city's
// top-rated restaurants when there are no interactions at all.
func (s *Service) Recommend(ctx context.Context, userID, city string, limit int) ([]*Restaurant, error) {
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}

	visited, err := s.repo.VisitTotalsByUser(ctx, userID, city)
	if err != nil {
		return nil, err
	}

	visitedIDs := make([]int, 0, len(visited))
	for _, vt := range visited {
		visitedIDs = append(visitedIDs, vt.RestaurantID)
	}

	popular, err := s.repo.VisitTotalsInCity(ctx, city, visitedIDs, limit)
	if err != nil {
		return nil, err
	}

	// visited and popular are disjoint by construction (popularity
	// excludes visited ids), so the concatenation is not de-duplicated.
	combined := visitedIDs
	for _, vt := range popular {
		combined = append(combined, vt.RestaurantID)
	}

	if len(combined) == 0 {
		return s.repo.ListByCity(ctx, city, limit)
	}

	restaurants, err := s.repo.ListByIDs(ctx, combined)
	if err != nil {
		return nil, err
	}

	// Reorder explicitly by the precomputed id sequence; storage-layer
	// ordering is not part of the contract.
	byID := make(map[int]*Restaurant, len(restaurants))
	for _, r := range restaurants {
		byID[r.ID] = r
	}

	ordered := make([]*Restaurant, 0, len(combined))
	for _, id := range combined {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}

	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered, nil
}
