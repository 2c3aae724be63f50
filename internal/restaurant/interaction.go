package restaurant

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gantaAishwarya/Lunch-log/internal/address"
)

// ProcessReceipt turns one receipt event into registry and interaction
// updates. A receipt that cannot be tied to a verified venue is a
// deliberate no-op, not a failure:
//   - missing name or unextractable city -> skip
//   - provider knows no place identifier for a never-seen name -> skip
//
// A provider failure while creating a NEW restaurant is returned to the
// caller (the event can be retried); a failed refresh of an already
// known restaurant is only logged and the visit is still recorded.
func (s *Service) ProcessReceipt(
	ctx context.Context,
	userID string,
	restaurantName string,
	addr string,
	visitDate time.Time,
	price decimal.Decimal,
) error {

	name := strings.TrimSpace(restaurantName)
	city, ok := address.ExtractCity(addr)
	if name == "" || !ok {
		log.Printf("[RECEIPT] skip: name=%q address=%q (no name or city)", name, addr)
		return nil
	}

	rest, err := s.repo.FindByNameCity(ctx, name, city)
	if err != nil {
		return err
	}

	if rest != nil {
		s.refreshDetails(ctx, rest, name, city)
	} else {
		rest, err = s.createFromResolver(ctx, name, city, addr)
		if err != nil {
			return err
		}
		if rest == nil {
			return nil // skipped
		}
	}

	_, err = s.repo.RecordVisit(ctx, userID, rest.ID, visitDate, price)
	return err
}

// refreshDetails re-resolves a known restaurant and overwrites its
// mutable attributes when the provider now reports a different place
// identifier. Best-effort: resolver trouble never blocks the visit.
func (s *Service) refreshDetails(ctx context.Context, rest *Restaurant, name, city string) {
	d, err := s.resolver.Resolve(ctx, name, city)
	if err != nil {
		log.Printf("[RECEIPT] refresh failed for %q (%s): %v", name, city, err)
		return
	}
	if d == nil || d.PlaceID == "" || d.PlaceID == rest.PlaceID {
		return
	}

	rest.PlaceID = d.PlaceID
	rest.Address = d.Address
	rest.Cuisine = d.Cuisine
	rest.Rating = d.Rating
	rest.UserRatingsTotal = d.UserRatingsTotal
	rest.PhoneNumber = d.PhoneNumber

	if err := s.repo.UpdateDetails(ctx, rest); err != nil {
		log.Printf("[RECEIPT] detail update failed for %q (%s): %v", name, city, err)
	}
}

// createFromResolver registers a restaurant seen for the first time.
// Returns (nil, nil) when the provider yields no place identifier: the
// registry only holds venues with a verified external identity.
func (s *Service) createFromResolver(ctx context.Context, name, city, addr string) (*Restaurant, error) {
	d, err := s.resolver.Resolve(ctx, name, city)
	if err != nil {
		return nil, fmt.Errorf("resolve %q (%s): %w", name, city, err)
	}
	if d == nil || d.PlaceID == "" {
		log.Printf("[RECEIPT] skip: no place id for %q (%s)", name, city)
		return nil, nil
	}

	rest := restaurantFromDetails(d)

	// Resolver fields can be sparse; the receipt itself is the fallback.
	if rest.Name == "" {
		rest.Name = name
	}
	if rest.Address == "" {
		rest.Address = addr
	}
	if rest.City == "" {
		rest.City = city
	}

	if err := s.repo.UpsertByPlaceID(ctx, rest); err != nil {
		return nil, err
	}
	return rest, nil
}
