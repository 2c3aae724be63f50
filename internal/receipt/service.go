package receipt

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

// VisitRecorder is the interaction updater the worker hands each
// claimed receipt to. Implemented by restaurant.Service.
type VisitRecorder interface {
	ProcessReceipt(
		ctx context.Context,
		userID string,
		restaurantName string,
		address string,
		visitDate time.Time,
		price decimal.Decimal,
	) error
}

type Service struct {
	repo   Repository
	visits VisitRecorder
}

func NewService(repo Repository, visits VisitRecorder) *Service {
	return &Service{
		repo:   repo,
		visits: visits,
	}
}

// ProcessOne claims and processes a single pending receipt.
// An empty queue is NOT an error. A failing receipt is marked FAILED
// and never blocks the worker.
func (s *Service) ProcessOne(ctx context.Context) error {
	r, err := s.repo.ClaimPending(ctx)
	if err != nil {
		return err
	}
	if r == nil {
		return nil
	}

	err = s.visits.ProcessReceipt(
		ctx,
		r.UserID,
		r.RestaurantName,
		r.Address,
		r.Date,
		r.Price,
	)
	if err != nil {
		log.Printf("[RECEIPT] processing failed id=%d: %v", r.ID, err)
		return s.repo.MarkFailed(ctx, r.ID, err.Error())
	}

	return s.repo.MarkProcessed(ctx, r.ID)
}

// Run polls the queue until the context is cancelled.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Println("Receipt worker started")

	for {
		select {
		case <-ctx.Done():
			log.Println("Receipt worker stopped")
			return
		case <-ticker.C:
			if err := s.ProcessOne(ctx); err != nil {
				log.Printf("⚠️  receipt worker error: %v", err)
			}
		}
	}
}
