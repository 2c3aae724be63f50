package receipt

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository mirrors the Postgres repository for tests.
type InMemoryRepository struct {
	mu       sync.Mutex
	receipts map[int]*Receipt
	nextID   int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		receipts: make(map[int]*Receipt),
		nextID:   1,
	}
}

func (m *InMemoryRepository) Create(ctx context.Context, r *Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r.ID = m.nextID
	m.nextID++
	r.Status = StatusPending
	r.CreatedAt = time.Now()

	cp := *r
	m.receipts[r.ID] = &cp
	return nil
}

func (m *InMemoryRepository) ListByUser(ctx context.Context, userID string, month *time.Time) ([]*Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Receipt
	for _, r := range m.receipts {
		if r.UserID != userID {
			continue
		}
		if month != nil && (r.Date.Year() != month.Year() || r.Date.Month() != month.Month()) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].RestaurantName < out[j].RestaurantName
	})
	return out, nil
}

func (m *InMemoryRepository) ClaimPending(ctx context.Context) (*Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var oldest *Receipt
	for _, r := range m.receipts {
		if r.Status != StatusPending {
			continue
		}
		if oldest == nil || r.ID < oldest.ID {
			oldest = r
		}
	}
	if oldest == nil {
		return nil, nil
	}

	oldest.Status = StatusProcessing
	cp := *oldest
	return &cp, nil
}

func (m *InMemoryRepository) MarkProcessed(ctx context.Context, id int) error {
	return m.setStatus(id, StatusProcessed, nil)
}

func (m *InMemoryRepository) MarkFailed(ctx context.Context, id int, reason string) error {
	return m.setStatus(id, StatusFailed, &reason)
}

func (m *InMemoryRepository) setStatus(id int, status string, errMsg *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.receipts[id]
	if !ok {
		return errors.New("receipt not found")
	}
	r.Status = status
	r.Error = errMsg
	return nil
}
