package restaurant

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gantaAishwarya/Lunch-log/internal/places"
)

var visitDate = time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)

func TestProcessReceipt_SkipsWithoutCity(t *testing.T) {
	repo := NewInMemoryRepository()
	service := NewService(repo, newFakeResolver())

	err := service.ProcessReceipt(
		context.Background(),
		"user-1", "NoCityResto", "", visitDate, decimal.NewFromInt(15),
	)
	if err != nil {
		t.Fatalf("skip must not be an error, got %v", err)
	}

	if r, _ := repo.FindByNameCity(context.Background(), "NoCityResto", ""); r != nil {
		t.Fatal("restaurant must not be created without a city")
	}
	if len(repo.interactions) != 0 {
		t.Fatal("no interaction must be recorded on skip")
	}
}

func TestProcessReceipt_SkipsWithoutPlaceID(t *testing.T) {
	repo := NewInMemoryRepository()
	resolver := newFakeResolver() // resolver knows nothing

	service := NewService(repo, resolver)

	err := service.ProcessReceipt(
		context.Background(),
		"user-1", "Unknown Resto", "12345 Berlin Street, Berlin", visitDate, decimal.NewFromInt(20),
	)
	if err != nil {
		t.Fatalf("skip must not be an error, got %v", err)
	}

	if len(repo.restaurants) != 0 {
		t.Fatal("restaurant must not be created without a verified place id")
	}
}

func TestProcessReceipt_CreatesRestaurantAndInteraction(t *testing.T) {
	repo := NewInMemoryRepository()
	resolver := newFakeResolver()
	resolver.details[resolverKey("Test Resto", "Berlin Street")] = &places.Details{
		PlaceID:          "abc123",
		Name:             "Test Resto",
		Address:          "12345 Berlin Street, Berlin",
		City:             "Berlin Street",
		Cuisine:          []string{"italian"},
		Rating:           floatPtr(4.5),
		UserRatingsTotal: intPtr(50),
	}

	service := NewService(repo, resolver)

	err := service.ProcessReceipt(
		context.Background(),
		"user-1", "Test Resto", "12345 Berlin Street, Berlin", visitDate, decimal.NewFromFloat(20.0),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rest, _ := repo.FindByNameCity(context.Background(), "test resto", "berlin street")
	if rest == nil {
		t.Fatal("restaurant should exist (case-insensitive lookup)")
	}
	if rest.PlaceID != "abc123" {
		t.Errorf("expected place id abc123, got %s", rest.PlaceID)
	}

	in := repo.interactions[interactionKey("user-1", rest.ID)]
	if in == nil {
		t.Fatal("interaction should be created")
	}
	if in.Visits != 1 {
		t.Errorf("expected 1 visit, got %d", in.Visits)
	}
	if !in.AverageSpend.Valid || !in.AverageSpend.Decimal.Equal(decimal.NewFromFloat(20.0)) {
		t.Errorf("expected average 20.00, got %v", in.AverageSpend)
	}
}

func TestProcessReceipt_Idempotence(t *testing.T) {
	repo := NewInMemoryRepository()
	resolver := newFakeResolver()
	resolver.details[resolverKey("Test Resto", "Berlin")] = &places.Details{
		PlaceID: "abc123",
		Name:    "Test Resto",
		Address: "123 Main St, Berlin, Germany",
		City:    "Berlin",
	}

	service := NewService(repo, resolver)

	for i := 0; i < 2; i++ {
		err := service.ProcessReceipt(
			context.Background(),
			"user-1", "Test Resto", "123 Main St, Berlin, Germany", visitDate, decimal.NewFromFloat(25.0),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(repo.restaurants) != 1 {
		t.Fatalf("expected one restaurant, got %d", len(repo.restaurants))
	}

	rest, _ := repo.FindByNameCity(context.Background(), "Test Resto", "Berlin")
	in := repo.interactions[interactionKey("user-1", rest.ID)]
	if in.Visits != 2 {
		t.Errorf("expected 2 visits, got %d", in.Visits)
	}
	if !in.AverageSpend.Decimal.Equal(decimal.NewFromFloat(25.0)) {
		t.Errorf("equal prices must keep the average at 25.00, got %s", in.AverageSpend.Decimal)
	}
}

func TestProcessReceipt_ResolverErrorOnNewRestaurant(t *testing.T) {
	repo := NewInMemoryRepository()
	resolver := newFakeResolver()
	resolver.resolveErr = context.DeadlineExceeded

	service := NewService(repo, resolver)

	err := service.ProcessReceipt(
		context.Background(),
		"user-1", "Test Resto", "123 Main St, Berlin, Germany", visitDate, decimal.NewFromInt(20),
	)
	if err == nil {
		t.Fatal("provider failure for an unseen restaurant must surface")
	}
	if len(repo.restaurants) != 0 || len(repo.interactions) != 0 {
		t.Fatal("nothing may be written when resolution fails")
	}
}

func TestProcessReceipt_RefreshOverwritesOnNewPlaceID(t *testing.T) {
	repo := NewInMemoryRepository()
	resolver := newFakeResolver()

	service := NewService(repo, resolver)

	seeded := &Restaurant{
		PlaceID: "old-id",
		Name:    "Test Resto",
		Address: "Old Street 1, Berlin",
		City:    "Berlin",
		Cuisine: []string{"german"},
	}
	if err := repo.UpsertByPlaceID(context.Background(), seeded); err != nil {
		t.Fatal(err)
	}

	resolver.details[resolverKey("Test Resto", "Berlin")] = &places.Details{
		PlaceID: "new-id",
		Name:    "Test Resto",
		Address: "New Street 2, Berlin",
		City:    "Berlin",
		Cuisine: []string{"italian"},
		Rating:  floatPtr(4.8),
	}

	err := service.ProcessReceipt(
		context.Background(),
		"user-1", "Test Resto", "123 Main St, Berlin, Germany", visitDate, decimal.NewFromInt(30),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rest, _ := repo.FindByNameCity(context.Background(), "Test Resto", "Berlin")
	if rest.PlaceID != "new-id" {
		t.Errorf("expected refreshed place id, got %s", rest.PlaceID)
	}
	if rest.Address != "New Street 2, Berlin" {
		t.Errorf("expected refreshed address, got %s", rest.Address)
	}
	if rest.Rating == nil || *rest.Rating != 4.8 {
		t.Errorf("expected refreshed rating, got %v", rest.Rating)
	}
}

func TestProcessReceipt_RefreshFailureStillRecordsVisit(t *testing.T) {
	repo := NewInMemoryRepository()
	resolver := newFakeResolver()

	service := NewService(repo, resolver)

	seeded := &Restaurant{PlaceID: "p1", Name: "Test Resto", City: "Berlin"}
	if err := repo.UpsertByPlaceID(context.Background(), seeded); err != nil {
		t.Fatal(err)
	}

	resolver.resolveErr = context.DeadlineExceeded

	err := service.ProcessReceipt(
		context.Background(),
		"user-1", "Test Resto", "123 Main St, Berlin, Germany", visitDate, decimal.NewFromInt(30),
	)
	if err != nil {
		t.Fatalf("refresh failure must not block the visit, got %v", err)
	}

	if in := repo.interactions[interactionKey("user-1", seeded.ID)]; in == nil {
		t.Fatal("visit should still be recorded")
	}
}

func TestRecordVisit_IncrementalAverage(t *testing.T) {
	repo := NewInMemoryRepository()

	rest := &Restaurant{PlaceID: "p1", Name: "UpdateTest Resto", City: "Berlin"}
	if err := repo.UpsertByPlaceID(context.Background(), rest); err != nil {
		t.Fatal(err)
	}

	first, err := repo.RecordVisit(context.Background(), "user-1", rest.ID, visitDate, decimal.NewFromFloat(25.0))
	if err != nil {
		t.Fatal(err)
	}
	if first.Visits != 1 {
		t.Errorf("expected 1 visit, got %d", first.Visits)
	}
	if !first.AverageSpend.Decimal.Equal(decimal.NewFromFloat(25.0)) {
		t.Errorf("expected average 25.00, got %s", first.AverageSpend.Decimal)
	}

	later := visitDate.AddDate(0, 0, 3)
	second, err := repo.RecordVisit(context.Background(), "user-1", rest.ID, later, decimal.NewFromFloat(35.0))
	if err != nil {
		t.Fatal(err)
	}
	if second.Visits != 2 {
		t.Errorf("expected 2 visits, got %d", second.Visits)
	}
	if !second.AverageSpend.Decimal.Equal(decimal.NewFromFloat(30.0)) {
		t.Errorf("expected average exactly 30.00, got %s", second.AverageSpend.Decimal)
	}
	if !second.LastVisited.Equal(later) {
		t.Errorf("expected last visited %s, got %s", later, second.LastVisited)
	}

	// An older receipt must not move last_visited backwards.
	third, err := repo.RecordVisit(context.Background(), "user-1", rest.ID, visitDate.AddDate(0, 0, -10), decimal.NewFromFloat(30.0))
	if err != nil {
		t.Fatal(err)
	}
	if !third.LastVisited.Equal(later) {
		t.Errorf("last visited moved backwards: %s", third.LastVisited)
	}
}

func intPtr(v int) *int { return &v }
