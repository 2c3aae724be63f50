package restaurant

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const restaurantColumns = `
	id,
	COALESCE(place_id, ''),
	name,
	address,
	city,
	cuisine,
	rating,
	user_ratings_total,
	phone_number,
	created_at
`

func scanRestaurant(row pgx.Row) (*Restaurant, error) {
	var r Restaurant
	err := row.Scan(
		&r.ID,
		&r.PlaceID,
		&r.Name,
		&r.Address,
		&r.City,
		&r.Cuisine,
		&r.Rating,
		&r.UserRatingsTotal,
		&r.PhoneNumber,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// --------------------------------------------------
// Create-or-update keyed by place identifier
// --------------------------------------------------
func (p *PostgresRepository) UpsertByPlaceID(ctx context.Context, r *Restaurant) error {
	// The place_id uniqueness constraint is the backstop against two
	// concurrent resolutions creating duplicate rows: the loser of the
	// race lands on DO UPDATE and adopts the winner's row id.
	return p.db.QueryRow(ctx, `
		INSERT INTO restaurants (
			place_id,
			name,
			address,
			city,
			cuisine,
			rating,
			user_ratings_total,
			phone_number
		)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (place_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			cuisine = EXCLUDED.cuisine,
			rating = EXCLUDED.rating,
			user_ratings_total = EXCLUDED.user_ratings_total,
			phone_number = EXCLUDED.phone_number,
			updated_at = now()
		RETURNING id, created_at
	`,
		r.PlaceID,
		r.Name,
		r.Address,
		r.City,
		r.Cuisine,
		r.Rating,
		r.UserRatingsTotal,
		r.PhoneNumber,
	).Scan(&r.ID, &r.CreatedAt)
}

// --------------------------------------------------
// Overwrite mutable attributes of an existing row
// --------------------------------------------------
func (p *PostgresRepository) UpdateDetails(ctx context.Context, r *Restaurant) error {
	cmd, err := p.db.Exec(ctx, `
		UPDATE restaurants
		SET place_id = NULLIF($1, ''),
		    address = $2,
		    cuisine = $3,
		    rating = $4,
		    user_ratings_total = $5,
		    phone_number = $6,
		    updated_at = now()
		WHERE id = $7
	`,
		r.PlaceID,
		r.Address,
		r.Cuisine,
		r.Rating,
		r.UserRatingsTotal,
		r.PhoneNumber,
		r.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

// --------------------------------------------------
// Case-insensitive lookup by (name, city)
// --------------------------------------------------
func (p *PostgresRepository) FindByNameCity(ctx context.Context, name, city string) (*Restaurant, error) {
	r, err := scanRestaurant(p.db.QueryRow(ctx, `
		SELECT `+restaurantColumns+`
		FROM restaurants
		WHERE LOWER(name) = LOWER($1)
		  AND LOWER(city) = LOWER($2)
		ORDER BY id
		LIMIT 1
	`, name, city))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

// --------------------------------------------------
// Top-rated restaurants in a city
// --------------------------------------------------
func (p *PostgresRepository) ListByCity(ctx context.Context, city string, limit int) ([]*Restaurant, error) {
	// LIMIT NULL means no limit
	rows, err := p.db.Query(ctx, `
		SELECT `+restaurantColumns+`
		FROM restaurants
		WHERE LOWER(city) = LOWER($1)
		ORDER BY rating DESC NULLS LAST, id
		LIMIT NULLIF($2, 0)
	`, city, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRestaurants(rows)
}

func (p *PostgresRepository) ListByIDs(ctx context.Context, ids []int) ([]*Restaurant, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := p.db.Query(ctx, `
		SELECT `+restaurantColumns+`
		FROM restaurants
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRestaurants(rows)
}

func collectRestaurants(rows pgx.Rows) ([]*Restaurant, error) {
	var out []*Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --------------------------------------------------
// Visit aggregations for the recommendation engine
// --------------------------------------------------
func (p *PostgresRepository) VisitTotalsByUser(ctx context.Context, userID, city string) ([]VisitTotal, error) {
	rows, err := p.db.Query(ctx, `
		SELECT i.restaurant_id, SUM(i.visits) AS total_visits
		FROM interactions i
		JOIN restaurants r ON r.id = i.restaurant_id
		WHERE i.user_id = $1
		  AND LOWER(r.city) = LOWER($2)
		GROUP BY i.restaurant_id
		ORDER BY total_visits DESC, i.restaurant_id
	`, userID, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectVisitTotals(rows)
}

func (p *PostgresRepository) VisitTotalsInCity(ctx context.Context, city string, exclude []int, limit int) ([]VisitTotal, error) {
	if exclude == nil {
		exclude = []int{}
	}

	rows, err := p.db.Query(ctx, `
		SELECT i.restaurant_id, SUM(i.visits) AS total_visits
		FROM interactions i
		JOIN restaurants r ON r.id = i.restaurant_id
		WHERE LOWER(r.city) = LOWER($1)
		  AND NOT (i.restaurant_id = ANY($2))
		GROUP BY i.restaurant_id
		ORDER BY total_visits DESC, i.restaurant_id
		LIMIT NULLIF($3, 0)
	`, city, exclude, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectVisitTotals(rows)
}

func collectVisitTotals(rows pgx.Rows) ([]VisitTotal, error) {
	var out []VisitTotal
	for rows.Next() {
		var vt VisitTotal
		if err := rows.Scan(&vt.RestaurantID, &vt.Visits); err != nil {
			return nil, err
		}
		out = append(out, vt)
	}
	return out, rows.Err()
}

// --------------------------------------------------
// Atomic visit recording
// --------------------------------------------------
const interactionColumns = `
	id, user_id, restaurant_id, visits, last_visited, average_spend
`

func scanInteraction(row pgx.Row) (*Interaction, error) {
	var in Interaction
	err := row.Scan(
		&in.ID,
		&in.UserID,
		&in.RestaurantID,
		&in.Visits,
		&in.LastVisited,
		&in.AverageSpend,
	)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// RecordVisit runs the read-modify-write as one transaction. The
// create path is insert-then-reread: ON CONFLICT DO NOTHING absorbs a
// concurrent insert for the same (user, restaurant), after which the
// existing row is locked and advanced like any other repeat visit.
func (p *PostgresRepository) RecordVisit(
	ctx context.Context,
	userID string,
	restaurantID int,
	visitDate time.Time,
	price decimal.Decimal,
) (*Interaction, error) {

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	lock := `
		SELECT ` + interactionColumns + `
		FROM interactions
		WHERE user_id = $1 AND restaurant_id = $2
		FOR UPDATE
	`

	in, err := scanInteraction(tx.QueryRow(ctx, lock, userID, restaurantID))
	if errors.Is(err, pgx.ErrNoRows) {
		created, err := scanInteraction(tx.QueryRow(ctx, `
			INSERT INTO interactions (user_id, restaurant_id, visits, last_visited, average_spend)
			VALUES ($1, $2, 1, $3, $4)
			ON CONFLICT (user_id, restaurant_id) DO NOTHING
			RETURNING `+interactionColumns+`
		`, userID, restaurantID, visitDate, price))

		if err == nil {
			return created, tx.Commit(ctx)
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}

		// Lost the race: another worker inserted the row first.
		// Treat it as canonical and retry as an update.
		in, err = scanInteraction(tx.QueryRow(ctx, lock, userID, restaurantID))
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	in.applyVisit(visitDate, price)

	_, err = tx.Exec(ctx, `
		UPDATE interactions
		SET visits = $1,
		    last_visited = $2,
		    average_spend = $3,
		    updated_at = now()
		WHERE id = $4
	`, in.Visits, in.LastVisited, in.AverageSpend, in.ID)
	if err != nil {
		return nil, err
	}

	return in, tx.Commit(ctx)
}
