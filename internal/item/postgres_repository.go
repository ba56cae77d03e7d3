package item

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderlist/wanderlist/pkg/geo"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// Itinerary, road trip, images, and interests are stored as JSONB; they are
// owned by the item row and have no independent lifecycle.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL item repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const itemColumns = `
	id, user_id, title, description, location_name,
	lat, lon, images, completed, completed_at,
	category, interests, display_owner, best_time_to_visit,
	itinerary, road_trip, created_at, updated_at
`

// GetByUserAndID retrieves an item scoped to a user.
func (r *PostgresRepository) GetByUserAndID(ctx context.Context, userID, itemID string) (*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND user_id = $2`

	row := r.pool.QueryRow(ctx, query, itemID, userID)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return it, nil
}

// List retrieves all items for a user in creation order.
func (r *PostgresRepository) List(ctx context.Context, userID string, filter ListFilter) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Interest != "" {
		args = append(args, filter.Interest)
		query += fmt.Sprintf(" AND interests @> to_jsonb(ARRAY[$%d::text])", len(args))
	}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		query += fmt.Sprintf(" AND completed = $%d", len(args))
	}

	query += " ORDER BY created_at, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

// Create creates a new item.
func (r *PostgresRepository) Create(ctx context.Context, it *Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	args, err := itemArgs(it)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return err
}

// Update replaces an existing item by ID.
func (r *PostgresRepository) Update(ctx context.Context, it *Item) error {
	query := `
		UPDATE items SET
			title = $3, description = $4, location_name = $5,
			lat = $6, lon = $7, images = $8, completed = $9, completed_at = $10,
			category = $11, interests = $12, display_owner = $13, best_time_to_visit = $14,
			itinerary = $15, road_trip = $16, created_at = $17, updated_at = $18
		WHERE id = $1 AND user_id = $2
	`

	args, err := itemArgs(it)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Delete deletes an item by ID.
func (r *PostgresRepository) Delete(ctx context.Context, userID, itemID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func itemArgs(it *Item) ([]interface{}, error) {
	images, err := json.Marshal(it.Images)
	if err != nil {
		return nil, fmt.Errorf("marshal images: %w", err)
	}
	interests, err := json.Marshal(it.Interests)
	if err != nil {
		return nil, fmt.Errorf("marshal interests: %w", err)
	}
	itinerary, err := json.Marshal(it.Itinerary)
	if err != nil {
		return nil, fmt.Errorf("marshal itinerary: %w", err)
	}

	var roadTrip []byte
	if it.RoadTrip != nil {
		roadTrip, err = json.Marshal(it.RoadTrip)
		if err != nil {
			return nil, fmt.Errorf("marshal road trip: %w", err)
		}
	}

	var lat, lon *float64
	if it.Coordinates != nil {
		lat, lon = &it.Coordinates.Lat, &it.Coordinates.Lon
	}

	return []interface{}{
		it.ID, it.UserID, it.Title, it.Description, it.LocationName,
		lat, lon, images, it.Completed, it.CompletedAt,
		it.Category, interests, it.Owner, it.BestTimeToVisit,
		itinerary, roadTrip, it.CreatedAt, it.UpdatedAt,
	}, nil
}

func scanItem(row pgx.Row) (*Item, error) {
	var (
		it        Item
		lat, lon  *float64
		images    []byte
		interests []byte
		itinerary []byte
		roadTrip  []byte
	)

	err := row.Scan(
		&it.ID, &it.UserID, &it.Title, &it.Description, &it.LocationName,
		&lat, &lon, &images, &it.Completed, &it.CompletedAt,
		&it.Category, &interests, &it.Owner, &it.BestTimeToVisit,
		&itinerary, &roadTrip, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat != nil && lon != nil {
		it.Coordinates = &geo.Coordinate{Lat: *lat, Lon: *lon}
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &it.Images); err != nil {
			return nil, fmt.Errorf("unmarshal images: %w", err)
		}
	}
	if len(interests) > 0 {
		if err := json.Unmarshal(interests, &it.Interests); err != nil {
			return nil, fmt.Errorf("unmarshal interests: %w", err)
		}
	}
	if len(itinerary) > 0 {
		if err := json.Unmarshal(itinerary, &it.Itinerary); err != nil {
			return nil, fmt.Errorf("unmarshal itinerary: %w", err)
		}
	}
	if len(roadTrip) > 0 {
		if err := json.Unmarshal(roadTrip, &it.RoadTrip); err != nil {
			return nil, fmt.Errorf("unmarshal road trip: %w", err)
		}
	}

	return &it, nil
}
