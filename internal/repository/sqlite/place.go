package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jcabrera-io/wayfarer/internal/domain"
)

// PlaceRepository implements domain.PlaceRepository using SQLite. It only
// performs single-record reads and updates; creation and deletion go through
// the Coordinator because they touch the owner's place list as well.
type PlaceRepository struct {
	db *sql.DB
}

func (r *PlaceRepository) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	p := &domain.Place{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, address, lat, lng, image_key, creator_id, created_at, updated_at
		 FROM places WHERE id = ?`, id,
	).Scan(&p.ID, &p.Title, &p.Description, &p.Address, &p.Location.Lat, &p.Location.Lng,
		&p.ImageKey, &p.Creator, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query place: %w", err)
	}
	return p, nil
}

func (r *PlaceRepository) ListByCreator(ctx context.Context, userID string) ([]domain.Place, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.title, p.description, p.address, p.lat, p.lng, p.image_key, p.creator_id, p.created_at, p.updated_at
		 FROM places p
		 JOIN user_places up ON up.place_id = p.id
		 WHERE up.user_id = ?
		 ORDER BY up.position`, userID)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	defer rows.Close()

	var places []domain.Place
	for rows.Next() {
		var p domain.Place
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Address, &p.Location.Lat, &p.Location.Lng,
			&p.ImageKey, &p.Creator, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

// Update persists title and description changes. Address, location and
// creator are immutable after creation and deliberately not written here.
func (r *PlaceRepository) Update(ctx context.Context, place *domain.Place) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE places SET title = ?, description = ?, updated_at = ? WHERE id = ?`,
		place.Title, place.Description, now, place.ID,
	)
	if err != nil {
		return fmt.Errorf("update place: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	place.UpdatedAt = now
	return nil
}
