package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jcabrera-io/wayfarer/internal/domain"
)

// Coordinator implements domain.PlaceUserCoordinator using SQLite
// transactions. It is the only component allowed to write the place row and
// the owner's user_places entry; routing either write around it breaks the
// back-reference invariant.
type Coordinator struct {
	db *sql.DB
}

// LinkOnCreate persists the place and appends it to the owner's place list
// in one transaction. When the owner does not exist the unit aborts before
// any write.
func (c *Coordinator) LinkOnCreate(ctx context.Context, place *domain.Place) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var ownerID string
	err = tx.QueryRowContext(ctx, "SELECT id FROM users WHERE id = ?", place.Creator).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrOwnerNotFound
	}
	if err != nil {
		return fmt.Errorf("look up owner: %w", err)
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO places (id, title, description, address, lat, lng, image_key, creator_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		place.ID, place.Title, place.Description, place.Address,
		place.Location.Lat, place.Location.Lng, place.ImageKey, place.Creator, now, now,
	)
	if err != nil {
		return fmt.Errorf("%w: insert place: %w", domain.ErrConsistency, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_places (user_id, place_id, position)
		 SELECT ?, ?, COALESCE(MAX(position) + 1, 0) FROM user_places WHERE user_id = ?`,
		place.Creator, place.ID, place.Creator,
	)
	if err != nil {
		return fmt.Errorf("%w: append to owner list: %w", domain.ErrConsistency, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit link: %w", domain.ErrConsistency, err)
	}

	place.CreatedAt = now
	place.UpdatedAt = now
	return nil
}

// UnlinkOnDelete removes the place and its entry in the owner's place list
// in one transaction.
func (c *Coordinator) UnlinkOnDelete(ctx context.Context, place *domain.Place) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "DELETE FROM places WHERE id = ?", place.ID)
	if err != nil {
		return fmt.Errorf("%w: delete place: %w", domain.ErrConsistency, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM user_places WHERE user_id = ? AND place_id = ?",
		place.Creator, place.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: remove from owner list: %w", domain.ErrConsistency, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit unlink: %w", domain.ErrConsistency, err)
	}
	return nil
}
