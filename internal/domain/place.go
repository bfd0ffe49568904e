package domain

import (
	"context"
	"time"
)

// Coordinate is a resolved latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Place represents a point of interest owned by exactly one user.
// Location is derived from Address once at creation and never re-derived.
// Creator is immutable after creation; there is no ownership transfer.
type Place struct {
	ID          string
	Title       string
	Description string
	Address     string
	Location    Coordinate
	ImageKey    string
	Creator     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PlaceRepository defines single-record persistence operations for places.
// Creation and deletion are deliberately absent: they touch the owner's
// place list too and must go through the PlaceUserCoordinator.
type PlaceRepository interface {
	GetByID(ctx context.Context, id string) (*Place, error)
	ListByCreator(ctx context.Context, userID string) ([]Place, error)
	Update(ctx context.Context, place *Place) error
}

// PlaceUserCoordinator performs the linked two-record writes that keep a
// place and its owner's place list consistent. Both writes happen in one
// atomic unit: either the place row and the owner's list entry are both
// durable, or neither is.
type PlaceUserCoordinator interface {
	// LinkOnCreate persists the place and appends its ID to the owner's
	// place list. Fails with ErrOwnerNotFound before any write when the
	// creator does not exist, and with ErrConsistency when the unit
	// cannot commit.
	LinkOnCreate(ctx context.Context, place *Place) error

	// UnlinkOnDelete removes the place and its entry in the owner's place
	// list. Fails with ErrNotFound when the place is absent and with
	// ErrConsistency when the unit cannot commit.
	UnlinkOnDelete(ctx context.Context, place *Place) error
}
