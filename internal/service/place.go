package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jcabrera-io/wayfarer/internal/domain"
)

// PlaceInput carries the caller-supplied fields for creating a place.
type PlaceInput struct {
	Title       string
	Description string
	Address     string
	ImageKey    string
}

// PlaceService handles place creation, update, and deletion, enforcing
// ownership on every mutation. The linked place/owner writes are delegated
// to the coordinator.
type PlaceService struct {
	places   domain.PlaceRepository
	coord    domain.PlaceUserCoordinator
	geocoder domain.Geocoder
	files    domain.FileStore
}

// NewPlaceService creates a new PlaceService.
func NewPlaceService(places domain.PlaceRepository, coord domain.PlaceUserCoordinator, geocoder domain.Geocoder, files domain.FileStore) *PlaceService {
	return &PlaceService{places: places, coord: coord, geocoder: geocoder, files: files}
}

// Create resolves the address, builds the place, and delegates the durable
// two-record write to the coordinator. Geocoding happens first so a failed
// lookup aborts before anything is written.
func (s *PlaceService) Create(ctx context.Context, in PlaceInput, callerID string) (*domain.Place, error) {
	if in.Title == "" || in.Description == "" || in.Address == "" {
		return nil, fmt.Errorf("%w: title, description, and address are required", domain.ErrInvalidInput)
	}

	loc, err := s.geocoder.Resolve(ctx, in.Address)
	if err != nil {
		return nil, err
	}

	place := &domain.Place{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Address:     in.Address,
		Location:    loc,
		ImageKey:    in.ImageKey,
		Creator:     callerID,
	}

	if err := s.coord.LinkOnCreate(ctx, place); err != nil {
		return nil, err
	}
	return place, nil
}

// GetByID returns a place by ID.
func (s *PlaceService) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	return s.places.GetByID(ctx, id)
}

// ListByOwner returns the places created by the given user, in creation
// order. An owner with no places is reported as not found.
func (s *PlaceService) ListByOwner(ctx context.Context, userID string) ([]domain.Place, error) {
	places, err := s.places.ListByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("%w: no places for user %s", domain.ErrNotFound, userID)
	}
	return places, nil
}

// Update applies title and description changes after verifying the caller
// owns the place. Ownership comes from the stored record, never the input.
func (s *PlaceService) Update(ctx context.Context, placeID, title, description, callerID string) (*domain.Place, error) {
	place, err := s.places.GetByID(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if place.Creator != callerID {
		return nil, domain.ErrForbidden
	}

	if title == "" || description == "" {
		return nil, fmt.Errorf("%w: title and description are required", domain.ErrInvalidInput)
	}

	place.Title = title
	place.Description = description
	if err := s.places.Update(ctx, place); err != nil {
		return nil, err
	}
	return place, nil
}

// Delete removes a place after verifying ownership, delegating the linked
// removal to the coordinator. The orphaned image blob is released
// best-effort afterwards; a release failure is logged, never surfaced.
func (s *PlaceService) Delete(ctx context.Context, placeID, callerID string) error {
	place, err := s.places.GetByID(ctx, placeID)
	if err != nil {
		return err
	}
	if place.Creator != callerID {
		return domain.ErrForbidden
	}

	if err := s.coord.UnlinkOnDelete(ctx, place); err != nil {
		return err
	}

	if place.ImageKey != "" {
		if err := s.files.Delete(ctx, place.ImageKey); err != nil && !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("release place image", "key", place.ImageKey, "error", err)
		}
	}
	return nil
}
