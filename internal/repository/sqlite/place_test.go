package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jcabrera-io/wayfarer/internal/domain"
)

func TestPlaceRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.Places().GetByID(ctx, uuid.NewString())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlaceRepository_Update(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createOwner(t, db, "update@example.com")

	place := newPlace(owner.ID)
	if err := db.Coordinator().LinkOnCreate(ctx, place); err != nil {
		t.Fatalf("LinkOnCreate: %v", err)
	}

	place.Title = "Updated Title"
	place.Description = "Updated description"
	if err := db.Places().Update(ctx, place); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := db.Places().GetByID(ctx, place.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Updated Title" || got.Description != "Updated description" {
		t.Fatalf("expected updated fields, got %q / %q", got.Title, got.Description)
	}
	// Address and location are immutable.
	if got.Address != place.Address {
		t.Fatalf("address changed: %q", got.Address)
	}
	if got.Location != place.Location {
		t.Fatalf("location changed: %+v", got.Location)
	}
}

func TestPlaceRepository_Update_NotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := db.Places().Update(ctx, newPlace(uuid.NewString()))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlaceRepository_ListByCreator(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createOwner(t, db, "list@example.com")
	other := createOwner(t, db, "other@example.com")

	mine := newPlace(owner.ID)
	theirs := newPlace(other.ID)
	for _, p := range []*domain.Place{mine, theirs} {
		if err := db.Coordinator().LinkOnCreate(ctx, p); err != nil {
			t.Fatalf("LinkOnCreate: %v", err)
		}
	}

	places, err := db.Places().ListByCreator(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListByCreator: %v", err)
	}
	if len(places) != 1 || places[0].ID != mine.ID {
		t.Fatalf("expected only %s, got %+v", mine.ID, places)
	}
}
