package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jcabrera-io/wayfarer/internal/domain"
	"github.com/jcabrera-io/wayfarer/internal/repository/memory"
	"github.com/jcabrera-io/wayfarer/internal/service"
)

// stubGeocoder resolves every address to a fixed coordinate, or fails when
// configured to.
type stubGeocoder struct {
	coord domain.Coordinate
	err   error
	calls int
}

func (g *stubGeocoder) Resolve(ctx context.Context, address string) (domain.Coordinate, error) {
	g.calls++
	if g.err != nil {
		return domain.Coordinate{}, g.err
	}
	return g.coord, nil
}

func newPlaceFixture(t *testing.T) (*service.PlaceService, *memory.Store, *stubGeocoder, *domain.User) {
	t.Helper()
	store := memory.NewStore()
	geo := &stubGeocoder{coord: domain.Coordinate{Lat: 40.7484474, Lng: -73.9871516}}
	svc := service.NewPlaceService(store.PlaceRepo(), store, geo, store)

	owner := &domain.User{ID: uuid.NewString(), Email: "owner@x.com", Name: "Owner"}
	if err := store.Create(context.Background(), owner); err != nil {
		t.Fatalf("create owner: %v", err)
	}
	return svc, store, geo, owner
}

func validInput() service.PlaceInput {
	return service.PlaceInput{
		Title:       "Empire State Building",
		Description: "One of the famous sky scrapers in the world",
		Address:     "20 W 34th St, New York",
	}
}

func TestPlaceService_Create(t *testing.T) {
	svc, store, geo, owner := newPlaceFixture(t)
	ctx := context.Background()

	place, err := svc.Create(ctx, validInput(), owner.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if place.Creator != owner.ID {
		t.Fatalf("expected creator %s, got %s", owner.ID, place.Creator)
	}
	if place.Location != geo.coord {
		t.Fatalf("expected resolved location %+v, got %+v", geo.coord, place.Location)
	}

	// The place and the owner's list must both reflect the link.
	got, err := store.GetByID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("get owner: %v", err)
	}
	if len(got.Places) != 1 || got.Places[0] != place.ID {
		t.Fatalf("expected owner places [%s], got %v", place.ID, got.Places)
	}
}

func TestPlaceService_Create_GeocodeFailureAbortsBeforeWrite(t *testing.T) {
	svc, store, geo, owner := newPlaceFixture(t)
	geo.err = fmt.Errorf("%w: no result", domain.ErrGeocodeFailure)
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput(), owner.ID)
	if !errors.Is(err, domain.ErrGeocodeFailure) {
		t.Fatalf("expected ErrGeocodeFailure, got %v", err)
	}

	got, _ := store.GetByID(ctx, owner.ID)
	if len(got.Places) != 0 {
		t.Fatalf("expected no places after aborted create, got %v", got.Places)
	}
}

func TestPlaceService_Create_OwnerNotFound(t *testing.T) {
	svc, _, geo, _ := newPlaceFixture(t)

	_, err := svc.Create(context.Background(), validInput(), uuid.NewString())
	if !errors.Is(err, domain.ErrOwnerNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
	if geo.calls != 1 {
		t.Fatalf("expected geocoder consulted once, got %d", geo.calls)
	}
}

func TestPlaceService_Create_RollbackOnOwnerWriteFailure(t *testing.T) {
	svc, store, _, owner := newPlaceFixture(t)
	store.FailOwnerWrite = true
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput(), owner.ID)
	if !errors.Is(err, domain.ErrConsistency) {
		t.Fatalf("expected ErrConsistency, got %v", err)
	}

	// Neither side may survive a failed unit.
	places, _ := store.ListByCreator(ctx, owner.ID)
	if len(places) != 0 {
		t.Fatalf("expected no places after rollback, got %d", len(places))
	}
	got, _ := store.GetByID(ctx, owner.ID)
	if len(got.Places) != 0 {
		t.Fatalf("expected empty owner list after rollback, got %v", got.Places)
	}
}

func TestPlaceService_Update_Forbidden(t *testing.T) {
	svc, store, _, owner := newPlaceFixture(t)
	ctx := context.Background()

	place, err := svc.Create(ctx, validInput(), owner.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Update(ctx, place.ID, "Hijacked", "Hijacked", uuid.NewString())
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// No state change on a forbidden mutation.
	got, _ := store.GetPlace(ctx, place.ID)
	if got.Title != place.Title {
		t.Fatalf("title changed on forbidden update: %q", got.Title)
	}
}

func TestPlaceService_Update(t *testing.T) {
	svc, _, _, owner := newPlaceFixture(t)
	ctx := context.Background()

	place, err := svc.Create(ctx, validInput(), owner.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(ctx, place.ID, "New Title", "New description", owner.ID)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "New Title" {
		t.Fatalf("expected updated title, got %q", updated.Title)
	}
}

func TestPlaceService_Update_NotFound(t *testing.T) {
	svc, _, _, owner := newPlaceFixture(t)

	_, err := svc.Update(context.Background(), uuid.NewString(), "T", "D", owner.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlaceService_Delete_Forbidden(t *testing.T) {
	svc, store, _, owner := newPlaceFixture(t)
	ctx := context.Background()

	place, err := svc.Create(ctx, validInput(), owner.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	err = svc.Delete(ctx, place.ID, uuid.NewString())
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := store.GetPlace(ctx, place.ID); err != nil {
		t.Fatalf("place should survive forbidden delete: %v", err)
	}
}

func TestPlaceService_Delete(t *testing.T) {
	svc, store, _, owner := newPlaceFixture(t)
	ctx := context.Background()

	in := validInput()
	in.ImageKey = "img-key.png"
	if err := store.Save(ctx, in.ImageKey, []byte("png bytes")); err != nil {
		t.Fatalf("save image: %v", err)
	}

	place, err := svc.Create(ctx, in, owner.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, place.ID, owner.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// Place gone, owner list empty, image released.
	if _, err := store.GetPlace(ctx, place.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected place deleted, got %v", err)
	}
	got, _ := store.GetByID(ctx, owner.ID)
	if len(got.Places) != 0 {
		t.Fatalf("expected empty owner list, got %v", got.Places)
	}
	if _, err := store.Get(ctx, in.ImageKey); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected image released, got %v", err)
	}
}

func TestPlaceService_ListByOwner_Empty(t *testing.T) {
	svc, _, _, owner := newPlaceFixture(t)

	_, err := svc.ListByOwner(context.Background(), owner.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty owner, got %v", err)
	}
}
