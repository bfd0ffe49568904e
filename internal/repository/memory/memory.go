// Package memory provides an in-memory store implementing the domain
// repository and coordinator interfaces. It exists for tests: unlike the
// SQLite store it can inject write failures mid-unit, which makes the
// all-or-nothing behavior of the coordinator observable.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/jcabrera-io/wayfarer/internal/domain"
)

// Store keeps users, places and the owned-places lists behind one mutex.
type Store struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	places map[string]*domain.Place
	owned  map[string][]string
	files  map[string][]byte

	// FailOwnerWrite makes the next owner-list write inside a coordinator
	// unit fail after the place write already happened, forcing the unit
	// to roll back.
	FailOwnerWrite bool
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]*domain.User),
		places: make(map[string]*domain.Place),
		owned:  make(map[string][]string),
		files:  make(map[string][]byte),
	}
}

func (s *Store) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	cp.Places = slices.Clone(s.owned[id])
	return &cp, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			cp.Places = slices.Clone(s.owned[u.ID])
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) List(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []domain.User
	for _, u := range s.users {
		cp := *u
		cp.Places = slices.Clone(s.owned[u.ID])
		users = append(users, cp)
	}
	return users, nil
}

func (s *Store) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) ListByCreator(ctx context.Context, userID string) ([]domain.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var places []domain.Place
	for _, id := range s.owned[userID] {
		if p, ok := s.places[id]; ok {
			places = append(places, *p)
		}
	}
	return places, nil
}

func (s *Store) UpdatePlace(ctx context.Context, place *domain.Place) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.places[place.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Title = place.Title
	existing.Description = place.Description
	return nil
}

// LinkOnCreate mirrors the transactional coordinator: verify the owner,
// write the place, append to the owner's list. A FailOwnerWrite injection
// reverts the place write so neither side is left applied.
func (s *Store) LinkOnCreate(ctx context.Context, place *domain.Place) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[place.Creator]; !ok {
		return domain.ErrOwnerNotFound
	}

	cp := *place
	s.places[place.ID] = &cp

	if s.FailOwnerWrite {
		delete(s.places, place.ID)
		return fmt.Errorf("%w: injected owner write failure", domain.ErrConsistency)
	}

	s.owned[place.Creator] = append(s.owned[place.Creator], place.ID)
	return nil
}

func (s *Store) UnlinkOnDelete(ctx context.Context, place *domain.Place) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.places[place.ID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.places, place.ID)

	if s.FailOwnerWrite {
		cp := *place
		s.places[place.ID] = &cp
		return fmt.Errorf("%w: injected owner write failure", domain.ErrConsistency)
	}

	list := s.owned[place.Creator]
	if i := slices.Index(list, place.ID); i >= 0 {
		s.owned[place.Creator] = slices.Delete(list, i, i+1)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = slices.Clone(data)
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(data), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	return nil
}

// placeRepo adapts Store to domain.PlaceRepository, whose method names
// collide with the user repository's.
type placeRepo struct{ s *Store }

func (r placeRepo) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	return r.s.GetPlace(ctx, id)
}

func (r placeRepo) ListByCreator(ctx context.Context, userID string) ([]domain.Place, error) {
	return r.s.ListByCreator(ctx, userID)
}

func (r placeRepo) Update(ctx context.Context, place *domain.Place) error {
	return r.s.UpdatePlace(ctx, place)
}

// PlaceRepo returns the store viewed as a domain.PlaceRepository.
func (s *Store) PlaceRepo() domain.PlaceRepository {
	return placeRepo{s: s}
}
