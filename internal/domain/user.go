package domain

import (
	"context"
	"time"
)

// User represents a registered account that can own places.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	ImageKey     string
	// Places holds the IDs of the places this user created, in creation
	// order. It mirrors each place's Creator field; the two sides are kept
	// consistent by the PlaceUserCoordinator and must never be written
	// independently.
	Places    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
}
