package user

import (
	"context"

	"clinica/pkg/domain"
)

// Store is the user repository contract. Save is insert-or-replace by id;
// FindByID reports sentinel.ErrNotFound for unknown ids.
type Store interface {
	Save(ctx context.Context, u *User) (*User, error)
	FindByID(ctx context.Context, id domain.UserID) (*User, error)
	SearchByName(ctx context.Context, fragment string) ([]*User, error)
}
