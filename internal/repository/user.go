package repository

import (
	"context"

	"alunosapi/internal/model"
)

// UserRepository defines data access for account records.
type UserRepository interface {
	// Create inserts a new user. The database assigns id and creation
	// time. Returns ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByEmail returns the user with the given email, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID returns the user with the given id, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.User, error)
}
