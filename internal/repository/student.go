package repository

import (
	"context"

	"alunosapi/internal/model"
)

// StudentRepository defines data access for student records using SQL
// queries only. No business logic here — strictly persistence operations.
//
// Every method takes the owning user's id and applies it as an explicit
// predicate: row visibility and mutation are scoped to the owner on every
// query, never assumed from the connection.
type StudentRepository interface {
	// Create inserts a new student row. The database assigns id, owner
	// and creation time (owner taken from s.OwnerID, the rest from column
	// defaults). Returns the stored row, or ErrDuplicateMatricula when the
	// matricula is already registered.
	Create(ctx context.Context, s *model.Student) (*model.Student, error)

	// FindByID returns one student owned by ownerID, or ErrNotFound.
	FindByID(ctx context.Context, ownerID, id string) (*model.Student, error)

	// List returns all students owned by ownerID ordered by creation time,
	// newest first. Zero rows is a valid result, not an error.
	List(ctx context.Context, ownerID string) ([]model.Student, error)

	// Update replaces the mutable fields of an existing row. The matricula
	// column is deliberately not part of the statement: it is immutable
	// after creation. Returns ErrNotFound when no owned row matched.
	Update(ctx context.Context, ownerID, id string, s *model.Student) error

	// Delete removes a student row. Returns ErrNotFound when no owned row
	// matched, including a second delete of the same id.
	Delete(ctx context.Context, ownerID, id string) error
}
