package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"alunosapi/internal/model"
	"alunosapi/internal/repository"
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
// Duplicates are discriminated by this code, never by message text.
const pgUniqueViolation = "23505"

// birthDateLayout is the wire format of the birth_date DATE column.
const birthDateLayout = "2006-01-02"

// StudentPostgres is a PostgreSQL implementation of repository.StudentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type StudentPostgres struct {
	db *sql.DB
}

// NewStudentPostgres creates a new StudentPostgres repository.
func NewStudentPostgres(db *sql.DB) *StudentPostgres {
	return &StudentPostgres{db: db}
}

var _ repository.StudentRepository = (*StudentPostgres)(nil)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// Create inserts a new student row; id and created_at come from column defaults.
func (r *StudentPostgres) Create(ctx context.Context, s *model.Student) (*model.Student, error) {
	const q = `
		INSERT INTO students (name, matricula, course, age, birth_date, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, matricula, course, age, birth_date, owner_id, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		s.Name,
		s.Matricula,
		s.Course,
		s.Age,
		s.BirthDate,
		s.OwnerID,
	)
	out, err := scanStudent(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicateMatricula
		}
		return nil, err
	}
	return out, nil
}

// FindByID fetches a single student visible to the owner.
func (r *StudentPostgres) FindByID(ctx context.Context, ownerID, id string) (*model.Student, error) {
	const q = `
		SELECT id, name, matricula, course, age, birth_date, owner_id, created_at
		FROM students
		WHERE id = $1 AND owner_id = $2
	`
	row := r.db.QueryRowContext(ctx, q, id, ownerID)
	s, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// List returns the owner's students, newest first.
func (r *StudentPostgres) List(ctx context.Context, ownerID string) ([]model.Student, error) {
	const q = `
		SELECT id, name, matricula, course, age, birth_date, owner_id, created_at
		FROM students
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// Update replaces the mutable columns of an owned row. matricula is not in
// the SET list: it is immutable once assigned.
func (r *StudentPostgres) Update(ctx context.Context, ownerID, id string, s *model.Student) error {
	const q = `
		UPDATE students
		SET name = $1, course = $2, age = $3, birth_date = $4
		WHERE id = $5 AND owner_id = $6
	`
	res, err := r.db.ExecContext(ctx, q, s.Name, s.Course, s.Age, s.BirthDate, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an owned row. Zero affected rows means the id never
// existed, was already deleted, or belongs to someone else.
func (r *StudentPostgres) Delete(ctx context.Context, ownerID, id string) error {
	const q = `DELETE FROM students WHERE id = $1 AND owner_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanStudent reads one row, converting the DATE column back to its ISO
// string form.
func scanStudent(row rowScanner) (*model.Student, error) {
	var (
		s         model.Student
		birthDate time.Time
	)
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Matricula,
		&s.Course,
		&s.Age,
		&birthDate,
		&s.OwnerID,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	s.BirthDate = birthDate.Format(birthDateLayout)
	return &s, nil
}
