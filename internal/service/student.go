package service

import (
	"context"
	"errors"

	"alunosapi/internal/model"
	"alunosapi/internal/repository"
	"alunosapi/internal/validation"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("student not found")
	ErrDuplicateMatricula = errors.New("matricula already registered")
)

// StudentListResult is the service-level DTO for the student list.
type StudentListResult struct {
	Items []model.Student `json:"data"`
	Total int             `json:"total"`
}

// StudentService defines the use cases for handling student records. Every
// method is scoped to the acting user: ownerID is the authenticated
// identity resolved by the session layer, never client-supplied.
type StudentService interface {
	// List returns the owner's students, newest first. Zero records is a
	// valid result.
	List(ctx context.Context, ownerID string) (*StudentListResult, error)

	// Get returns a single owned student by id.
	Get(ctx context.Context, ownerID, id string) (*model.Student, error)

	// Create validates raw form input and persists a new student. Returns
	// validation.FieldErrors for rule violations and ErrDuplicateMatricula
	// when the matricula is taken; the two are distinct because the client
	// renders them differently.
	Create(ctx context.Context, ownerID string, in validation.StudentInput) (*model.Student, error)

	// Update validates raw form input and replaces an owned record in
	// full. The stored matricula is kept regardless of the input value.
	Update(ctx context.Context, ownerID, id string, in validation.StudentInput) error

	// Delete removes an owned record. Deleting an already-deleted id
	// reports ErrNotFound, not success.
	Delete(ctx context.Context, ownerID, id string) error
}

// studentService is a concrete implementation of StudentService.
type studentService struct {
	repo repository.StudentRepository
}

// NewStudentService constructs a new StudentService.
func NewStudentService(repo repository.StudentRepository) StudentService {
	return &studentService{repo: repo}
}

func (s *studentService) List(ctx context.Context, ownerID string) (*StudentListResult, error) {
	items, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &StudentListResult{Items: items, Total: len(items)}, nil
}

func (s *studentService) Get(ctx context.Context, ownerID, id string) (*model.Student, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	student, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return student, nil
}

func (s *studentService) Create(ctx context.Context, ownerID string, in validation.StudentInput) (*model.Student, error) {
	student, fieldErrs := validation.ValidateStudent(in)
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}
	student.OwnerID = ownerID

	stored, err := s.repo.Create(ctx, &student)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateMatricula) {
			return nil, ErrDuplicateMatricula
		}
		return nil, err
	}
	return stored, nil
}

func (s *studentService) Update(ctx context.Context, ownerID, id string, in validation.StudentInput) error {
	if id == "" {
		return ErrIDRequired
	}
	student, fieldErrs := validation.ValidateStudent(in)
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	if err := s.repo.Update(ctx, ownerID, id, &student); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *studentService) Delete(ctx context.Context, ownerID, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
