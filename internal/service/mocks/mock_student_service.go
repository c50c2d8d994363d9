package mocks

import (
	"context"

	"alunosapi/internal/model"
	"alunosapi/internal/service"
	"alunosapi/internal/validation"
	"github.com/stretchr/testify/mock"
)

type MockStudentService struct {
	mock.Mock
}

func (m *MockStudentService) List(ctx context.Context, ownerID string) (*service.StudentListResult, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StudentListResult), args.Error(1)
}

func (m *MockStudentService) Get(ctx context.Context, ownerID, id string) (*model.Student, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentService) Create(ctx context.Context, ownerID string, in validation.StudentInput) (*model.Student, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentService) Update(ctx context.Context, ownerID, id string, in validation.StudentInput) error {
	args := m.Called(ctx, ownerID, id, in)
	return args.Error(0)
}

func (m *MockStudentService) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}
