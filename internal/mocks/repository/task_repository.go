package repository

import (
	"context"
	"testing"

	"taskvault/internal/domain/entity"
	"taskvault/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTaskRepository mocks repository.TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

// NewMockTaskRepository creates a mock bound to the test's lifetime.
func NewMockTaskRepository(t *testing.T) *MockTaskRepository {
	m := &MockTaskRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	args := m.Called(ctx, id)
	if task, ok := args.Get(0).(*entity.Task); ok {
		return task, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockTaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter repository.TaskFilter) ([]*entity.Task, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	tasks, _ := args.Get(0).([]*entity.Task)

	return tasks, args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) Create(ctx context.Context, task *entity.Task) error {
	args := m.Called(ctx, task)

	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, id uuid.UUID, update repository.TaskUpdate) (*entity.Task, error) {
	args := m.Called(ctx, id, update)
	if task, ok := args.Get(0).(*entity.Task); ok {
		return task, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
