package usecase

import (
	"context"

	"taskvault/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CreateTaskInput defines the data required to create a task.
type CreateTaskInput struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Status      entity.TaskStatus
}

// UpdateTaskInput carries a partial update; nil fields are left untouched.
type UpdateTaskInput struct {
	OwnerID     uuid.UUID
	TaskID      uuid.UUID
	Title       *string
	Description *string
	Status      *entity.TaskStatus
}

// ListTasksInput defines filtering and paging for a task listing.
type ListTasksInput struct {
	OwnerID uuid.UUID
	Status  *entity.TaskStatus
	Search  string
	Page    int
	Limit   int
}

// --- Output DTOs ---

// Pagination describes the page window of a listing result.
type Pagination struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// ListTasksOutput returns one page of tasks, newest first.
type ListTasksOutput struct {
	Tasks      []*entity.Task
	Pagination Pagination
}

// TaskUsecase defines the interface for task-related business operations.
type TaskUsecase interface {
	CreateTask(ctx context.Context, input *CreateTaskInput) (*entity.Task, error)
	GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*entity.Task, error)
	ListTasks(ctx context.Context, input *ListTasksInput) (*ListTasksOutput, error)
	UpdateTask(ctx context.Context, input *UpdateTaskInput) (*entity.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error
}
