package repository

import (
	"context"
	"errors"

	"taskvault/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrTaskNotFound is a domain-specific error returned when a task is not found.
var ErrTaskNotFound = errors.New("task not found")

// TaskFilter narrows and pages a task listing. Page and Limit are
// 1-based; Status and Search are optional.
type TaskFilter struct {
	Status *entity.TaskStatus // Exact status match when set.
	Search string             // Case-insensitive title substring when non-empty.
	Page   int
	Limit  int
}

// TaskUpdate carries a partial update; nil fields are left untouched.
// Description, when set, must already be in its at-rest encoding.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *entity.TaskStatus
}

// TaskRepository defines the standard operations for task persistence.
// The Description field crosses this boundary in its encrypted at-rest
// encoding only; the application layer owns encryption and decryption.
type TaskRepository interface {
	// FindByID retrieves a single task by its unique ID, regardless of owner.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Task, error)

	// ListByOwner returns one page of an owner's tasks ordered by
	// creation time descending, plus the total row count for the filter.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]*entity.Task, int64, error)

	// Create persists a new task entity to the storage.
	Create(ctx context.Context, task *entity.Task) error

	// Update applies a partial update to the task with the given ID.
	Update(ctx context.Context, id uuid.UUID, update TaskUpdate) (*entity.Task, error)

	// Delete removes the task with the given ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
