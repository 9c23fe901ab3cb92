package impl

import (
	"context"
	"log/slog"
	"math"

	deliverycontext "taskvault/internal/delivery/context"
	"taskvault/internal/domain/entity"
	domainerrors "taskvault/internal/domain/errors"
	"taskvault/internal/domain/repository"
	"taskvault/internal/domain/service"
	"taskvault/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	// decryptFailedPlaceholder replaces a description whose stored ciphertext
	// can no longer be opened. A single corrupted record must not take the
	// whole listing down with it.
	decryptFailedPlaceholder = "[Decryption failed]"
)

// taskService implements the TaskUsecase interface.
type taskService struct {
	taskRepo repository.TaskRepository
	cipher   service.FieldCipher
	logger   *slog.Logger
}

// TaskServiceParams holds dependencies for taskService, injected by Fx.
type TaskServiceParams struct {
	fx.In

	TaskRepo repository.TaskRepository
	Cipher   service.FieldCipher
	Logger   *slog.Logger
}

// NewTaskService is the constructor for taskService.
func NewTaskService(params TaskServiceParams) usecase.TaskUsecase {
	return &taskService{
		taskRepo: params.TaskRepo,
		cipher:   params.Cipher,
		logger:   params.Logger,
	}
}

func (srv *taskService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateTask encrypts the description and stores a new task for the caller.
func (srv *taskService) CreateTask(ctx context.Context, input *usecase.CreateTaskInput) (*entity.Task, error) {
	status := input.Status
	if status == "" {
		status = entity.TaskStatusTodo
	}

	encrypted, err := srv.cipher.Encrypt(input.Description)
	if err != nil {
		srv.log(ctx).Error("Failed to encrypt task description", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to encrypt task description")
	}

	task := &entity.Task{
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Description: encrypted,
		Status:      status,
	}
	if err := srv.taskRepo.Create(ctx, task); err != nil {
		srv.log(ctx).Error("Failed to create task", slog.Any("ownerID", input.OwnerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create task")
	}

	// Hand the caller back the plaintext it sent, not the stored ciphertext.
	task.Description = input.Description

	srv.log(ctx).Debug("Task created", slog.Any("taskID", task.ID), slog.Any("ownerID", input.OwnerID))

	return task, nil
}

// GetTask returns a single task after the ownership check, with its
// description decrypted.
func (srv *taskService) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*entity.Task, error) {
	task, err := srv.loadOwnedTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	srv.decryptDescription(ctx, task)

	return task, nil
}

// ListTasks returns one page of the caller's tasks, newest first.
func (srv *taskService) ListTasks(ctx context.Context, input *usecase.ListTasksInput) (*usecase.ListTasksOutput, error) {
	page := input.Page
	if page < 1 {
		page = defaultPage
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	filter := repository.TaskFilter{
		Status: input.Status,
		Search: input.Search,
		Page:   page,
		Limit:  limit,
	}

	tasks, total, err := srv.taskRepo.ListByOwner(ctx, input.OwnerID, filter)
	if err != nil {
		srv.log(ctx).Error("Failed to list tasks", slog.Any("ownerID", input.OwnerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list tasks")
	}

	for _, task := range tasks {
		srv.decryptDescription(ctx, task)
	}

	return &usecase.ListTasksOutput{
		Tasks: tasks,
		Pagination: usecase.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// UpdateTask applies a partial update to an owned task.
func (srv *taskService) UpdateTask(ctx context.Context, input *usecase.UpdateTaskInput) (*entity.Task, error) {
	if _, err := srv.loadOwnedTask(ctx, input.OwnerID, input.TaskID); err != nil {
		return nil, err
	}

	update := repository.TaskUpdate{
		Title:  input.Title,
		Status: input.Status,
	}
	if input.Description != nil {
		encrypted, err := srv.cipher.Encrypt(*input.Description)
		if err != nil {
			srv.log(ctx).Error("Failed to encrypt task description", slog.Any("error", err))

			return nil, errors.Wrap(err, "failed to encrypt task description")
		}
		update.Description = &encrypted
	}

	task, err := srv.taskRepo.Update(ctx, input.TaskID, update)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, errors.Wrap(domainerrors.ErrTaskNotFound, "task disappeared during update")
		}
		srv.log(ctx).Error("Failed to update task", slog.Any("taskID", input.TaskID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update task")
	}

	srv.decryptDescription(ctx, task)

	srv.log(ctx).Debug("Task updated", slog.Any("taskID", task.ID))

	return task, nil
}

// DeleteTask removes an owned task.
func (srv *taskService) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if _, err := srv.loadOwnedTask(ctx, ownerID, taskID); err != nil {
		return err
	}

	if err := srv.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return errors.Wrap(domainerrors.ErrTaskNotFound, "task disappeared during delete")
		}
		srv.log(ctx).Error("Failed to delete task", slog.Any("taskID", taskID), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete task")
	}

	srv.log(ctx).Debug("Task deleted", slog.Any("taskID", taskID))

	return nil
}

// loadOwnedTask fetches a task and enforces the access policy: an absent task
// reads as not-found, a task owned by someone else as forbidden. The existence
// check runs first, so a non-owner probing a real id learns it exists. That
// disclosure is accepted in exchange for the clearer 403.
func (srv *taskService) loadOwnedTask(ctx context.Context, ownerID, taskID uuid.UUID) (*entity.Task, error) {
	task, err := srv.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, errors.Wrap(domainerrors.ErrTaskNotFound, "task not found")
		}

		return nil, errors.Wrap(err, "failed to find task by id")
	}

	if task.OwnerID != ownerID {
		srv.log(ctx).Warn("Ownership check failed",
			slog.Any("taskID", taskID),
			slog.Any("callerID", ownerID))

		return nil, errors.Wrap(domainerrors.ErrForbiddenAccess, "task owned by another account")
	}

	return task, nil
}

// decryptDescription swaps the stored ciphertext for plaintext in place,
// degrading to a placeholder when the record cannot be opened.
func (srv *taskService) decryptDescription(ctx context.Context, task *entity.Task) {
	plaintext, err := srv.cipher.Decrypt(task.Description)
	if err != nil {
		srv.log(ctx).Error("Failed to decrypt task description",
			slog.Any("taskID", task.ID),
			slog.Any("error", err))
		task.Description = decryptFailedPlaceholder

		return
	}
	task.Description = plaintext
}
