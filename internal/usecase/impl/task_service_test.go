package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"taskvault/internal/domain/entity"
	domainerrors "taskvault/internal/domain/errors"
	"taskvault/internal/domain/repository"
	mockRepo "taskvault/internal/mocks/repository"
	mockService "taskvault/internal/mocks/service"
	"taskvault/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// taskServiceFixtures holds all test dependencies for task service tests.
type taskServiceFixtures struct {
	service  usecase.TaskUsecase
	taskRepo *mockRepo.MockTaskRepository
	cipher   *mockService.MockFieldCipher
}

func createTestTaskService(t *testing.T) taskServiceFixtures {
	taskRepo := mockRepo.NewMockTaskRepository(t)
	cipher := mockService.NewMockFieldCipher(t)

	service := NewTaskService(TaskServiceParams{
		TaskRepo: taskRepo,
		Cipher:   cipher,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return taskServiceFixtures{
		service:  service,
		taskRepo: taskRepo,
		cipher:   cipher,
	}
}

func storedTask(ownerID uuid.UUID, description string) *entity.Task {
	return &entity.Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       "a task",
		Description: description,
		Status:      entity.TaskStatusTodo,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func TestTaskService_CreateTask_EncryptsDescription(t *testing.T) {
	fx := createTestTaskService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	fx.cipher.On("Encrypt", "plain description").Return("iv:ct:tag", nil)
	fx.taskRepo.On("Create", ctx, mock.MatchedBy(func(task *entity.Task) bool {
		return task.Description == "iv:ct:tag" &&
			task.OwnerID == ownerID &&
			task.Status == entity.TaskStatusTodo
	})).Return(nil)

	task, err := fx.service.CreateTask(ctx, &usecase.CreateTaskInput{
		OwnerID:     ownerID,
		Title:       "a task",
		Description: "plain description",
	})
	require.NoError(t, err)

	// The caller gets its plaintext back, never the stored ciphertext.
	assert.Equal(t, "plain description", task.Description)
	assert.Equal(t, entity.TaskStatusTodo, task.Status)
}

func TestTaskService_CreateTask_KeepsExplicitStatus(t *testing.T) {
	fx := createTestTaskService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	fx.cipher.On("Encrypt", "desc").Return("enc", nil)
	fx.taskRepo.On("Create", ctx, mock.MatchedBy(func(task *entity.Task) bool {
		return task.Status == entity.TaskStatusInProgress
	})).Return(nil)

	task, err := fx.service.CreateTask(ctx, &usecase.CreateTaskInput{
		OwnerID:     ownerID,
		Title:       "a task",
		Description: "desc",
		Status:      entity.TaskStatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusInProgress, task.Status)
}

func TestTaskService_GetTask_Success(t *testing.T) {
	fx := createTestTaskService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	stored := storedTask(ownerID, "iv:ct:tag")

	fx.taskRepo.On("FindByID", ctx, stored.ID).Return(stored, nil)
	fx.cipher.On("Decrypt", "iv:ct:tag").Return("plain description", nil)

	task, err := fx.service.GetTask(ctx, ownerID, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "plain description", task.Description)
}

func TestTaskService_GetTask_NotFound(t *testing.T) {
	fx := createTestTaskService(t)
	ctx := context.Background()
	taskID := uuid.New()

	fx.taskRepo.On("FindByID", ctx, taskID).Return(nil, repository.ErrTaskNotFound)

	_, err := fx.service.GetTask(ctx, uuid.New(), taskID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTaskNotFound))
}

func TestTaskService_GetTask_ForeignOwner(t *testing.T) {
	fx := createTestTaskService(t)
	ctx := context.Background()
	stored := storedTask(uuid.New(), "iv:ct:tag")

	fx.taskRepo.On("FindByID", ctx, stored.ID).Return(stored, nil)

	// The existence check runs first, so a foreign owner gets 403, not 404.
	_, err := fx.service.GetTask(ctx, uuid.New(), stored.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbiddenAccess))
	fx.cipher.AssertNotCalled(t, "Decrypt", mock.Anything)
}

func TestTaskService_GetTask_DecryptFailureDegrades(t *testing.T) {
	fx := createTestTaskService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	stored := storedTask(ownerID, "corrupted")

	fx.taskRepo.On("FindByID", ctx, stored.ID).Return(stored, nil)
	fx.cipher.On("Decrypt", "corrupted").Return("", errors.New("auth failure"))

	task, err := fx.service.GetTask(ctx, ownerID, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "[Decryption failed]", task.Description)
}

func TestTaskService_ListTasks_Pagination(t *testing.T) {
	fx := createTestTaskService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	first := storedTask(ownerID, "enc-1")
	second := storedTask(ownerID, "enc-2")

	fx.taskRepo.On("ListByOwner", ctx, ownerID, repository.TaskFilter{
		Search: "grocer",
		Page:   2,
		Limit:  10,
	}).Return([]*entity.Task{first, second}, int64(25), nil)
	fx.cipher.On("Decrypt", "enc-1").Return("plain one", nil)
	fx.cipher.On("Decrypt", "enc-2").Return("plain two", nil)

	output, err := fx.service.ListTasks(ctx, &usecase.ListTasksInput{
		OwnerID: ownerID,
		Search:  "grocer",
		Page:    2,
		Limit:   10,
	})
	require.NoError(t, err)
	require.Len(t, output.Tasks, 2)
	assert.Equal(t, "plain one", output.Tasks[0].Description)
	assert.Equal(t, 2, output.Pagination.Page)
	assert.Equal(t, int64(25), output.Pagination.Total)
	assert.Equal(t, 3, output.Pagination.TotalPages)
}

func TestTaskService_ListTasks_DefaultsPageAndLimit(t *testing.T) {
	fx := createTestTaskService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	fx.taskRepo.On("ListByOwner", ctx, ownerID, repository.TaskFilter{
		Page:  1,
		Limit: 10,
	}).Return([]*entity.Task{}, int64(0), nil)

	output, err := fx.service.ListTasks(ctx, &usecase.ListTasksInput{OwnerID: ownerID})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Pagination.Page)
	assert.Equal(t, 10, output.Pagination.Limit)
	assert.Equal(t, 0, output.Pagination.TotalPages)
}

func TestTaskService_ListTasks_OneBadRecordStillRenders(t *testing.T) {
	fx := createTestTaskService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	healthy := storedTask(ownerID, "enc-good")
	corrupted := storedTask(ownerID, "enc-bad")

	fx.taskRepo.On("ListByOwner", ctx, ownerID, mock.AnythingOfType("repository.TaskFilter")).
		Return([]*entity.Task{healthy, corrupted}, int64(2), nil)
	fx.cipher.On("Decrypt", "enc-good").Return("readable", nil)
	fx.cipher.On("Decrypt", "enc-bad").Return("", errors.New("tampered"))

	output, err := fx.service.ListTasks(ctx, &usecase.ListTasksInput{OwnerID: ownerID, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, output.Tasks, 2)
	assert.Equal(t, "readable", output.Tasks[0].Description)
	assert.Equal(t, "[Decryption failed]", output.Tasks[1].Description)
}

func TestTaskService_UpdateTask_EncryptsNewDescription(t *testing.T) {
	fx := createTestTaskService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	stored := storedTask(ownerID, "old-enc")

	newDescription := "new plaintext"
	newTitle := "renamed"

	updated := *stored
	updated.Title = newTitle
	updated.Description = "new-enc"

	fx.taskRepo.On("FindByID", ctx, stored.ID).Return(stored, nil)
	fx.cipher.On("Encrypt", newDescription).Return("new-enc", nil)
	fx.taskRepo.On("Update", ctx, stored.ID, mock.MatchedBy(func(update repository.TaskUpdate) bool {
		return update.Title != nil && *update.Title == newTitle &&
			update.Description != nil && *update.Description == "new-enc" &&
			update.Status == nil
	})).Return(&updated, nil)
	fx.cipher.On("Decrypt", "new-enc").Return(newDescription, nil)

	task, err := fx.service.UpdateTask(ctx, &usecase.UpdateTaskInput{
		OwnerID:     ownerID,
		TaskID:      stored.ID,
		Title:       &newTitle,
		Description: &newDescription,
	})
	require.NoError(t, err)
	assert.Equal(t, newTitle, task.Title)
	assert.Equal(t, newDescription, task.Description)
}

func TestTaskService_UpdateTask_ForeignOwner(t *testing.T) {
	fx := createTestTaskService(t)
	ctx := context.Background()
	stored := storedTask(uuid.New(), "enc")

	fx.taskRepo.On("FindByID", ctx, stored.ID).Return(stored, nil)

	status := entity.TaskStatusDone
	_, err := fx.service.UpdateTask(ctx, &usecase.UpdateTaskInput{
		OwnerID: uuid.New(),
		TaskID:  stored.ID,
		Status:  &status,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbiddenAccess))
	fx.taskRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskService_DeleteTask_Success(t *testing.T) {
	fx := createTestTaskService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	stored := storedTask(ownerID, "enc")

	fx.taskRepo.On("FindByID", ctx, stored.ID).Return(stored, nil)
	fx.taskRepo.On("Delete", ctx, stored.ID).Return(nil)

	require.NoError(t, fx.service.DeleteTask(ctx, ownerID, stored.ID))
}

func TestTaskService_DeleteTask_NotFound(t *testing.T) {
	fx := createTestTaskService(t)
	ctx := context.Background()
	taskID := uuid.New()

	fx.taskRepo.On("FindByID", ctx, taskID).Return(nil, repository.ErrTaskNotFound)

	err := fx.service.DeleteTask(ctx, uuid.New(), taskID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTaskNotFound))
}
