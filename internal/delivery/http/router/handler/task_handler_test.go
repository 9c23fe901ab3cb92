package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	deliverycontext "taskvault/internal/delivery/context"
	"taskvault/internal/delivery/http/validator"
	"taskvault/internal/domain/entity"
	domainerrors "taskvault/internal/domain/errors"
	"taskvault/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTaskUsecase records the inputs it receives and returns canned results.
type stubTaskUsecase struct {
	task    *entity.Task
	listOut *usecase.ListTasksOutput
	err     error

	lastList   *usecase.ListTasksInput
	lastCreate *usecase.CreateTaskInput
	lastUpdate *usecase.UpdateTaskInput
}

func (s *stubTaskUsecase) CreateTask(_ context.Context, input *usecase.CreateTaskInput) (*entity.Task, error) {
	s.lastCreate = input

	return s.task, s.err
}

func (s *stubTaskUsecase) GetTask(context.Context, uuid.UUID, uuid.UUID) (*entity.Task, error) {
	return s.task, s.err
}

func (s *stubTaskUsecase) ListTasks(_ context.Context, input *usecase.ListTasksInput) (*usecase.ListTasksOutput, error) {
	s.lastList = input

	return s.listOut, s.err
}

func (s *stubTaskUsecase) UpdateTask(_ context.Context, input *usecase.UpdateTaskInput) (*entity.Task, error) {
	s.lastUpdate = input

	return s.task, s.err
}

func (s *stubTaskUsecase) DeleteTask(context.Context, uuid.UUID, uuid.UUID) error {
	return s.err
}

func newTaskHandlerTestContext(t *testing.T, method, target, body string, subject uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	deliverycontext.SetSubject(c, subject)

	return c, rec
}

func newTestTaskHandler(uc usecase.TaskUsecase) *TaskHandler {
	return NewTaskHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sampleTask(ownerID uuid.UUID) *entity.Task {
	return &entity.Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       "a task",
		Description: "plain",
		Status:      entity.TaskStatusTodo,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func TestTaskHandler_List_ParsesQuery(t *testing.T) {
	subject := uuid.New()
	stub := &stubTaskUsecase{listOut: &usecase.ListTasksOutput{
		Tasks:      []*entity.Task{sampleTask(subject)},
		Pagination: usecase.Pagination{Page: 2, Limit: 5, Total: 11, TotalPages: 3},
	}}
	handler := newTestTaskHandler(stub)

	c, rec := newTaskHandlerTestContext(t, http.MethodGet,
		"/api/tasks?page=2&limit=5&status=DONE&search=grocer", "", subject)
	require.NoError(t, handler.List(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.lastList)
	assert.Equal(t, subject, stub.lastList.OwnerID)
	assert.Equal(t, 2, stub.lastList.Page)
	assert.Equal(t, 5, stub.lastList.Limit)
	assert.Equal(t, "grocer", stub.lastList.Search)
	require.NotNil(t, stub.lastList.Status)
	assert.Equal(t, entity.TaskStatusDone, *stub.lastList.Status)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	assert.Len(t, data["tasks"], 1)
	pagination := data["pagination"].(map[string]any)
	assert.Equal(t, float64(11), pagination["total"])
	assert.Equal(t, float64(3), pagination["totalPages"])
}

func TestTaskHandler_List_RejectsBadQuery(t *testing.T) {
	handler := newTestTaskHandler(&stubTaskUsecase{})

	cases := map[string]string{
		"bad page":   "/api/tasks?page=abc",
		"bad limit":  "/api/tasks?limit=ten",
		"bad status": "/api/tasks?status=SHIPPED",
	}

	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTaskHandlerTestContext(t, http.MethodGet, target, "", uuid.New())

			err := handler.List(c)
			require.Error(t, err)

			var appErr domainerrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.ErrorCode())
		})
	}
}

func TestTaskHandler_Create_Success(t *testing.T) {
	subject := uuid.New()
	stub := &stubTaskUsecase{task: sampleTask(subject)}
	handler := newTestTaskHandler(stub)

	c, rec := newTaskHandlerTestContext(t, http.MethodPost, "/api/tasks",
		`{"title":"a task","description":"plain","status":"IN_PROGRESS"}`, subject)
	require.NoError(t, handler.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, stub.lastCreate)
	assert.Equal(t, subject, stub.lastCreate.OwnerID)
	assert.Equal(t, entity.TaskStatusInProgress, stub.lastCreate.Status)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Task created successfully", body["message"])
}

func TestTaskHandler_Create_ValidationFailures(t *testing.T) {
	handler := newTestTaskHandler(&stubTaskUsecase{})

	cases := map[string]struct {
		body    string
		message string
	}{
		"missing title":       {`{"description":"plain"}`, "Title is required"},
		"long title":          {`{"title":"` + strings.Repeat("x", 201) + `","description":"plain"}`, "Title must be less than 200 characters"},
		"missing description": {`{"title":"a task"}`, "Description is required"},
		"bad status":          {`{"title":"a task","description":"plain","status":"SHIPPED"}`, "Invalid status value"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTaskHandlerTestContext(t, http.MethodPost, "/api/tasks", tc.body, uuid.New())

			err := handler.Create(c)
			require.Error(t, err)

			var appErr domainerrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.ErrorCode())
			assert.Equal(t, tc.message, appErr.Message())
		})
	}
}

func TestTaskHandler_Get_MalformedIDReadsAsNotFound(t *testing.T) {
	handler := newTestTaskHandler(&stubTaskUsecase{})

	c, _ := newTaskHandlerTestContext(t, http.MethodGet, "/api/tasks/not-a-uuid", "", uuid.New())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := handler.Get(c)
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TASK_NOT_FOUND", appErr.ErrorCode())
}

func TestTaskHandler_Update_PartialPayload(t *testing.T) {
	subject := uuid.New()
	stub := &stubTaskUsecase{task: sampleTask(subject)}
	handler := newTestTaskHandler(stub)
	taskID := uuid.New()

	c, rec := newTaskHandlerTestContext(t, http.MethodPatch, "/api/tasks/"+taskID.String(),
		`{"status":"DONE"}`, subject)
	c.SetParamNames("id")
	c.SetParamValues(taskID.String())

	require.NoError(t, handler.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, stub.lastUpdate)
	assert.Nil(t, stub.lastUpdate.Title)
	assert.Nil(t, stub.lastUpdate.Description)
	require.NotNil(t, stub.lastUpdate.Status)
	assert.Equal(t, entity.TaskStatusDone, *stub.lastUpdate.Status)
}

func TestTaskHandler_Delete_Success(t *testing.T) {
	subject := uuid.New()
	handler := newTestTaskHandler(&stubTaskUsecase{})
	taskID := uuid.New()

	c, rec := newTaskHandlerTestContext(t, http.MethodDelete, "/api/tasks/"+taskID.String(), "", subject)
	c.SetParamNames("id")
	c.SetParamValues(taskID.String())

	require.NoError(t, handler.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Task deleted successfully", body["message"])
}
