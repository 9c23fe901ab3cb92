package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	deliverycontext "taskvault/internal/delivery/context"
	"taskvault/internal/delivery/http/response"
	"taskvault/internal/domain/entity"
	domainerrors "taskvault/internal/domain/errors"
	"taskvault/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type createTaskRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"required,min=1,max=5000"`
	Status      string `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
}

type updateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,min=1,max=5000"`
	Status      *string `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
}

// taskView is the task shape exposed over the wire, description already
// decrypted.
type taskView struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      entity.TaskStatus `json:"status"`
	UserID      uuid.UUID         `json:"userId"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type paginationView struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func toTaskView(task *entity.Task) taskView {
	return taskView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		UserID:      task.OwnerID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// TaskHandler holds dependencies for task handlers.
type TaskHandler struct {
	uc     usecase.TaskUsecase
	logger *slog.Logger
}

// NewTaskHandler is the constructor for TaskHandler, injected by Fx.
func NewTaskHandler(uc usecase.TaskUsecase, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		uc:     uc,
		logger: logger,
	}
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(c echo.Context) error {
	subject, ok := deliverycontext.GetSubject(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.uc.CreateTask(c.Request().Context(), &usecase.CreateTaskInput{
		OwnerID:     subject,
		Title:       req.Title,
		Description: req.Description,
		Status:      entity.TaskStatus(req.Status),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated,
		map[string]any{"task": toTaskView(task)},
		"Task created successfully")
}

// List handles GET /api/tasks with pagination, status filter and title search.
func (h *TaskHandler) List(c echo.Context) error {
	subject, ok := deliverycontext.GetSubject(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	input := &usecase.ListTasksInput{
		OwnerID: subject,
		Search:  c.QueryParam("search"),
	}

	var err error
	if input.Page, err = queryInt(c, "page", 1); err != nil {
		return errors.WithStack(domainerrors.NewValidationError("Page must be a number"))
	}
	if input.Limit, err = queryInt(c, "limit", 10); err != nil {
		return errors.WithStack(domainerrors.NewValidationError("Limit must be a number"))
	}

	if raw := c.QueryParam("status"); raw != "" {
		status := entity.TaskStatus(raw)
		if !status.Valid() {
			return errors.WithStack(domainerrors.NewValidationError("Invalid status value"))
		}
		input.Status = &status
	}

	output, err := h.uc.ListTasks(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]taskView, 0, len(output.Tasks))
	for _, task := range output.Tasks {
		views = append(views, toTaskView(task))
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"tasks": views,
		"pagination": paginationView{
			Page:       output.Pagination.Page,
			Limit:      output.Pagination.Limit,
			Total:      output.Pagination.Total,
			TotalPages: output.Pagination.TotalPages,
		},
	}, "")
}

// Get handles GET /api/tasks/:id.
func (h *TaskHandler) Get(c echo.Context) error {
	subject, taskID, err := h.subjectAndTaskID(c)
	if err != nil {
		return err
	}

	task, err := h.uc.GetTask(c.Request().Context(), subject, taskID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK,
		map[string]any{"task": toTaskView(task)}, "")
}

// Update handles PATCH /api/tasks/:id with a partial payload.
func (h *TaskHandler) Update(c echo.Context) error {
	subject, taskID, err := h.subjectAndTaskID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	input := &usecase.UpdateTaskInput{
		OwnerID:     subject,
		TaskID:      taskID,
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := entity.TaskStatus(*req.Status)
		input.Status = &status
	}

	task, err := h.uc.UpdateTask(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK,
		map[string]any{"task": toTaskView(task)},
		"Task updated successfully")
}

// Delete handles DELETE /api/tasks/:id.
func (h *TaskHandler) Delete(c echo.Context) error {
	subject, taskID, err := h.subjectAndTaskID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteTask(c.Request().Context(), subject, taskID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Task deleted successfully")
}

// subjectAndTaskID pulls the verified caller and the addressed task out of
// the request. A malformed id can never match a stored task, so it reads
// as not-found rather than a validation failure.
func (h *TaskHandler) subjectAndTaskID(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	subject, ok := deliverycontext.GetSubject(c)
	if !ok {
		return uuid.Nil, uuid.Nil, errors.WithStack(domainerrors.ErrUnauthorized)
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.WithStack(domainerrors.ErrTaskNotFound)
	}

	return subject, taskID, nil
}

func queryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}

	return strconv.Atoi(raw)
}
