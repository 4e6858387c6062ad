package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// fieldError is a request field that could not be decoded
type fieldError struct {
	Field   string
	Message string
}

func (e *fieldError) Error() string {
	return e.Message
}

// ListTasks returns all tasks of the current user
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := taskScope(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
		Priority    *string `json:"priority"`
		DueDate     *string `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		Title:       req.Title,
		Description: deref(req.Description),
		Status:      deref(req.Status),
		Priority:    deref(req.Priority),
	}
	if req.DueDate != nil {
		dueDate, err := dto.ParseDueDate(*req.DueDate)
		if err != nil {
			respondTaskError(c, &fieldError{Field: "due_date", Message: "Invalid due_date format"})
			return
		}
		input.DueDate = dueDate
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask updates the fields present in the request body
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, taskID, ok := taskScope(c)
	if !ok {
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]json.RawMessage
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := parseTaskPatch(rawReq)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), userID, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := taskScope(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}

// taskScope reads the user and task ids set by the auth and task-id
// middleware. It reports false after writing an error response.
func taskScope(c *gin.Context) (userID, taskID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return 0, 0, false
	}

	taskID, exists = middleware.GetTaskID(c)
	if !exists {
		apierrors.NotFound(c, "Task not found")
		return 0, 0, false
	}

	return userID, taskID, true
}

// parseTaskPatch turns a decoded JSON object into an UpdateTaskInput. Keys
// that are absent, or null for anything but due_date, leave the field as it
// is. Unknown keys are ignored, so a client may send back a whole task.
func parseTaskPatch(raw map[string]json.RawMessage) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput
	var err error

	if input.Title, err = optionalString(raw, "title"); err != nil {
		return input, err
	}
	if input.Description, err = optionalString(raw, "description"); err != nil {
		return input, err
	}
	if input.Status, err = optionalString(raw, "status"); err != nil {
		return input, err
	}
	if input.Priority, err = optionalString(raw, "priority"); err != nil {
		return input, err
	}

	if _, present := raw["due_date"]; present {
		value, err := optionalString(raw, "due_date")
		if err != nil {
			return input, err
		}
		if value == nil {
			input.ClearDueDate = true
			return input, nil
		}

		dueDate, err := dto.ParseDueDate(*value)
		if err != nil {
			return input, &fieldError{Field: "due_date", Message: "Invalid due_date format"}
		}
		input.DueDate = dueDate
		input.ClearDueDate = dueDate == nil
	}

	return input, nil
}

func optionalString(raw map[string]json.RawMessage, key string) (*string, error) {
	value, present := raw[key]
	if !present {
		return nil, nil
	}

	var s *string
	if err := json.Unmarshal(value, &s); err != nil {
		return nil, &fieldError{Field: key, Message: fmt.Sprintf("%s must be a string", key)}
	}
	return s, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func respondTaskError(c *gin.Context, err error) {
	var fieldErr *fieldError

	switch {
	case errors.As(err, &fieldErr):
		apierrors.BadRequestWithDetails(c, fieldErr.Message, gin.H{"field": fieldErr.Field})
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.MissingField(c, "Title is required")
	case errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, capitalize(err.Error()))
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
