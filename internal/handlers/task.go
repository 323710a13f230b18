package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/game-event-planner/internal/dto"
	apierrors "github.com/yukikurage/game-event-planner/internal/errors"
	"github.com/yukikurage/game-event-planner/internal/logging"
	"github.com/yukikurage/game-event-planner/internal/middleware"
	"github.com/yukikurage/game-event-planner/internal/services"
	"github.com/yukikurage/game-event-planner/internal/utils"
)

// TotalCountHeader carries the number of tasks the caller owns.
const TotalCountHeader = "X-Total-Count"

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the caller's tasks ordered by start date. page and limit
// query parameters page through them.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	input := services.ListTasksInput{UserID: userID}
	if params, ok := utils.GetPaginationParams(c); ok {
		input.Limit = params.Limit
		input.Offset = params.Offset
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.Header(TotalCountHeader, strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns the task loaded by the ownership guard
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task owned by the caller
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		EventType:   req.EventType,
		GameType:    req.GameType,
		IsComplete:  req.IsComplete,
		UserID:      userID,
	}

	dates := &services.ValidationError{}
	if req.StartDate != "" {
		input.StartDate = parseDate(dates, "startDate", req.StartDate)
	}
	if req.EndDate != "" {
		input.EndDate = parseDate(dates, "endDate", req.EndDate)
	}
	if len(dates.Fields) > 0 {
		respondTaskError(c, dates)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to the task loaded by the ownership
// guard
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:      req.Title,
		EventType:  req.EventType,
		GameType:   req.GameType,
		IsComplete: req.IsComplete,
	}
	if req.Description.Set {
		if req.Description.Null {
			input.ClearDescription = true
		} else {
			input.Description = &req.Description.Value
		}
	}

	dates := &services.ValidationError{}
	if req.StartDate != nil {
		start := parseDate(dates, "startDate", *req.StartDate)
		input.StartDate = &start
	}
	if req.EndDate != nil {
		end := parseDate(dates, "endDate", *req.EndDate)
		input.EndDate = &end
	}
	if len(dates.Fields) > 0 {
		respondTaskError(c, dates)
		return
	}

	updated, err := h.taskService.UpdateTask(c.Request.Context(), task, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask deletes the task loaded by the ownership guard
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), task.ID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// TaskOptions lists the recognized event and game types
func (h *TaskHandler) TaskOptions(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewTaskOptionsResponse())
}

func respondTaskError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.BadRequestWithDetails(c, "Validation failed", verr.Fields)
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrNotTaskOwner):
		apierrors.Forbidden(c, "You do not own this task")
	default:
		logging.FromContext(c.Request.Context()).Error("task request failed", "error", err)
		apierrors.InternalError(c, "")
	}
}
