package middleware

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/game-event-planner/internal/constants"
	apierrors "github.com/yukikurage/game-event-planner/internal/errors"
	"github.com/yukikurage/game-event-planner/internal/logging"
	"github.com/yukikurage/game-event-planner/internal/models"
	"github.com/yukikurage/game-event-planner/internal/services"
)

// TaskLookup fetches a task on behalf of a user.
type TaskLookup interface {
	GetOwnedTask(ctx context.Context, taskID, userID uint64) (*models.Task, error)
}

// RequireTaskOwner loads the task named by the :id parameter and lets the
// request through only when the current user owns it. Unknown tasks are 404
// and tasks of other users are 403.
func RequireTaskOwner(tasks TaskLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		task, err := tasks.GetOwnedTask(c.Request.Context(), taskID, userID)
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			apierrors.NotFound(c, "Task not found")
			return
		case errors.Is(err, services.ErrNotTaskOwner):
			apierrors.Forbidden(c, "You do not own this task")
			return
		case err != nil:
			logging.FromContext(c.Request.Context()).Error("failed to load task", "task_id", taskID, "error", err)
			apierrors.InternalError(c, "")
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTaskOwner
func GetTask(c *gin.Context) (*models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := value.(*models.Task)
	return task, ok && task != nil
}
