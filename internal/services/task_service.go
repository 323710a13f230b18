package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/game-event-planner/internal/models"
	"github.com/yukikurage/game-event-planner/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrNotTaskOwner = errors.New("task belongs to another user")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	validate    *validator.Validate
	strictTypes bool
}

// TaskServiceOption configures a TaskService
type TaskServiceOption func(*TaskService)

// WithStrictTaskTypes restricts eventType and gameType to the recognized
// values instead of accepting any non-empty string.
func WithStrictTaskTypes(strict bool) TaskServiceOption {
	return func(s *TaskService) {
		s.strictTypes = strict
	}
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, opts ...TaskServiceOption) *TaskService {
	s := &TaskService{
		taskRepo: taskRepo,
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListTasksInput represents options for listing a user's tasks
type ListTasksInput struct {
	UserID uint64
	// Limit <= 0 lists every task
	Limit  int
	Offset int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description *string
	EventType   string
	GameType    string
	StartDate   time.Time
	EndDate     time.Time
	IsComplete  bool
	UserID      uint64
}

// UpdateTaskInput represents a partial update; nil fields are left alone
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	ClearDescription bool
	EventType        *string
	GameType         *string
	StartDate        *time.Time
	EndDate          *time.Time
	IsComplete       *bool
}

// taskSchema is the full set of rules a stored task must satisfy.
type taskSchema struct {
	Title     string    `json:"title" validate:"required,title_len"`
	EventType string    `json:"eventType" validate:"required,tasktype_len"`
	GameType  string    `json:"gameType" validate:"required,tasktype_len"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required,gtefield=StartDate"`
}

// ListTasks returns the user's tasks ordered by start date and the total
// number of tasks the user owns
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.ListByUser(ctx, repository.TaskFilter{
		UserID: input.UserID,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task regardless of owner
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// GetOwnedTask returns a task only when userID owns it
func (s *TaskService) GetOwnedTask(ctx context.Context, taskID, userID uint64) (*models.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, ErrNotTaskOwner
	}
	return task, nil
}

// CreateTask validates the input and stores a task owned by input.UserID
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		EventType:   models.EventType(strings.TrimSpace(input.EventType)),
		GameType:    models.GameType(strings.TrimSpace(input.GameType)),
		StartDate:   input.StartDate.UTC(),
		EndDate:     input.EndDate.UTC(),
		IsComplete:  input.IsComplete,
		UserID:      input.UserID,
	}

	if err := s.validateTask(task); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask applies input to task. The merged record is validated like a
// new task before anything is written.
func (s *TaskService) UpdateTask(ctx context.Context, task *models.Task, input UpdateTaskInput) (*models.Task, error) {
	merged := *task
	fields := make(map[string]any)

	if input.Title != nil {
		merged.Title = strings.TrimSpace(*input.Title)
		fields["title"] = merged.Title
	}
	if input.ClearDescription {
		merged.Description = nil
		fields["description"] = nil
	} else if input.Description != nil {
		description := *input.Description
		merged.Description = &description
		fields["description"] = description
	}
	if input.EventType != nil {
		merged.EventType = models.EventType(strings.TrimSpace(*input.EventType))
		fields["event_type"] = string(merged.EventType)
	}
	if input.GameType != nil {
		merged.GameType = models.GameType(strings.TrimSpace(*input.GameType))
		fields["game_type"] = string(merged.GameType)
	}
	if input.StartDate != nil {
		merged.StartDate = input.StartDate.UTC()
		fields["start_date"] = merged.StartDate
	}
	if input.EndDate != nil {
		merged.EndDate = input.EndDate.UTC()
		fields["end_date"] = merged.EndDate
	}
	if input.IsComplete != nil {
		merged.IsComplete = *input.IsComplete
		fields["is_complete"] = merged.IsComplete
	}

	if err := s.validateTask(&merged); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, task.ID, fields); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(ctx, task.ID)
}

// DeleteTask removes a task
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint64) error {
	deleted, err := s.taskRepo.Delete(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return ErrTaskNotFound
	}

	return nil
}

func (s *TaskService) validateTask(task *models.Task) error {
	verr, err := validateStruct(s.validate, taskSchema{
		Title:     task.Title,
		EventType: string(task.EventType),
		GameType:  string(task.GameType),
		StartDate: task.StartDate,
		EndDate:   task.EndDate,
	})
	if err != nil {
		return fmt.Errorf("failed to validate task: %w", err)
	}
	if verr == nil {
		verr = &ValidationError{}
	}

	if s.strictTypes {
		if task.EventType != "" && !task.EventType.IsRecognized() {
			verr.Add("eventType", "is not a recognized event type")
		}
		if task.GameType != "" && !task.GameType.IsRecognized() {
			verr.Add("gameType", "is not a recognized game type")
		}
	}

	if verr.empty() {
		return nil
	}
	return verr
}
