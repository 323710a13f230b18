package dto

import (
	"encoding/json"
	"time"

	"github.com/yukikurage/game-event-planner/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64           `json:"id"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	EventType   models.EventType `json:"eventType"`
	GameType    models.GameType  `json:"gameType"`
	StartDate   time.Time        `json:"startDate"`
	EndDate     time.Time        `json:"endDate"`
	IsComplete  bool             `json:"isComplete"`
	UserID      uint64           `json:"userId"`
}

// CreateTaskRequest is the body of POST /api/tasks. Any userId sent by the
// client is ignored.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	EventType   string  `json:"eventType"`
	GameType    string  `json:"gameType"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	IsComplete  bool    `json:"isComplete"`
}

// UpdateTaskRequest is the body of PATCH /api/tasks/:id; absent fields are
// left unchanged
type UpdateTaskRequest struct {
	Title       *string          `json:"title"`
	Description Nullable[string] `json:"description"`
	EventType   *string          `json:"eventType"`
	GameType    *string          `json:"gameType"`
	StartDate   *string          `json:"startDate"`
	EndDate     *string          `json:"endDate"`
	IsComplete  *bool            `json:"isComplete"`
}

// Nullable distinguishes an absent JSON field from an explicit null.
type Nullable[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Null = true
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// TaskOptionsResponse lists the recognized task classifications
type TaskOptionsResponse struct {
	EventTypes []models.EventType `json:"eventTypes"`
	GameTypes  []models.GameType  `json:"gameTypes"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		EventType:   task.EventType,
		GameType:    task.GameType,
		StartDate:   task.StartDate.UTC(),
		EndDate:     task.EndDate.UTC(),
		IsComplete:  task.IsComplete,
		UserID:      task.UserID,
	}
}

// ToTaskDTOs converts tasks, keeping order; the result is never nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// NewTaskOptionsResponse returns the recognized event and game types
func NewTaskOptionsResponse() TaskOptionsResponse {
	return TaskOptionsResponse{
		EventTypes: models.EventTypes,
		GameTypes:  models.GameTypes,
	}
}
