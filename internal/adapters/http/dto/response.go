// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/clictest/clictest/internal/domain/task"
)

// TaskResponse represents a single task in HTTP responses.
type TaskResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Status    string         `json:"status"`
	Owner     string         `json:"owner"`
	Input     map[string]any `json:"input"`
	Result    map[string]any `json:"result"`
	Message   string         `json:"message"`
	ExpiresAt *string        `json:"expires_at"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
	Self      string         `json:"self"`
}

// ToTaskResponse converts a task entity to an HTTP response DTO.
func ToTaskResponse(t task.Entity) TaskResponse {
	return TaskResponse{
		ID:        t.ID(),
		Type:      t.Type().String(),
		Status:    t.Status().String(),
		Owner:     t.Owner(),
		Input:     t.Input(),
		Result:    t.Result(),
		Message:   t.Message(),
		ExpiresAt: formatOptional(t.ExpiresAt()),
		CreatedAt: t.CreatedAt().Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt().Format(time.RFC3339),
		Self:      TaskPath(t.ID()),
	}
}

// TaskStubResponse represents a task listing entry. It omits input, result
// and message.
type TaskStubResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	Owner     string  `json:"owner"`
	ExpiresAt *string `json:"expires_at"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
	Self      string  `json:"self"`
}

// TaskListResponse represents a list of task stubs in HTTP responses.
type TaskListResponse struct {
	Tasks []TaskStubResponse `json:"tasks"`
	Count int                `json:"count"`
}

// ToTaskListResponse converts stubs to an HTTP list response DTO.
func ToTaskListResponse(stubs []task.Stub) TaskListResponse {
	items := make([]TaskStubResponse, len(stubs))
	for i, s := range stubs {
		items[i] = TaskStubResponse{
			ID:        s.ID,
			Type:      s.Type.String(),
			Status:    s.Status.String(),
			Owner:     s.Owner,
			ExpiresAt: formatOptional(s.ExpiresAt),
			CreatedAt: s.CreatedAt.Format(time.RFC3339),
			UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
			Self:      TaskPath(s.ID),
		}
	}
	return TaskListResponse{
		Tasks: items,
		Count: len(items),
	}
}

// TaskPath returns the API path of the task with the given ID.
func TaskPath(id string) string {
	return "/api/v1/tasks/" + id
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
