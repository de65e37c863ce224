package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/clictest/clictest/internal/adapters/http/dto"
	"github.com/clictest/clictest/internal/domain"
	"github.com/clictest/clictest/internal/domain/task"
	"github.com/clictest/clictest/internal/ports"
)

// TaskHandler serves the /api/v1/tasks resource.
//
// Listing and creating are always scoped to the caller's tenant. Reads and
// deletes by ID are scoped when the request names a tenant: another
// tenant's task is reported as not found. Requests without a tenant act
// unscoped, which is how operators address tasks.
type TaskHandler struct {
	service ports.TaskService
}

// NewTaskHandler creates a TaskHandler over service.
func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// ListTasks handles GET /api/v1/tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	owner, err := requireTenant(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	filter, err := dto.ParseTaskFilter(r.URL.Query())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	filter.Owner = owner

	stubs, err := h.service.ListTasks(r.Context(), filter)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ToTaskListResponse(stubs))
}

// CreateTask handles POST /api/v1/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	owner, err := requireTenant(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.CreateTaskRequest
	if !bind(w, r, &req) {
		return
	}

	created, err := h.service.CreateTask(r.Context(), owner, task.Type(req.Type), req.Input)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Location", dto.TaskPath(created.ID()))
	writeJSON(w, r, http.StatusCreated, dto.ToTaskResponse(created))
}

// GetTask handles GET /api/v1/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	t, err := h.visible(r.Context(), id, tenant(r))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ToTaskResponse(t))
}

// DeleteTask handles DELETE /api/v1/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if owner := tenant(r); owner != "" {
		if _, err := h.visible(r.Context(), id, owner); err != nil {
			dto.WriteErrorResponse(w, r, err)
			return
		}
	}
	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// visible loads task id, hiding it when owner is set and differs.
func (h *TaskHandler) visible(ctx context.Context, id, owner string) (task.Entity, error) {
	t, err := h.service.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner != "" && t.Owner() != owner {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	return t, nil
}
