package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/clictest/clictest/internal/adapters/http/dto"
	"github.com/clictest/clictest/internal/adapters/http/handlers"
	"github.com/clictest/clictest/internal/adapters/http/middleware"
	"github.com/clictest/clictest/internal/domain"
	"github.com/clictest/clictest/internal/domain/task"
	"github.com/clictest/clictest/mocks"
)

func newTaskHandler(t *testing.T) (*handlers.TaskHandler, *mocks.MockTaskService) {
	t.Helper()
	svc := mocks.NewMockTaskService(t)
	return handlers.NewTaskHandler(svc), svc
}

// --- ListTasks ---

func TestListTasks_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	svc.EXPECT().ListTasks(mock.Anything, task.Filter{Owner: "tenant-a"}).
		Return([]task.Stub{validStub()}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set(handlers.HeaderTenantID, "tenant-a")
	h.ListTasks(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.TaskListResponse](t, rec)
	if resp.Count != 1 || resp.Tasks[0].ID != "t-1" {
		t.Errorf("response = %+v, want one task t-1", resp)
	}
}

func TestListTasks_WithFilters(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	svc.EXPECT().ListTasks(mock.Anything, task.Filter{
		Owner:  "tenant-a",
		Status: task.StatusSuccess,
		Type:   task.TypeImport,
		Limit:  5,
	}).Return(nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks?status=success&type=import&limit=5", nil)
	req.Header.Set(handlers.HeaderTenantID, "tenant-a")
	h.ListTasks(rec, req)

	requireStatus(t, rec, http.StatusOK)
}

func TestListTasks_MissingTenant(t *testing.T) {
	t.Parallel()
	h, _ := newTaskHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	h.ListTasks(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestListTasks_InvalidStatusFilter(t *testing.T) {
	t.Parallel()
	h, _ := newTaskHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks?status=bad", nil)
	req.Header.Set(handlers.HeaderTenantID, "tenant-a")
	h.ListTasks(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestListTasks_ServiceError(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	svc.EXPECT().ListTasks(mock.Anything, task.Filter{Owner: "tenant-a"}).Return(nil, domain.ErrUnavailable)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set(handlers.HeaderTenantID, "tenant-a")
	h.ListTasks(rec, req)

	requireStatus(t, rec, http.StatusBadGateway)
}

// --- CreateTask ---

func TestCreateTask_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	input := map[string]any{"import_from": "http://example.com/a.qcow2"}
	svc.EXPECT().CreateTask(mock.Anything, "tenant-a", task.TypeImport, input).
		Return(validTask(t), nil)

	body := jsonBody(t, dto.CreateTaskRequest{Type: "import", Input: input})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(handlers.HeaderTenantID, "tenant-a")
	h.CreateTask(rec, req)

	requireStatus(t, rec, http.StatusCreated)
	if got := rec.Header().Get("Location"); got != "/api/v1/tasks/t-1" {
		t.Errorf("Location = %q, want %q", got, "/api/v1/tasks/t-1")
	}
	resp := decodeJSON[dto.TaskResponse](t, rec)
	if resp.Status != "pending" || resp.Owner != "tenant-a" {
		t.Errorf("response status/owner = %q/%q, want pending/tenant-a", resp.Status, resp.Owner)
	}
}

func TestCreateTask_MissingTenant(t *testing.T) {
	t.Parallel()
	h, _ := newTaskHandler(t)

	body := jsonBody(t, dto.CreateTaskRequest{Type: "import", Input: map[string]any{"import_from": "http://x"}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", body)
	h.CreateTask(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestCreateTask_InvalidJSON(t *testing.T) {
	t.Parallel()
	h, _ := newTaskHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewBufferString("{bad"))
	req.Header.Set(handlers.HeaderTenantID, "tenant-a")
	h.CreateTask(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestCreateTask_ValidationError(t *testing.T) {
	t.Parallel()
	h, _ := newTaskHandler(t)

	body := jsonBody(t, dto.CreateTaskRequest{Type: "import"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", body)
	req.Header.Set(handlers.HeaderTenantID, "tenant-a")
	h.CreateTask(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestCreateTask_ServiceError(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	svc.EXPECT().CreateTask(mock.Anything, "tenant-a", task.TypeImport, mock.Anything).
		Return(nil, domain.ErrUnavailable)

	body := jsonBody(t, dto.CreateTaskRequest{Type: "import", Input: map[string]any{"import_from": "http://x"}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", body)
	req.Header.Set(handlers.HeaderTenantID, "tenant-a")
	h.CreateTask(rec, req)

	requireStatus(t, rec, http.StatusBadGateway)
}

// --- GetTask ---

func TestGetTask_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	svc.EXPECT().GetTask(mock.Anything, "t-1").Return(validTask(t), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/t-1", nil)
	req = withChiParams(req, map[string]string{"id": "t-1"})
	h.GetTask(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.TaskResponse](t, rec)
	if resp.ID != "t-1" || resp.Self != "/api/v1/tasks/t-1" {
		t.Errorf("response id/self = %q/%q", resp.ID, resp.Self)
	}
}

func TestGetTask_MissingID(t *testing.T) {
	t.Parallel()
	h, _ := newTaskHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/", nil)
	req = withChiParams(req, map[string]string{"id": " "})
	h.GetTask(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestGetTask_NotFound(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	svc.EXPECT().GetTask(mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/missing", nil)
	req = withChiParams(req, map[string]string{"id": "missing"})
	h.GetTask(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}

// --- DeleteTask ---

func TestDeleteTask_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	svc.EXPECT().DeleteTask(mock.Anything, "t-1").Return(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/t-1", nil)
	req = withChiParams(req, map[string]string{"id": "t-1"})
	h.DeleteTask(rec, req)

	requireStatus(t, rec, http.StatusNoContent)
}

func TestDeleteTask_NotFound(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	svc.EXPECT().DeleteTask(mock.Anything, "missing").Return(domain.ErrNotFound)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/missing", nil)
	req = withChiParams(req, map[string]string{"id": "missing"})
	h.DeleteTask(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}

// --- tenant scoping ---

func TestGetTask_OtherTenantIsHidden(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	svc.EXPECT().GetTask(mock.Anything, "t-1").Return(validTask(t), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/t-1", nil)
	req.Header.Set(handlers.HeaderTenantID, "tenant-b")
	req = withChiParams(req, map[string]string{"id": "t-1"})
	h.GetTask(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}

func TestDeleteTask_ScopedToTenant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		tenant     string
		wantDelete bool
		wantStatus int
	}{
		{name: "owner deletes", tenant: "tenant-a", wantDelete: true, wantStatus: http.StatusNoContent},
		{name: "other tenant sees nothing", tenant: "tenant-b", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, svc := newTaskHandler(t)

			svc.EXPECT().GetTask(mock.Anything, "t-1").Return(validTask(t), nil)
			if tt.wantDelete {
				svc.EXPECT().DeleteTask(mock.Anything, "t-1").Return(nil)
			}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/t-1", nil)
			req = withChiParams(req, map[string]string{"id": "t-1"})
			req = req.WithContext(middleware.WithTenantID(req.Context(), tt.tenant))
			h.DeleteTask(rec, req)

			requireStatus(t, rec, tt.wantStatus)
		})
	}
}

func TestListTasks_TenantFromContext(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	svc.EXPECT().ListTasks(mock.Anything, task.Filter{Owner: "tenant-ctx"}).Return(nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set(handlers.HeaderTenantID, "tenant-header")
	req = req.WithContext(middleware.WithTenantID(req.Context(), "tenant-ctx"))
	h.ListTasks(rec, req)

	requireStatus(t, rec, http.StatusOK)
}
