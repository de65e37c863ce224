// Package http is the inbound HTTP adapter: routing for the task API and
// health probes, and the server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clictest/clictest/internal/adapters/http/dto"
	"github.com/clictest/clictest/internal/adapters/http/handlers"
)

// APIPrefix is where the versioned task API is mounted.
const APIPrefix = "/api/v1"

// NewRouter registers every route behind middlewares, applied in order.
// Unknown paths and methods answer with problem+json like every other error.
func NewRouter(
	tasks *handlers.TaskHandler,
	health *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares...)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		dto.WriteStatusResponse(w, r, http.StatusNotFound, "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		dto.WriteStatusResponse(w, r, http.StatusMethodNotAllowed, r.Method+" is not supported here")
	})

	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route(APIPrefix, func(r chi.Router) {
		r.Get("/tasks", tasks.ListTasks)
		r.Post("/tasks", tasks.CreateTask)
		r.Get("/tasks/{id}", tasks.GetTask)
		r.Delete("/tasks/{id}", tasks.DeleteTask)
	})
	return r
}
