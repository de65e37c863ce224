package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/clictest/clictest/internal/adapters/http/dto"
	"github.com/clictest/clictest/internal/adapters/http/middleware"
	"github.com/clictest/clictest/internal/domain"
	"github.com/clictest/clictest/internal/platform/logging"
)

// HeaderTenantID carries the owner of the tasks a request creates or lists.
const HeaderTenantID = "X-Tenant-ID"

// maxBodyBytes caps a JSON request body.
const maxBodyBytes = 1 << 20

// taskID reads the {id} path parameter.
func taskID(r *http.Request) (string, error) {
	if id := strings.TrimSpace(chi.URLParam(r, "id")); id != "" {
		return id, nil
	}
	return "", &domain.ValidationError{Fields: map[string]string{"id": domain.MsgRequired}}
}

// tenant returns the caller's tenant. The Tenant middleware normally puts
// it on the context; handlers mounted without it fall back to the header.
func tenant(r *http.Request) string {
	if id := middleware.TenantIDFromContext(r.Context()); id != "" {
		return id
	}
	return strings.TrimSpace(r.Header.Get(HeaderTenantID))
}

// requireTenant is tenant for operations that cannot run unscoped.
func requireTenant(r *http.Request) (string, error) {
	if id := tenant(r); id != "" {
		return id, nil
	}
	return "", &domain.ValidationError{Fields: map[string]string{HeaderTenantID: domain.MsgRequired}}
}

// writeJSON encodes v with status. Encoding failures happen after the
// header is out, so they can only be logged.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).WarnContext(r.Context(), "encoding response failed",
			slog.Any("error", err))
	}
}

// validatable is implemented by request bodies that check themselves.
type validatable interface {
	Validate() error
}

// bind decodes the request body into dst and validates it. On failure it
// writes the problem response and returns false.
func bind[T validatable](w http.ResponseWriter, r *http.Request, dst T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		dto.WriteErrorResponse(w, r, &domain.ValidationError{
			Fields: map[string]string{"body": "invalid JSON"},
		})
		return false
	}
	if err := dst.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}
