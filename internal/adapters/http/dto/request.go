package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/clictest/clictest/internal/domain"
	"github.com/clictest/clictest/internal/domain/task"
)

const (
	// MaxListLimit caps the limit query parameter of task listings.
	MaxListLimit = 1000

	inputImportFrom = "import_from"
)

// CreateTaskRequest represents the JSON body for creating a new task.
type CreateTaskRequest struct {
	Type  string         `json:"type"`
	Input map[string]any `json:"input"`
}

// Validate checks that the type is supported and that the input carries what
// that type needs. Returns a *domain.ValidationError if any checks fail.
func (r *CreateTaskRequest) Validate() error {
	fields := make(map[string]string)

	switch {
	case strings.TrimSpace(r.Type) == "":
		fields["type"] = domain.MsgRequired
	case !task.Type(r.Type).IsValid():
		fields["type"] = fmt.Sprintf("invalid: %q", r.Type)
	}

	if task.Type(r.Type) == task.TypeImport {
		location, _ := r.Input[inputImportFrom].(string)
		if strings.TrimSpace(location) == "" {
			fields["input."+inputImportFrom] = domain.MsgRequired
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ParseTaskFilter builds a task.Filter from list query parameters
// (status, type, limit). The owner is set by the caller.
// Returns a *domain.ValidationError for unknown values.
func ParseTaskFilter(q url.Values) (task.Filter, error) {
	var f task.Filter
	fields := make(map[string]string)

	if v := q.Get("status"); v != "" {
		if s := task.Status(v); s.IsValid() {
			f.Status = s
		} else {
			fields["status"] = fmt.Sprintf("invalid: %q", v)
		}
	}

	if v := q.Get("type"); v != "" {
		if t := task.Type(v); t.IsValid() {
			f.Type = t
		} else {
			fields["type"] = fmt.Sprintf("invalid: %q", v)
		}
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxListLimit {
			fields["limit"] = fmt.Sprintf("must be 1-%d, got %q", MaxListLimit, v)
		} else {
			f.Limit = n
		}
	}

	if len(fields) > 0 {
		return task.Filter{}, &domain.ValidationError{Fields: fields}
	}
	return f, nil
}
