package dto

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/clictest/clictest/internal/domain"
	"github.com/clictest/clictest/internal/platform/logging"
)

// ContentTypeProblem is the media type of every error body.
const ContentTypeProblem = "application/problem+json"

// internalDetail replaces the message of unclassified errors so internals
// never reach the client.
const internalDetail = "internal error"

// Problem is an RFC 9457 problem details body.
type Problem struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
}

// FieldError locates one invalid input, e.g. "query.limit" or
// "header.X-Tenant-ID".
type FieldError struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// statuses maps domain sentinels to HTTP statuses, most specific first.
var statuses = []struct {
	sentinel error
	status   int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrUnavailable, http.StatusBadGateway},
}

// StatusFor returns the HTTP status that reports err.
func StatusFor(err error) int {
	for _, s := range statuses {
		if errors.Is(err, s.sentinel) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

// NewProblem describes err for the request r. Validation failures list
// each invalid field; errors no sentinel classifies are reported without
// their message.
func NewProblem(r *http.Request, err error) Problem {
	status := StatusFor(err)
	p := problem(r, status, err.Error())
	if status == http.StatusInternalServerError {
		p.Detail = internalDetail
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		p.Errors = fieldErrors(r, verr.Fields)
	}
	return p
}

// WriteErrorResponse writes the problem describing err.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	p := NewProblem(r, err)
	if p.Status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "unclassified error",
			slog.Any("error", err))
	}
	writeProblem(w, r, p)
}

// WriteStatusResponse writes a problem for a condition with no domain
// error behind it, such as the request deadline expiring.
func WriteStatusResponse(w http.ResponseWriter, r *http.Request, status int, detail string) {
	writeProblem(w, r, problem(r, status, detail))
}

func problem(r *http.Request, status int, detail string) Problem {
	return Problem{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: r.URL.RequestURI(),
	}
}

func writeProblem(w http.ResponseWriter, r *http.Request, p Problem) {
	w.Header().Set("Content-Type", ContentTypeProblem)
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		logging.FromContext(r.Context()).WarnContext(r.Context(), "encoding problem response failed",
			slog.Any("error", err))
	}
}

// fieldErrors turns validation fields into FieldErrors sorted by location.
func fieldErrors(r *http.Request, fields map[string]string) []FieldError {
	out := make([]FieldError, 0, len(fields))
	for field, msg := range fields {
		out = append(out, FieldError{Location: location(r, field), Message: msg})
	}
	slices.SortFunc(out, func(a, b FieldError) int {
		return strings.Compare(a.Location, b.Location)
	})
	return out
}

// location says where field came from: canonical X- names are headers, "id"
// is the path parameter, other fields are the query on reads and the body
// on writes.
func location(r *http.Request, field string) string {
	switch {
	case strings.HasPrefix(field, "X-") && http.CanonicalHeaderKey(field) == field:
		return "header." + field
	case field == "id":
		return "path." + field
	case r.Method == http.MethodGet, r.Method == http.MethodHead:
		return "query." + field
	default:
		return "body." + field
	}
}
