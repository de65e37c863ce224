package imagesource

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/clictest/clictest/internal/domain"
)

// maxReasonBytes bounds how much of an error body becomes the reason.
const maxReasonBytes = 512

// FetchError is returned for a non-2xx answer from the image source. It
// unwraps to the domain sentinel matching the status so callers can
// classify it with errors.Is, while Error keeps the status and the
// server's own reason for the task's failure message.
type FetchError struct {
	Location   string
	StatusCode int
	Reason     string
	kind       error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetching %s: HTTP %d", e.Location, e.StatusCode)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.kind
}

// newFetchError classifies resp. It consumes at most maxReasonBytes of the
// body; the caller still closes it.
func newFetchError(location string, resp *http.Response) *FetchError {
	return &FetchError{
		Location:   location,
		StatusCode: resp.StatusCode,
		Reason:     reason(resp),
		kind:       kindOf(resp.StatusCode),
	}
}

func kindOf(status int) error {
	switch {
	case status == http.StatusNotFound, status == http.StatusGone:
		return domain.ErrNotFound
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return domain.ErrForbidden
	case status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return domain.ErrUnavailable
	case status >= http.StatusBadRequest:
		// The request itself was refused; retrying the same location won't help.
		return domain.ErrValidation
	default:
		// 1xx and 3xx that the transport did not resolve.
		return domain.ErrUnavailable
	}
}

// reason extracts a short human-readable explanation from an error body.
// problem+json bodies contribute their detail (or title); plain text bodies
// their first line. Anything else, including binary payloads, yields "".
func reason(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReasonBytes))
	if err != nil || !utf8.Valid(raw) {
		return ""
	}

	switch {
	case mediaType == "application/problem+json", mediaType == "application/json":
		var problem struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &problem) != nil {
			return ""
		}
		if problem.Detail != "" {
			return problem.Detail
		}
		return problem.Title
	case mediaType == "text/plain":
		line, _, _ := strings.Cut(string(raw), "\n")
		return strings.TrimSpace(line)
	default:
		return ""
	}
}
