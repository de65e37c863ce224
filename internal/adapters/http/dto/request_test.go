package dto_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clictest/clictest/internal/adapters/http/dto"
	"github.com/clictest/clictest/internal/domain"
	"github.com/clictest/clictest/internal/domain/task"
)

// assertInvalid checks err is a validation error naming exactly fields.
func assertInvalid(t *testing.T, err error, fields ...string) {
	t.Helper()

	require.ErrorIs(t, err, domain.ErrValidation)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	got := make([]string, 0, len(verr.Fields))
	for k := range verr.Fields {
		got = append(got, k)
	}
	assert.ElementsMatch(t, fields, got)
}

func TestCreateTaskRequest_Validate(t *testing.T) {
	t.Parallel()

	source := map[string]any{"import_from": "http://example.com/a.qcow2"}

	tests := []struct {
		name    string
		req     dto.CreateTaskRequest
		invalid []string
	}{
		{name: "import with source", req: dto.CreateTaskRequest{Type: "import", Input: source}},
		{name: "missing type", req: dto.CreateTaskRequest{Input: source}, invalid: []string{"type"}},
		{name: "blank type", req: dto.CreateTaskRequest{Type: "  "}, invalid: []string{"type"}},
		{name: "unsupported type", req: dto.CreateTaskRequest{Type: "export"}, invalid: []string{"type"}},
		{name: "import without input", req: dto.CreateTaskRequest{Type: "import"}, invalid: []string{"input.import_from"}},
		{
			name:    "import with numeric source",
			req:     dto.CreateTaskRequest{Type: "import", Input: map[string]any{"import_from": 12}},
			invalid: []string{"input.import_from"},
		},
		{
			name:    "import with blank source",
			req:     dto.CreateTaskRequest{Type: "import", Input: map[string]any{"import_from": " "}},
			invalid: []string{"input.import_from"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if tt.invalid == nil {
				assert.NoError(t, err)
				return
			}
			assertInvalid(t, err, tt.invalid...)
		})
	}
}

func TestParseTaskFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query   string
		want    task.Filter
		invalid []string
	}{
		{query: ""},
		{
			query: "status=success&type=import&limit=10",
			want:  task.Filter{Status: task.StatusSuccess, Type: task.TypeImport, Limit: 10},
		},
		{query: "limit=1000", want: task.Filter{Limit: dto.MaxListLimit}},
		{query: "status=done", invalid: []string{"status"}},
		{query: "type=export", invalid: []string{"type"}},
		{query: "limit=ten", invalid: []string{"limit"}},
		{query: "limit=0", invalid: []string{"limit"}},
		{query: "limit=1001", invalid: []string{"limit"}},
		{query: "status=done&limit=-1", invalid: []string{"status", "limit"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()

			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := dto.ParseTaskFilter(q)
			if tt.invalid != nil {
				assertInvalid(t, err, tt.invalid...)
				assert.Zero(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
