package worker

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clictest/clictest/internal/domain"
	"github.com/clictest/clictest/internal/domain/task"
	"github.com/clictest/clictest/internal/ports"
)

// InputImportFrom is the input key naming the image location.
const InputImportFrom = "import_from"

// ImportRunner handles import tasks: it reads the image named by
// input.import_from from an ImageSource and records what it found.
type ImportRunner struct {
	source ports.ImageSource
	newID  func() string
}

// NewImportRunner creates an ImportRunner reading from source.
func NewImportRunner(source ports.ImageSource) *ImportRunner {
	return &ImportRunner{source: source, newID: uuid.NewString}
}

// Run fetches the image and returns image_id, size, content_type and
// checksum.
func (r *ImportRunner) Run(ctx context.Context, t task.Entity) (map[string]any, error) {
	location, _ := t.Input()[InputImportFrom].(string)
	if location == "" {
		return nil, &domain.ValidationError{Fields: map[string]string{InputImportFrom: domain.MsgRequired}}
	}

	info, err := r.source.Fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", location, err)
	}

	return map[string]any{
		"image_id":     r.newID(),
		"size":         info.Size,
		"content_type": info.ContentType,
		"checksum":     info.Checksum,
	}, nil
}
