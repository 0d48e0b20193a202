package export

import (
	"errors"
	"fmt"
)

// Configuration errors.
var (
	// ErrNoActionFound means the designated actions object has no
	// usable or pinned action.
	ErrNoActionFound = errors.New("no action found")

	// ErrObjectNotFound means the designated actions object does not
	// exist in the scene.
	ErrObjectNotFound = errors.New("actions object not found")
)

// ExporterError wraps a static-scene exporter failure. Any such
// failure aborts the run; the partially written container stays on
// disk without its closing tag.
type ExporterError struct {
	Format Format
	Path   string
	Err    error
}

func (e *ExporterError) Error() string {
	return fmt.Sprintf("static %s export to %s failed: %v", e.Format, e.Path, e.Err)
}

func (e *ExporterError) Unwrap() error {
	return e.Err
}
