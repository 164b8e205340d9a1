// Package export persists the normalized transaction set as a flat
// audit artifact. The artifact is rewritten from scratch each run and
// is never read back by the pipeline.
package export

import (
	"fmt"

	"github.com/carmstrong/mintyfresh/pkg/minty"
)

// Backend names accepted by New.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// New creates the configured exporter writing to path.
func New(backend, path string) (minty.Exporter, error) {
	switch backend {
	case BackendCSV, "":
		return NewCSVExporter(path), nil
	case BackendSQLite:
		return NewSQLiteExporter(path), nil
	default:
		return nil, fmt.Errorf("unknown export backend %q", backend)
	}
}
