package mapping

import (
	"context"
	"encoding/csv"
	"os"

	"github.com/pkg/errors"

	"github.com/carmstrong/mintyfresh/pkg/minty"
)

// CSVLoader reads the mapping table from a local CSV file with a
// header row.
type CSVLoader struct {
	path string
}

var _ minty.MappingLoader = (*CSVLoader)(nil)

// NewCSVLoader creates a loader for the given file path.
func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{path: path}
}

// Load reads and parses the mapping file.
func (l *CSVLoader) Load(ctx context.Context) ([]minty.CategoryMapping, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open mapping file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read mapping file")
	}
	if len(records) == 0 {
		return nil, errors.Errorf("mapping file %s is empty", l.path)
	}

	return parseRows(records[0], records[1:])
}
