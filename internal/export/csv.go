package export

import (
	"context"
	"encoding/csv"
	"os"

	"github.com/pkg/errors"

	"github.com/carmstrong/mintyfresh/pkg/minty"
)

var csvHeader = []string{"Date", "Description", "Amount", "Sub-Category", "Parent Category", "Type"}

// CSVExporter writes the normalized transactions to one CSV file,
// truncating whatever a previous run left there.
type CSVExporter struct {
	path string
}

var _ minty.Exporter = (*CSVExporter)(nil)

// NewCSVExporter creates an exporter for the given file path.
func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{path: path}
}

// Export writes all transactions, one row each.
func (e *CSVExporter) Export(ctx context.Context, runID string, transactions []minty.Transaction) error {
	f, err := os.Create(e.path)
	if err != nil {
		return errors.Wrap(err, "failed to create export file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return errors.Wrap(err, "failed to write export header")
	}

	for _, t := range transactions {
		record := []string{
			t.Date.Format("2006-01-02"),
			t.Description,
			t.Amount.String(),
			t.SubCategory,
			t.ParentCategory,
			string(t.BudgetType),
		}
		if err := w.Write(record); err != nil {
			return errors.Wrap(err, "failed to write export row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "failed to flush export")
	}
	return f.Close()
}
