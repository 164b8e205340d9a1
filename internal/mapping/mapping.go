// Package mapping loads the static category mapping table that drives
// the resolver: one row per (sub-category, parent category, budget
// type). The table lives in a spreadsheet maintained by hand, so two
// backends are supported: a local CSV file and a Google Sheets tab.
package mapping

import (
	"context"
	"fmt"
	"strings"

	"github.com/carmstrong/mintyfresh/pkg/minty"
)

// Backend names accepted by New.
const (
	BackendCSV    = "csv"
	BackendSheets = "sheets"
)

// Config selects and configures a mapping backend.
type Config struct {
	Backend string

	// CSV backend.
	CSVPath string

	// Sheets backend.
	SpreadsheetID   string
	ReadRange       string
	CredentialsJSON []byte
}

// New creates the configured mapping loader.
func New(ctx context.Context, cfg Config) (minty.MappingLoader, error) {
	switch cfg.Backend {
	case BackendCSV, "":
		return NewCSVLoader(cfg.CSVPath), nil
	case BackendSheets:
		return NewSheetsLoader(ctx, cfg.SpreadsheetID, cfg.ReadRange, cfg.CredentialsJSON)
	default:
		return nil, fmt.Errorf("unknown mapping backend %q", cfg.Backend)
	}
}

// Expected column headers, matched case-insensitively.
const (
	headerSubCategory    = "sub-category"
	headerParentCategory = "parent category"
	headerBudgetType     = "type"
)

// parseRows converts a header row plus data rows into mapping entries.
// Shared by both backends since a sheet and a CSV file carry the same
// shape.
func parseRows(header []string, rows [][]string) ([]minty.CategoryMapping, error) {
	subIdx, parentIdx, typeIdx := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case headerSubCategory:
			subIdx = i
		case headerParentCategory:
			parentIdx = i
		case headerBudgetType:
			typeIdx = i
		}
	}
	if subIdx < 0 || parentIdx < 0 || typeIdx < 0 {
		return nil, fmt.Errorf("mapping table missing required columns, got header %v", header)
	}

	width := subIdx
	if parentIdx > width {
		width = parentIdx
	}
	if typeIdx > width {
		width = typeIdx
	}

	out := make([]minty.CategoryMapping, 0, len(rows))
	for i, row := range rows {
		if len(row) <= width {
			return nil, fmt.Errorf("mapping row %d has %d columns, want at least %d", i+1, len(row), width+1)
		}

		budgetType, err := minty.ParseBudgetType(row[typeIdx])
		if err != nil {
			return nil, fmt.Errorf("mapping row %d: %w", i+1, err)
		}

		out = append(out, minty.CategoryMapping{
			SubCategory:    strings.TrimSpace(row[subIdx]),
			ParentCategory: strings.TrimSpace(row[parentIdx]),
			BudgetType:     budgetType,
		})
	}
	return out, nil
}
