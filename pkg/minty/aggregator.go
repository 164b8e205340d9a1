package minty

import (
	"sort"

	"github.com/shopspring/decimal"
)

type pivotKey struct {
	budgetType     BudgetType
	parentCategory string
}

// buildMonthlyPivot sums transactions by (budget type, parent
// category) per month. Rows follow the canonical budget-type order
// with parent categories alphabetical within each type; budget types
// outside the canonical set are excluded from the table. Columns are
// months ascending, optionally trimmed to the trailing monthLimit
// (<= 0 keeps all).
func buildMonthlyPivot(transactions []Transaction, monthLimit int) *MonthlyPivot {
	cells := make(map[pivotKey]map[Month]decimal.Decimal)
	monthSet := make(map[Month]struct{})

	for _, t := range transactions {
		key := pivotKey{budgetType: t.BudgetType, parentCategory: t.ParentCategory}
		row, ok := cells[key]
		if !ok {
			row = make(map[Month]decimal.Decimal)
			cells[key] = row
		}
		m := t.Month()
		row[m] = row[m].Add(t.Amount)
		monthSet[m] = struct{}{}
	}

	months := make([]Month, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sortMonths(months)
	if monthLimit > 0 && len(months) > monthLimit {
		months = months[len(months)-monthLimit:]
	}

	rows := make([]PivotRow, 0, len(cells))
	for _, bt := range BudgetTypeOrder {
		categories := make([]string, 0)
		for key := range cells {
			if key.budgetType == bt {
				categories = append(categories, key.parentCategory)
			}
		}
		sort.Strings(categories)

		for _, parent := range categories {
			rows = append(rows, PivotRow{
				BudgetType:     bt,
				ParentCategory: parent,
				Cells:          cells[pivotKey{budgetType: bt, parentCategory: parent}],
			})
		}
	}

	return &MonthlyPivot{Months: months, Rows: rows}
}
