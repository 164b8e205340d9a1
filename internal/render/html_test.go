package render

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carmstrong/mintyfresh/pkg/minty"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func testReport() *minty.Report {
	jan := minty.Month{Year: 2016, Month: time.January}
	feb := minty.Month{Year: 2016, Month: time.February}

	return &minty.Report{
		RunID:          "test-run",
		GeneratedAt:    time.Date(2016, time.February, 15, 8, 0, 0, 0, time.UTC),
		CurrentBalance: d("3750"),
		MonthlyByCategory: &minty.MonthlyPivot{
			Months: []minty.Month{jan, feb},
			Rows: []minty.PivotRow{
				{
					BudgetType:     minty.BudgetIncome,
					ParentCategory: "Income",
					Cells:          map[minty.Month]decimal.Decimal{jan: d("2000"), feb: d("2100")},
				},
				{
					BudgetType:     minty.BudgetDiscretionary,
					ParentCategory: "Entertainment",
					Cells:          map[minty.Month]decimal.Decimal{jan: d("-1234.56")},
				},
			},
		},
		Reconciliation: []minty.ReconciliationRow{
			{
				Month:            jan,
				BeginningBalance: d("0"),
				RegularIncome:    d("2000"),
				NetIncome:        d("1850"),
				EndingBalance:    d("1850"),
				RunningNetIncome: d("1850"),
				RunningPctSaved:  dp("92.5"),
			},
			{
				Month:            feb,
				BeginningBalance: d("1850"),
				RegularIncome:    d("2100"),
				NetIncome:        d("1900"),
				EndingBalance:    d("3750"),
				RunningNetIncome: d("3750"),
				RunningPctSaved:  nil,
			},
		},
		TopExpenses: []minty.TopExpense{
			{Description: "Whole Foods", ParentCategory: "Food & Dining", Amount: d("-412.80"), Occurrences: 4},
		},
	}
}

func TestRender(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	out, err := r.Render(testReport())
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "Monthly Spending by Category")
	assert.Contains(t, html, "Cash Flow Reconciliation")
	assert.Contains(t, html, "Top Expenses This Month")
	assert.Contains(t, html, "2016-01")
	assert.Contains(t, html, "2016-02")
	assert.Contains(t, html, "Entertainment")
	assert.Contains(t, html, "Whole Foods")
	assert.Contains(t, html, "Generated February 15, 2016")
}

func TestRenderAmountFormatting(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	out, err := r.Render(testReport())
	require.NoError(t, err)
	html := string(out)

	// Whole-number cells with thousands separators.
	assert.Contains(t, html, ">2,000<")
	assert.Contains(t, html, ">-1,235<")
	assert.Contains(t, html, ">-413<")
}

func TestRenderAbsentPivotCellIsZero(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	out, err := r.Render(testReport())
	require.NoError(t, err)

	// Entertainment has no February amount; the cell renders as 0,
	// not blank.
	assert.Contains(t, string(out), ">0<")
}

func TestRenderPercentCells(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	out, err := r.Render(testReport())
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, ">93%<")
	// Undefined percent renders as an empty cell.
	assert.Contains(t, html, "<td class=\"amount\"></td>")
}

func TestRenderReconciliationRowLimit(t *testing.T) {
	r, err := New(&Options{ReconciliationRows: 1})
	require.NoError(t, err)

	out, err := r.Render(testReport())
	require.NoError(t, err)
	html := string(out)

	// Only the trailing month survives in the reconciliation table;
	// January's percent column disappears.
	assert.NotContains(t, html, ">93%<")
	assert.Contains(t, html, ">3,750<")
}

func TestRenderCategoryLinks(t *testing.T) {
	r, err := New(&Options{CategoryLinkBase: "https://money.example.com/transactions.event?query="})
	require.NoError(t, err)

	out, err := r.Render(testReport())
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, `class="category_links"`)
	assert.Contains(t, html, "category%3AEntertainment")
}

func TestRenderNoLinksWithoutBase(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	out, err := r.Render(testReport())
	require.NoError(t, err)

	assert.NotContains(t, string(out), "category_links")
}

func TestRenderEscapesCategoryNames(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	report := testReport()
	report.MonthlyByCategory.Rows[1].ParentCategory = "Food & Dining"

	out, err := r.Render(report)
	require.NoError(t, err)

	assert.Contains(t, string(out), "Food &amp; Dining")
}
