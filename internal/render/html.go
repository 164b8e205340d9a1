// Package render turns a finished report into the HTML document that
// gets emailed. Templates are embedded in the binary; all number
// formatting happens here so the pipeline's tables stay purely
// numeric.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/carmstrong/mintyfresh/pkg/minty"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// DefaultReconciliationRows is how many trailing months the emailed
// reconciliation table shows.
const DefaultReconciliationRows = 9

var englishPrinter = message.NewPrinter(language.English)

// Options configures the renderer.
type Options struct {
	// ReconciliationRows limits the reconciliation table to the
	// trailing N months. Zero keeps DefaultReconciliationRows;
	// negative keeps all months.
	ReconciliationRows int

	// CategoryLinkBase, when set, turns pivot category labels into
	// links to the aggregation service's per-category transaction
	// search.
	CategoryLinkBase string
}

// HTMLRenderer renders reports from the embedded templates.
type HTMLRenderer struct {
	tmpl *template.Template
	opts Options
}

var _ minty.Renderer = (*HTMLRenderer)(nil)

// New creates a renderer.
func New(opts *Options) (*HTMLRenderer, error) {
	if opts == nil {
		opts = &Options{}
	}
	if opts.ReconciliationRows == 0 {
		opts.ReconciliationRows = DefaultReconciliationRows
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse report templates")
	}

	return &HTMLRenderer{tmpl: tmpl, opts: *opts}, nil
}

// Render produces the full HTML document for a report.
func (r *HTMLRenderer) Render(report *minty.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "report.html.tmpl", r.viewOf(report)); err != nil {
		return nil, errors.Wrap(err, "failed to execute report template")
	}
	return buf.Bytes(), nil
}

// reportView is the template's data model: everything pre-formatted.
type reportView struct {
	GeneratedAt    string
	Pivot          pivotView
	Reconciliation reconciliationView
	TopExpenses    []expenseView
}

type pivotView struct {
	Months []string
	Rows   []pivotRowView
}

type pivotRowView struct {
	BudgetType string
	Category   template.HTML
	Cells      []string
}

type reconciliationView struct {
	Months []string
	Rows   []metricRowView
}

type metricRowView struct {
	Label string
	Cells []string
}

type expenseView struct {
	Description string
	Category    string
	Amount      string
	Occurrences int
}

func (r *HTMLRenderer) viewOf(report *minty.Report) reportView {
	return reportView{
		GeneratedAt:    report.GeneratedAt.Format("January 2, 2006"),
		Pivot:          r.pivotView(report.MonthlyByCategory),
		Reconciliation: r.reconciliationView(report.Reconciliation),
		TopExpenses:    expenseViews(report.TopExpenses),
	}
}

func (r *HTMLRenderer) pivotView(pivot *minty.MonthlyPivot) pivotView {
	view := pivotView{Months: make([]string, 0, len(pivot.Months))}
	for _, m := range pivot.Months {
		view.Months = append(view.Months, m.String())
	}

	for _, row := range pivot.Rows {
		cells := make([]string, 0, len(pivot.Months))
		for _, m := range pivot.Months {
			// Absent cells render as zero.
			cells = append(cells, formatAmount(row.Cell(m)))
		}
		view.Rows = append(view.Rows, pivotRowView{
			BudgetType: string(row.BudgetType),
			Category:   r.categoryLabel(row.ParentCategory),
			Cells:      cells,
		})
	}
	return view
}

// reconciliationMetrics lays out the reconciliation table: one row per
// metric, one column per month.
var reconciliationMetrics = []struct {
	label string
	value func(minty.ReconciliationRow) string
}{
	{"Beginning Balance", func(r minty.ReconciliationRow) string { return formatAmount(r.BeginningBalance) }},
	{"Regular Income", func(r minty.ReconciliationRow) string { return formatAmount(r.RegularIncome) }},
	{"Other Income", func(r minty.ReconciliationRow) string { return formatAmount(r.OtherIncome) }},
	{"Discretionary Expenses", func(r minty.ReconciliationRow) string { return formatAmount(r.DiscretionaryExpenses) }},
	{"Non Discretionary Expenses", func(r minty.ReconciliationRow) string { return formatAmount(r.NonDiscretionaryExpenses) }},
	{"Transfers", func(r minty.ReconciliationRow) string { return formatAmount(r.Transfers) }},
	{"Net Income", func(r minty.ReconciliationRow) string { return formatAmount(r.NetIncome) }},
	{"Ending Balance", func(r minty.ReconciliationRow) string { return formatAmount(r.EndingBalance) }},
	{"Running Net Income", func(r minty.ReconciliationRow) string { return formatAmount(r.RunningNetIncome) }},
	{"Running % Saved", func(r minty.ReconciliationRow) string { return formatPct(r.RunningPctSaved) }},
}

func (r *HTMLRenderer) reconciliationView(rows []minty.ReconciliationRow) reconciliationView {
	if limit := r.opts.ReconciliationRows; limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}

	view := reconciliationView{Months: make([]string, 0, len(rows))}
	for _, row := range rows {
		view.Months = append(view.Months, row.Month.String())
	}

	for _, metric := range reconciliationMetrics {
		cells := make([]string, 0, len(rows))
		for _, row := range rows {
			cells = append(cells, metric.value(row))
		}
		view.Rows = append(view.Rows, metricRowView{Label: metric.label, Cells: cells})
	}
	return view
}

func expenseViews(expenses []minty.TopExpense) []expenseView {
	out := make([]expenseView, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, expenseView{
			Description: e.Description,
			Category:    e.ParentCategory,
			Amount:      formatAmount(e.Amount),
			Occurrences: e.Occurrences,
		})
	}
	return out
}

// categoryLabel renders a category name, linked to the aggregation
// service's transaction search when a link base is configured.
func (r *HTMLRenderer) categoryLabel(category string) template.HTML {
	escaped := template.HTMLEscapeString(category)
	if r.opts.CategoryLinkBase == "" {
		return template.HTML(escaped)
	}
	query := fmt.Sprintf(`{"query":"category:%s","typeSort":8}`, category)
	href := r.opts.CategoryLinkBase + url.QueryEscape(query)
	return template.HTML(fmt.Sprintf(`<a class="category_links" href="%s">%s</a>`,
		template.HTMLEscapeString(href), escaped))
}

// formatAmount renders an amount as a whole number with thousands
// separators, e.g. -1,234.
func formatAmount(d decimal.Decimal) string {
	return englishPrinter.Sprintf("%d", d.Round(0).IntPart())
}

// formatPct renders a percentage cell; undefined values render empty.
func formatPct(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return englishPrinter.Sprintf("%d%%", d.Round(0).IntPart())
}
