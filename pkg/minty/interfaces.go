package minty

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Source provides raw data from the financial aggregation service.
// Implementations own transport concerns (timeouts, retries); the
// pipeline performs each call at most once per run and treats any
// failure as fatal.
type Source interface {
	// Transactions retrieves raw transactions dated on or after since.
	Transactions(ctx context.Context, since time.Time) ([]RawTransaction, error)

	// Accounts retrieves all accounts with current balances.
	Accounts(ctx context.Context) ([]Account, error)
}

// MappingLoader loads the static category mapping table, once per run.
type MappingLoader interface {
	Load(ctx context.Context) ([]CategoryMapping, error)
}

// Exporter persists the normalized transaction set as a flat audit
// artifact, overwritten each run.
type Exporter interface {
	Export(ctx context.Context, runID string, transactions []Transaction) error
}

// Renderer turns a finished report into an emailable document.
type Renderer interface {
	Render(report *Report) ([]byte, error)
}

// Sender delivers a rendered report.
type Sender interface {
	Send(ctx context.Context, subject string, body []byte) error
}

// CategoryService resolves raw sub-categories against the mapping
// table.
type CategoryService interface {
	// Normalize cleans a raw sub-category: title-casing, known
	// abbreviation fixes, "Uncategorized" default.
	Normalize(raw string) string

	// Resolve maps a raw sub-category to its parent category and
	// budget type. Returns a *CategoryMappingError when the mapping
	// table has no entry for it.
	Resolve(ctx context.Context, raw string) (Category, error)
}

// TransactionService normalizes raw transactions.
type TransactionService interface {
	// Normalize filters, signs and categorizes raw transactions.
	// It fails fast on the first unmapped category and returns
	// ErrEmptyDataset when nothing survives filtering.
	Normalize(ctx context.Context, raws []RawTransaction, since time.Time) ([]Transaction, error)
}

// CashflowService computes balances and the monthly reconciliation.
type CashflowService interface {
	// NetWorth fetches accounts and totals their balances, credit
	// accounts subtracted.
	NetWorth(ctx context.Context) (decimal.Decimal, error)

	// Reconcile walks the months present in the transaction set and
	// chains beginning balance, net income and ending balance so the
	// last month's ending balance equals currentBalance.
	Reconcile(transactions []Transaction, currentBalance decimal.Decimal) ([]ReconciliationRow, error)
}

// ExpenseService ranks spending for the most recent month.
type ExpenseService interface {
	// TopForLatestMonth groups the latest month's transactions by
	// (description, parent category) and ranks them by absolute
	// summed amount, descending, ties in input order.
	TopForLatestMonth(transactions []Transaction) []TopExpense
}

// ReportService assembles and delivers the full report.
type ReportService interface {
	// MonthlyByCategory builds the (budget type, parent category) ×
	// month pivot.
	MonthlyByCategory(transactions []Transaction) *MonthlyPivot

	// Generate runs fetch → normalize → aggregate and returns the
	// report without side effects.
	Generate(ctx context.Context) (*Report, error)

	// Run generates the report, exports the normalized transactions
	// and emails the rendered document. Fatal errors abort before any
	// output is produced.
	Run(ctx context.Context) error
}
