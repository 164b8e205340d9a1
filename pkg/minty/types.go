package minty

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetType classifies a parent category for cash-flow grouping.
type BudgetType string

const (
	BudgetIncome           BudgetType = "Income"
	BudgetDiscretionary    BudgetType = "Discretionary"
	BudgetNonDiscretionary BudgetType = "Non Discretionary"
	BudgetTransfer         BudgetType = "Transfer"
)

// BudgetTypeOrder is the canonical row order of the monthly pivot.
var BudgetTypeOrder = []BudgetType{
	BudgetIncome,
	BudgetDiscretionary,
	BudgetNonDiscretionary,
	BudgetTransfer,
}

// ParseBudgetType matches s against the canonical budget types,
// ignoring case and surrounding whitespace.
func ParseBudgetType(s string) (BudgetType, error) {
	trimmed := strings.TrimSpace(s)
	for _, bt := range BudgetTypeOrder {
		if strings.EqualFold(trimmed, string(bt)) {
			return bt, nil
		}
	}
	return "", fmt.Errorf("unknown budget type %q", s)
}

// TransactionType is the debit/credit hint supplied by some sources.
// It may be empty when the source already signs amounts.
type TransactionType string

const (
	TypeDebit  TransactionType = "debit"
	TypeCredit TransactionType = "credit"
)

// RawTransaction is a transaction exactly as the aggregation source
// reports it, before any cleanup.
type RawTransaction struct {
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type,omitempty"`
	Pending     bool            `json:"pending"`
}

// Transaction is a normalized transaction. Amounts are signed: income
// and credits positive, expenses and debits negative. ParentCategory
// is always non-empty.
type Transaction struct {
	Date           time.Time       `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	SubCategory    string          `json:"subCategory"`
	ParentCategory string          `json:"parentCategory"`
	BudgetType     BudgetType      `json:"budgetType"`
}

// Month returns the calendar month the transaction falls in.
func (t Transaction) Month() Month {
	return MonthOf(t.Date)
}

// AccountType distinguishes liability accounts from everything else.
type AccountType string

// AccountCredit marks credit accounts, whose balances are liabilities.
const AccountCredit AccountType = "credit"

// Account is a financial account with its live balance.
type Account struct {
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}

// TotalBalance sums account balances into a net figure. Credit
// account balances are liabilities and are subtracted; all other
// account types are added.
func TotalBalance(accounts []Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.Type == AccountCredit {
			total = total.Sub(a.CurrentBalance)
		} else {
			total = total.Add(a.CurrentBalance)
		}
	}
	return total
}

// CategoryMapping is one row of the static category lookup table.
type CategoryMapping struct {
	SubCategory    string     `json:"subCategory"`
	ParentCategory string     `json:"parentCategory"`
	BudgetType     BudgetType `json:"budgetType"`
}

// Category is a fully resolved category assignment.
type Category struct {
	SubCategory    string     `json:"subCategory"`
	ParentCategory string     `json:"parentCategory"`
	BudgetType     BudgetType `json:"budgetType"`
}

// PivotRow is one (budget type, parent category) row of the monthly
// pivot. Cells holds only the months that had transactions; absent
// months are rendered as zero at presentation time.
type PivotRow struct {
	BudgetType     BudgetType                `json:"budgetType"`
	ParentCategory string                    `json:"parentCategory"`
	Cells          map[Month]decimal.Decimal `json:"cells"`
}

// Cell returns the summed amount for a month, or zero when the row
// has no transactions in that month.
func (r PivotRow) Cell(m Month) decimal.Decimal {
	if v, ok := r.Cells[m]; ok {
		return v
	}
	return decimal.Zero
}

// MonthlyPivot is the monthly-by-category table: rows in canonical
// budget-type order, columns (months) ascending.
type MonthlyPivot struct {
	Months []Month    `json:"months"`
	Rows   []PivotRow `json:"rows"`
}

// ReconciliationRow is one month of the cash-flow reconciliation.
// Expense fields carry negative amounts, so NetIncome is a plain sum.
// RunningPctSaved is nil for months where no gross income has
// accumulated yet.
type ReconciliationRow struct {
	Month                    Month            `json:"month"`
	BeginningBalance         decimal.Decimal  `json:"beginningBalance"`
	RegularIncome            decimal.Decimal  `json:"regularIncome"`
	OtherIncome              decimal.Decimal  `json:"otherIncome"`
	DiscretionaryExpenses    decimal.Decimal  `json:"discretionaryExpenses"`
	NonDiscretionaryExpenses decimal.Decimal  `json:"nonDiscretionaryExpenses"`
	Transfers                decimal.Decimal  `json:"transfers"`
	NetIncome                decimal.Decimal  `json:"netIncome"`
	EndingBalance            decimal.Decimal  `json:"endingBalance"`
	RunningNetIncome         decimal.Decimal  `json:"runningNetIncome"`
	RunningPctSaved          *decimal.Decimal `json:"runningPctSaved,omitempty"`
}

// TopExpense is one merchant row of the current-month expense table.
// Amount is the signed sum; ranking uses its absolute value.
type TopExpense struct {
	Description    string          `json:"description"`
	ParentCategory string          `json:"parentCategory"`
	Amount         decimal.Decimal `json:"amount"`
	Occurrences    int             `json:"occurrences"`
}

// Report is the finished output of one run: the normalized
// transaction set plus the three presentation tables.
type Report struct {
	RunID             string              `json:"runId"`
	GeneratedAt       time.Time           `json:"generatedAt"`
	CurrentBalance    decimal.Decimal     `json:"currentBalance"`
	Transactions      []Transaction       `json:"transactions"`
	MonthlyByCategory *MonthlyPivot       `json:"monthlyByCategory"`
	Reconciliation    []ReconciliationRow `json:"reconciliation"`
	TopExpenses       []TopExpense        `json:"topExpenses"`
}
