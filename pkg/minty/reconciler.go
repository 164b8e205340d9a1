package minty

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// cashflowService implements the CashflowService interface
type cashflowService struct {
	client *Client
}

// NetWorth fetches all accounts and totals their balances, credit
// accounts subtracted.
func (s *cashflowService) NetWorth(ctx context.Context) (decimal.Decimal, error) {
	accounts, err := s.client.source.Accounts(ctx)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to get accounts")
	}
	return TotalBalance(accounts), nil
}

// Reconcile computes the month-by-month cash-flow reconciliation.
//
// The chain is anchored at the live balance: the balance before the
// earliest in-scope transaction is currentBalance minus the sum of all
// amounts, so by construction the last month's ending balance equals
// currentBalance. Only months with at least one transaction appear.
// The result is only meaningful when currentBalance reflects the
// account state at the moment of the run.
func (s *cashflowService) Reconcile(transactions []Transaction, currentBalance decimal.Decimal) ([]ReconciliationRow, error) {
	if len(transactions) == 0 {
		return nil, ErrEmptyDataset
	}

	total := decimal.Zero
	byMonth := make(map[Month][]Transaction)
	for _, t := range transactions {
		total = total.Add(t.Amount)
		m := t.Month()
		byMonth[m] = append(byMonth[m], t)
	}

	months := make([]Month, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sortMonths(months)

	anchor := currentBalance.Sub(total)
	runningNet := decimal.Zero
	runningGross := decimal.Zero

	rows := make([]ReconciliationRow, 0, len(months))
	for _, month := range months {
		beginning := anchor.Add(runningNet)

		var regular, income, discretionary, nonDiscretionary, transfers decimal.Decimal
		for _, t := range byMonth[month] {
			if t.SubCategory == PaycheckSubCategory {
				regular = regular.Add(t.Amount)
			}
			if t.ParentCategory == IncomeParentCategory {
				income = income.Add(t.Amount)
			}
			switch t.BudgetType {
			case BudgetDiscretionary:
				discretionary = discretionary.Add(t.Amount)
			case BudgetNonDiscretionary:
				nonDiscretionary = nonDiscretionary.Add(t.Amount)
			case BudgetTransfer:
				transfers = transfers.Add(t.Amount)
			}
		}
		other := income.Sub(regular)

		// Expense sums are already negative, so net income is a plain
		// sum across all five components.
		net := regular.Add(other).Add(discretionary).Add(nonDiscretionary).Add(transfers)
		ending := beginning.Add(net)
		runningNet = runningNet.Add(net)
		runningGross = runningGross.Add(regular).Add(other)

		row := ReconciliationRow{
			Month:                    month,
			BeginningBalance:         beginning,
			RegularIncome:            regular,
			OtherIncome:              other,
			DiscretionaryExpenses:    discretionary,
			NonDiscretionaryExpenses: nonDiscretionary,
			Transfers:                transfers,
			NetIncome:                net,
			EndingBalance:            ending,
			RunningNetIncome:         runningNet,
		}

		// Savings rate is undefined until gross income accumulates.
		if !runningGross.IsZero() {
			pct := runningNet.Div(runningGross).Mul(oneHundred)
			row.RunningPctSaved = &pct
		}

		rows = append(rows, row)
	}

	return rows, nil
}
