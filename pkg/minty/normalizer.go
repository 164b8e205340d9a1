package minty

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// transactionService implements the TransactionService interface
type transactionService struct {
	client *Client
}

// Normalize filters, signs and categorizes raw transactions. The
// result is a fresh slice of immutable records; the input is never
// modified, so normalizing the same raw data twice yields identical
// output. The whole batch fails on the first unmapped category: a
// single bad mapping invalidates the report.
func (s *transactionService) Normalize(ctx context.Context, raws []RawTransaction, since time.Time) ([]Transaction, error) {
	resolver, err := s.client.loadResolver(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load category mapping")
	}

	out := make([]Transaction, 0, len(raws))
	for _, raw := range raws {
		if raw.Pending || raw.Date.Before(since) {
			continue
		}

		amount := raw.Amount
		// Sources that report a debit/credit type leave amounts
		// unsigned; already-negative amounts pass through untouched.
		if raw.Type == TypeDebit && amount.IsPositive() {
			amount = amount.Neg()
		}

		category, err := resolver.Resolve(raw.Category)
		if err != nil {
			return nil, err
		}

		out = append(out, Transaction{
			Date:           raw.Date,
			Amount:         amount,
			Description:    raw.Description,
			SubCategory:    category.SubCategory,
			ParentCategory: category.ParentCategory,
			BudgetType:     category.BudgetType,
		})
	}

	if len(out) == 0 {
		return nil, ErrEmptyDataset
	}

	return out, nil
}
