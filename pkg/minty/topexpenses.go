package minty

import (
	"sort"
)

// expenseService implements the ExpenseService interface
type expenseService struct {
	client *Client
}

// TopForLatestMonth restricts the dataset to the most recent calendar
// month, groups by (description, parent category) and ranks by the
// absolute value of the summed amount, descending. The sort is stable:
// groups with equal absolute sums keep their first-occurrence order.
// The reported amount is the signed sum, not the absolute value.
func (s *expenseService) TopForLatestMonth(transactions []Transaction) []TopExpense {
	if len(transactions) == 0 {
		return nil
	}

	// Latest month by full year-month, so December is never "newer"
	// than the following January.
	latest := transactions[0].Month()
	for _, t := range transactions[1:] {
		if m := t.Month(); latest.Before(m) {
			latest = m
		}
	}

	type groupKey struct {
		description    string
		parentCategory string
	}
	index := make(map[groupKey]int)
	groups := make([]TopExpense, 0)

	for _, t := range transactions {
		if t.Month() != latest {
			continue
		}
		key := groupKey{description: t.Description, parentCategory: t.ParentCategory}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, TopExpense{
				Description:    t.Description,
				ParentCategory: t.ParentCategory,
			})
		}
		groups[i].Amount = groups[i].Amount.Add(t.Amount)
		groups[i].Occurrences++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Amount.Abs().GreaterThan(groups[j].Amount.Abs())
	})

	return groups
}
