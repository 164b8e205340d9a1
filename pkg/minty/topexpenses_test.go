package minty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseService_TopForLatestMonth(t *testing.T) {
	client := newTestClient(t, nil)

	transactions := []Transaction{
		// Earlier month, must be ignored.
		{Date: day(2015, 6, 2), Amount: d("-500"), Description: "Rent Co", ParentCategory: "Home", BudgetType: BudgetNonDiscretionary},
		// Latest month.
		{Date: day(2015, 7, 1), Amount: d("-60"), Description: "Safeway", ParentCategory: "Food", BudgetType: BudgetNonDiscretionary},
		{Date: day(2015, 7, 3), Amount: d("-90"), Description: "Safeway", ParentCategory: "Food", BudgetType: BudgetNonDiscretionary},
		{Date: day(2015, 7, 5), Amount: d("2000"), Description: "Employer", ParentCategory: "Income", BudgetType: BudgetIncome},
		{Date: day(2015, 7, 9), Amount: d("-25"), Description: "Diner", ParentCategory: "Dining", BudgetType: BudgetDiscretionary},
	}

	got := client.Expenses.TopForLatestMonth(transactions)
	require.Len(t, got, 3)

	assert.Equal(t, "Employer", got[0].Description)
	assert.True(t, got[0].Amount.Equal(d("2000")))
	assert.Equal(t, 1, got[0].Occurrences)

	assert.Equal(t, "Safeway", got[1].Description)
	// Signed sum reported, not the absolute value used for ranking.
	assert.True(t, got[1].Amount.Equal(d("-150")), "amount = %s", got[1].Amount)
	assert.Equal(t, 2, got[1].Occurrences)

	assert.Equal(t, "Diner", got[2].Description)
}

func TestExpenseService_TopForLatestMonth_StableTies(t *testing.T) {
	client := newTestClient(t, nil)

	transactions := []Transaction{
		{Date: day(2015, 7, 1), Amount: d("-40"), Description: "First Seen", ParentCategory: "Food", BudgetType: BudgetNonDiscretionary},
		{Date: day(2015, 7, 2), Amount: d("40"), Description: "Second Seen", ParentCategory: "Income", BudgetType: BudgetIncome},
		{Date: day(2015, 7, 3), Amount: d("-40"), Description: "Third Seen", ParentCategory: "Dining", BudgetType: BudgetDiscretionary},
	}

	got := client.Expenses.TopForLatestMonth(transactions)
	require.Len(t, got, 3)

	// Equal absolute sums keep first-occurrence order.
	assert.Equal(t, "First Seen", got[0].Description)
	assert.Equal(t, "Second Seen", got[1].Description)
	assert.Equal(t, "Third Seen", got[2].Description)
}

func TestExpenseService_TopForLatestMonth_YearBoundary(t *testing.T) {
	client := newTestClient(t, nil)

	// January 2016 is the latest month even though its month number is
	// lower than December's.
	transactions := []Transaction{
		{Date: day(2015, 12, 20), Amount: d("-300"), Description: "December Store", ParentCategory: "Food", BudgetType: BudgetNonDiscretionary},
		{Date: day(2016, 1, 4), Amount: d("-20"), Description: "January Store", ParentCategory: "Food", BudgetType: BudgetNonDiscretionary},
	}

	got := client.Expenses.TopForLatestMonth(transactions)
	require.Len(t, got, 1)
	assert.Equal(t, "January Store", got[0].Description)
}

func TestExpenseService_TopForLatestMonth_GroupsByDescriptionAndCategory(t *testing.T) {
	client := newTestClient(t, nil)

	// Same merchant under two parent categories stays two rows.
	transactions := []Transaction{
		{Date: day(2015, 7, 1), Amount: d("-50"), Description: "Amazon", ParentCategory: "Entertainment", BudgetType: BudgetDiscretionary},
		{Date: day(2015, 7, 2), Amount: d("-80"), Description: "Amazon", ParentCategory: "Home", BudgetType: BudgetNonDiscretionary},
	}

	got := client.Expenses.TopForLatestMonth(transactions)
	require.Len(t, got, 2)
	assert.Equal(t, "Home", got[0].ParentCategory)
	assert.Equal(t, "Entertainment", got[1].ParentCategory)
}

func TestExpenseService_TopForLatestMonth_Empty(t *testing.T) {
	client := newTestClient(t, nil)
	assert.Nil(t, client.Expenses.TopForLatestMonth(nil))
}
