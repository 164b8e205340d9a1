package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carmstrong/mintyfresh/pkg/minty"
)

func TestClient_Transactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transactions", r.URL.Path)
		assert.Equal(t, "2015-01-01", r.URL.Query().Get("since"))
		assert.Equal(t, "Token test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"transactions": [
				{"date": "2015-01-05", "amount": 2000, "description": "Employer", "category": "Paycheck"},
				{"date": "2015-01-10", "amount": 150.25, "description": "Safeway", "category": "Groceries", "type": "debit"},
				{"date": "2015-01-12", "amount": 25, "description": "Pending Store", "category": "Groceries", "pending": true}
			]
		}`))
	}))
	defer server.Close()

	client := New(&Options{BaseURL: server.URL, Token: "test-token"})

	since := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := client.Transactions(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Employer", got[0].Description)
	assert.Equal(t, "2015-01-05", got[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2000", got[0].Amount.String())

	assert.Equal(t, minty.TypeDebit, got[1].Type)
	assert.Equal(t, "150.25", got[1].Amount.String())

	assert.True(t, got[2].Pending)
}

func TestClient_Transactions_MalformedDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"transactions": [{"date": "01/05/2015", "amount": 1}]}`))
	}))
	defer server.Close()

	client := New(&Options{BaseURL: server.URL})

	_, err := client.Transactions(context.Background(), time.Time{})
	require.Error(t, err)

	var srcErr *minty.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "transactions", srcErr.Op)
}

func TestClient_Accounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts", r.URL.Path)

		_, _ = w.Write([]byte(`{
			"accounts": [
				{"name": "Checking", "accountType": "bank", "currentBalance": 5000},
				{"name": "Visa", "accountType": "credit", "currentBalance": 450.50}
			]
		}`))
	}))
	defer server.Close()

	client := New(&Options{BaseURL: server.URL})

	got, err := client.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, minty.AccountCredit, got[1].Type)
	assert.Equal(t, "450.5", got[1].CurrentBalance.String())

	assert.True(t, minty.TotalBalance(got).Equal(got[0].CurrentBalance.Sub(got[1].CurrentBalance)))
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(&Options{BaseURL: server.URL})

	_, err := client.Accounts(context.Background())
	require.Error(t, err)

	var srcErr *minty.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, http.StatusInternalServerError, srcErr.StatusCode)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"accounts": []}`))
	}))
	defer server.Close()

	client := New(&Options{
		BaseURL: server.URL,
		RetryConfig: &RetryConfig{
			MaxRetries: 1,
			RetryWait:  time.Millisecond,
			MaxWait:    5 * time.Millisecond,
		},
	})

	got, err := client.Accounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 2, attempts)
}
