// Package source implements the aggregation-service client. It is the
// only place that talks to the network: the pipeline performs each
// fetch at most once per run, and transient-failure retries live here,
// behind the minty.Source interface.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/carmstrong/mintyfresh/pkg/minty"
)

const (
	transactionsEndpoint = "/v1/transactions"
	accountsEndpoint     = "/v1/accounts"

	authHeaderKey = "Authorization"
	contentType   = "application/json"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// UserAgent is the user agent string
	UserAgent = "mintyfresh/1.0.0"

	dateFormat = "2006-01-02"
)

// RetryConfig bounds retries for transient failures. One retry with a
// short wait is the intended production setting.
type RetryConfig struct {
	MaxRetries int
	RetryWait  time.Duration
	MaxWait    time.Duration
}

// Options configures the source client.
type Options struct {
	// BaseURL is the aggregation API root. Required.
	BaseURL string

	// Token authenticates every request.
	Token string

	// HTTPClient allows using a custom HTTP client.
	HTTPClient *http.Client

	// RetryConfig configures retry behavior; nil disables retries.
	RetryConfig *RetryConfig

	// Logger for debug logging.
	Logger *zerolog.Logger
}

// Client fetches raw transactions and accounts over REST.
type Client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	retryClient *retryablehttp.Client
	logger      *zerolog.Logger
}

var _ minty.Source = (*Client)(nil)

// New creates a new source client.
func New(opts *Options) *Client {
	if opts == nil {
		opts = &Options{}
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	var retryClient *retryablehttp.Client
	if opts.RetryConfig != nil {
		retryClient = retryablehttp.NewClient()
		retryClient.HTTPClient = opts.HTTPClient
		retryClient.RetryMax = opts.RetryConfig.MaxRetries
		retryClient.RetryWaitMin = opts.RetryConfig.RetryWait
		retryClient.RetryWaitMax = opts.RetryConfig.MaxWait

		if opts.Logger != nil {
			retryClient.Logger = &retryLogger{logger: opts.Logger}
		} else {
			retryClient.Logger = nil
		}
	}

	return &Client{
		baseURL:     opts.BaseURL,
		token:       opts.Token,
		httpClient:  opts.HTTPClient,
		retryClient: retryClient,
		logger:      opts.Logger,
	}
}

// wireTransaction is a transaction as the API serializes it.
type wireTransaction struct {
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	Pending     bool            `json:"pending"`
}

// wireAccount is an account as the API serializes it.
type wireAccount struct {
	Name           string          `json:"name"`
	AccountType    string          `json:"accountType"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}

// Transactions retrieves raw transactions dated on or after since.
func (c *Client) Transactions(ctx context.Context, since time.Time) ([]minty.RawTransaction, error) {
	url := fmt.Sprintf("%s%s?since=%s", c.baseURL, transactionsEndpoint, since.Format(dateFormat))

	var result struct {
		Transactions []wireTransaction `json:"transactions"`
	}
	if err := c.get(ctx, "transactions", url, &result); err != nil {
		return nil, err
	}

	out := make([]minty.RawTransaction, 0, len(result.Transactions))
	for _, w := range result.Transactions {
		date, err := time.Parse(dateFormat, w.Date)
		if err != nil {
			return nil, &minty.SourceError{
				Op:  "transactions",
				Err: errors.Wrapf(err, "malformed transaction date %q", w.Date),
			}
		}
		out = append(out, minty.RawTransaction{
			Date:        date,
			Amount:      w.Amount,
			Description: w.Description,
			Category:    w.Category,
			Type:        minty.TransactionType(w.Type),
			Pending:     w.Pending,
		})
	}
	return out, nil
}

// Accounts retrieves all accounts with current balances.
func (c *Client) Accounts(ctx context.Context) ([]minty.Account, error) {
	var result struct {
		Accounts []wireAccount `json:"accounts"`
	}
	if err := c.get(ctx, "accounts", c.baseURL+accountsEndpoint, &result); err != nil {
		return nil, err
	}

	out := make([]minty.Account, 0, len(result.Accounts))
	for _, w := range result.Accounts {
		out = append(out, minty.Account{
			Name:           w.Name,
			Type:           minty.AccountType(w.AccountType),
			CurrentBalance: w.CurrentBalance,
		})
	}
	return out, nil
}

// get performs one GET and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, op, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &minty.SourceError{Op: op, Err: errors.Wrap(err, "failed to create request")}
	}

	req.Header.Set("Accept", contentType)
	req.Header.Set("User-Agent", UserAgent)
	if c.token != "" {
		req.Header.Set(authHeaderKey, fmt.Sprintf("Token %s", c.token))
	}

	if c.logger != nil {
		c.logger.Debug().Str("op", op).Str("url", url).Msg("source request")
	}

	start := time.Now()
	resp, err := c.doRequest(req)
	if err != nil {
		return &minty.SourceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &minty.SourceError{Op: op, Err: errors.Wrap(err, "failed to read response")}
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("op", op).
			Int("status", resp.StatusCode).
			Dur("duration", time.Since(start)).
			Int("size", len(body)).
			Msg("source response")
	}

	if resp.StatusCode != http.StatusOK {
		return &minty.SourceError{Op: op, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &minty.SourceError{Op: op, Err: errors.Wrap(err, "failed to parse response")}
	}

	return nil
}

// doRequest executes the HTTP request with retry if configured
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	if c.retryClient != nil {
		retryReq, err := retryablehttp.FromRequest(req)
		if err != nil {
			return nil, err
		}
		return c.retryClient.Do(retryReq)
	}
	return c.httpClient.Do(req)
}

// retryLogger adapts zerolog to the retryablehttp logger interface.
type retryLogger struct {
	logger *zerolog.Logger
}

func (l *retryLogger) Printf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}
