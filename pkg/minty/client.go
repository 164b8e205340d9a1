package minty

import (
	"context"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// DefaultPivotMonths is how many trailing months the monthly
	// pivot keeps by default.
	DefaultPivotMonths = 6

	// PaycheckSubCategory is the sub-category treated as regular
	// income by the reconciliation.
	PaycheckSubCategory = "Paycheck"

	// IncomeParentCategory is the parent category whose transactions
	// count as income in the reconciliation.
	IncomeParentCategory = "Income"

	// UncategorizedCategory is the fallback sub-category for
	// transactions the source left uncategorized.
	UncategorizedCategory = "Uncategorized"
)

// Client is the report pipeline entry point. All state is scoped to
// one run: the mapping table is loaded lazily on first use and cached
// for the client's lifetime.
type Client struct {
	// Service interfaces
	Categories   CategoryService
	Transactions TransactionService
	Cashflow     CashflowService
	Expenses     ExpenseService
	Reports      ReportService

	// Internal fields
	source   Source
	mapping  MappingLoader
	exporter Exporter
	renderer Renderer
	sender   Sender
	options  *ClientOptions

	resolveOnce sync.Once
	resolver    *Resolver
	resolveErr  error
}

// ClientOptions configures the client.
type ClientOptions struct {
	// Source provides raw transactions and accounts. Required.
	Source Source

	// Mapping loads the category mapping table. Required.
	Mapping MappingLoader

	// Exporter persists the normalized transactions. Optional; when
	// nil the export step is skipped.
	Exporter Exporter

	// Renderer produces the emailable document. Required by Run.
	Renderer Renderer

	// Sender delivers the rendered report. Required by Run.
	Sender Sender

	// SinceDate excludes transactions dated before it.
	SinceDate time.Time

	// PivotMonths limits the pivot to the trailing N months.
	// Zero keeps DefaultPivotMonths; negative keeps all months.
	PivotMonths int

	// Subject overrides the email subject line.
	Subject string

	// Logger for debug logging
	Logger Logger

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NewClient creates a new report pipeline client.
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	if opts.Source == nil {
		return nil, ErrNoSource
	}
	if opts.Mapping == nil {
		return nil, ErrNoMapping
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		if err := sentry.Init(sentryOpts); err != nil {
			// Log error but don't fail client creation
			if opts.Logger != nil {
				opts.Logger.Error("Failed to initialize Sentry", "error", err)
			}
		}
	}

	if opts.PivotMonths == 0 {
		opts.PivotMonths = DefaultPivotMonths
	}

	c := &Client{
		source:   opts.Source,
		mapping:  opts.Mapping,
		exporter: opts.Exporter,
		renderer: opts.Renderer,
		sender:   opts.Sender,
		options:  opts,
	}

	c.initServices()

	return c, nil
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Categories = &categoryService{client: c}
	c.Transactions = &transactionService{client: c}
	c.Cashflow = &cashflowService{client: c}
	c.Expenses = &expenseService{client: c}
	c.Reports = &reportService{client: c}
}

// loadResolver loads the category mapping once and builds the
// resolver from it. The load error is cached: a broken mapping table
// fails every operation of the run.
func (c *Client) loadResolver(ctx context.Context) (*Resolver, error) {
	c.resolveOnce.Do(func() {
		rows, err := c.mapping.Load(ctx)
		if err != nil {
			c.resolveErr = err
			return
		}
		c.resolver, c.resolveErr = NewResolver(rows)
	})
	return c.resolver, c.resolveErr
}

// captureError reports a fatal run error to Sentry when enabled.
func (c *Client) captureError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	if c.options.SentryDSN == "" && c.options.SentryOptions == nil {
		return
	}
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
}

// Close flushes any pending Sentry events and performs cleanup
func (c *Client) Close() {
	sentry.Flush(2 * time.Second)
}
