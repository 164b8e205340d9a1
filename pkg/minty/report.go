package minty

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// reportService implements the ReportService interface
type reportService struct {
	client *Client
}

// MonthlyByCategory builds the monthly pivot with the client's
// configured trailing-month limit.
func (s *reportService) MonthlyByCategory(transactions []Transaction) *MonthlyPivot {
	limit := s.client.options.PivotMonths
	if limit < 0 {
		limit = 0
	}
	return buildMonthlyPivot(transactions, limit)
}

// Generate runs the pipeline up to the three presentation tables.
// It has no side effects: nothing is exported or sent.
func (s *reportService) Generate(ctx context.Context) (*Report, error) {
	c := s.client

	raws, err := c.source.Transactions(ctx, c.options.SinceDate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transactions")
	}
	if c.options.Logger != nil {
		c.options.Logger.Debug("fetched transactions", "count", len(raws))
	}

	balance, err := c.Cashflow.NetWorth(ctx)
	if err != nil {
		return nil, err
	}

	transactions, err := c.Transactions.Normalize(ctx, raws, c.options.SinceDate)
	if err != nil {
		return nil, err
	}

	reconciliation, err := c.Cashflow.Reconcile(transactions, balance)
	if err != nil {
		return nil, err
	}

	return &Report{
		RunID:             uuid.NewString(),
		GeneratedAt:       time.Now(),
		CurrentBalance:    balance,
		Transactions:      transactions,
		MonthlyByCategory: s.MonthlyByCategory(transactions),
		Reconciliation:    reconciliation,
		TopExpenses:       c.Expenses.TopForLatestMonth(transactions),
	}, nil
}

// Run generates the report, exports the normalized transaction set
// and emails the rendered document. Any fatal error aborts before the
// export or the email is produced; there is no partial-success mode.
func (s *reportService) Run(ctx context.Context) error {
	c := s.client

	if c.renderer == nil {
		return ErrNoRenderer
	}
	if c.sender == nil {
		return ErrNoSender
	}

	report, err := s.Generate(ctx)
	if err != nil {
		c.captureError(ctx, err)
		return err
	}

	if c.exporter != nil {
		if err := c.exporter.Export(ctx, report.RunID, report.Transactions); err != nil {
			err = errors.Wrap(err, "failed to export transactions")
			c.captureError(ctx, err)
			return err
		}
	}

	body, err := c.renderer.Render(report)
	if err != nil {
		err = errors.Wrap(err, "failed to render report")
		c.captureError(ctx, err)
		return err
	}

	subject := c.options.Subject
	if subject == "" {
		subject = fmt.Sprintf("Minty Fresh Weekly - %s", report.GeneratedAt.Format("01-02-06"))
	}

	if err := c.sender.Send(ctx, subject, body); err != nil {
		err = errors.Wrap(err, "failed to send report")
		c.captureError(ctx, err)
		return err
	}

	if c.options.Logger != nil {
		c.options.Logger.Info("report sent",
			"run_id", report.RunID,
			"transactions", len(report.Transactions),
			"months", len(report.Reconciliation))
	}

	return nil
}
