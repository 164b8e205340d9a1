package export

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/carmstrong/mintyfresh/pkg/minty"
)

const sqliteSchema = `
CREATE TABLE transactions (
	run_id          TEXT NOT NULL,
	date            TEXT NOT NULL,
	description     TEXT NOT NULL,
	amount          TEXT NOT NULL,
	sub_category    TEXT NOT NULL,
	parent_category TEXT NOT NULL,
	budget_type     TEXT NOT NULL
);
`

// SQLiteExporter writes the normalized transactions to a single-table
// SQLite database. The table is dropped and recreated each run so the
// file always holds exactly one run's data.
type SQLiteExporter struct {
	path string
}

var _ minty.Exporter = (*SQLiteExporter)(nil)

// NewSQLiteExporter creates an exporter for the given database path.
func NewSQLiteExporter(path string) *SQLiteExporter {
	return &SQLiteExporter{path: path}
}

// Export replaces the transactions table with this run's rows.
func (e *SQLiteExporter) Export(ctx context.Context, runID string, transactions []minty.Transaction) error {
	db, err := sql.Open("sqlite", e.path)
	if err != nil {
		return errors.Wrap(err, "failed to open export database")
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin export transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS transactions`); err != nil {
		return errors.Wrap(err, "failed to drop old export table")
	}
	if _, err := tx.ExecContext(ctx, sqliteSchema); err != nil {
		return errors.Wrap(err, "failed to create export table")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (run_id, date, description, amount, sub_category, parent_category, budget_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare export insert")
	}
	defer stmt.Close()

	for _, t := range transactions {
		_, err := stmt.ExecContext(ctx,
			runID,
			t.Date.Format("2006-01-02"),
			t.Description,
			t.Amount.String(),
			t.SubCategory,
			t.ParentCategory,
			string(t.BudgetType),
		)
		if err != nil {
			return errors.Wrap(err, "failed to insert export row")
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit export")
}
