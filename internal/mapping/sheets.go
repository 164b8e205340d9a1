package mapping

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/carmstrong/mintyfresh/pkg/minty"
)

// defaultReadRange covers the three mapping columns of the first tab.
const defaultReadRange = "A:C"

// SheetsLoader reads the mapping table from a Google Sheets tab.
type SheetsLoader struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

var _ minty.MappingLoader = (*SheetsLoader)(nil)

// NewSheetsLoader creates a loader for one spreadsheet range using
// service-account credentials.
func NewSheetsLoader(ctx context.Context, spreadsheetID, readRange string, credentialsJSON []byte) (*SheetsLoader, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if readRange == "" {
		readRange = defaultReadRange
	}

	opts := []option.ClientOption{
		option.WithScopes(gsheet.SpreadsheetsReadonlyScope),
	}
	if len(credentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON))
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sheets service")
	}

	return &SheetsLoader{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}, nil
}

// Load fetches the mapping range and parses it.
func (l *SheetsLoader) Load(ctx context.Context) ([]minty.CategoryMapping, error) {
	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, l.readRange).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read mapping sheet")
	}
	if len(resp.Values) == 0 {
		return nil, errors.Errorf("mapping sheet %s has no rows", l.spreadsheetID)
	}

	header := toStrings(resp.Values[0])
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		rows = append(rows, toStrings(row))
	}

	return parseRows(header, rows)
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = fmt.Sprint(cell)
	}
	return out
}
