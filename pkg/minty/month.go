package minty

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Month is a calendar year-month value. Pivot columns and
// reconciliation rows are keyed by Month rather than by formatted
// strings so ordering is always by (year, month) and never by string
// comparison across year boundaries.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the Month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a "YYYY-MM" value.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("unable to parse month: %s", s)
	}
	return MonthOf(t), nil
}

// Before reports whether m is strictly earlier than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// IsZero reports whether m is the zero Month.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// String returns the month as "YYYY-MM".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// UnmarshalJSON implements json.Unmarshaler for Month.
func (m *Month) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)

	if str == "" || str == "null" {
		*m = Month{}
		return nil
	}

	parsed, err := ParseMonth(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalJSON implements json.Marshaler for Month.
func (m Month) MarshalJSON() ([]byte, error) {
	if m.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`"%s"`, m.String())), nil
}

// MarshalText implements encoding.TextMarshaler so Month can key JSON
// maps (pivot cells are keyed by month).
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for Month.
func (m *Month) UnmarshalText(text []byte) error {
	parsed, err := ParseMonth(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// sortMonths orders months ascending in place.
func sortMonths(months []Month) {
	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})
}
