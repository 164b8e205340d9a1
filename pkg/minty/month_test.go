package minty

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMonth_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:    "year-month format",
			input:   `"2015-03"`,
			want:    "2015-03",
			wantErr: false,
		},
		{
			name:    "null value",
			input:   `null`,
			want:    "",
			wantErr: false,
		},
		{
			name:    "empty string",
			input:   `""`,
			want:    "",
			wantErr: false,
		},
		{
			name:    "invalid format",
			input:   `"not-a-month"`,
			want:    "",
			wantErr: true,
		},
		{
			name:    "full date rejected",
			input:   `"2015-03-08"`,
			want:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Month
			err := json.Unmarshal([]byte(tt.input), &m)

			if (err != nil) != tt.wantErr {
				t.Errorf("Month.UnmarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}

			got := ""
			if !m.IsZero() {
				got = m.String()
			}
			if got != tt.want {
				t.Errorf("Month.UnmarshalJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonth_MarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		month Month
		want  string
	}{
		{
			name:  "regular month",
			month: Month{Year: 2015, Month: time.January},
			want:  `"2015-01"`,
		},
		{
			name:  "zero month",
			month: Month{},
			want:  `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.month)
			if err != nil {
				t.Fatalf("Month.MarshalJSON() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Month.MarshalJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMonth_Before_AcrossYearBoundary(t *testing.T) {
	dec := Month{Year: 2015, Month: time.December}
	jan := Month{Year: 2016, Month: time.January}

	if !dec.Before(jan) {
		t.Error("2015-12 should be before 2016-01")
	}
	if jan.Before(dec) {
		t.Error("2016-01 should not be before 2015-12")
	}
	if jan.Before(jan) {
		t.Error("a month should not be before itself")
	}
}

func TestMonthOf(t *testing.T) {
	got := MonthOf(time.Date(2015, 7, 19, 23, 59, 0, 0, time.UTC))
	want := Month{Year: 2015, Month: time.July}
	if got != want {
		t.Errorf("MonthOf() = %v, want %v", got, want)
	}
}
