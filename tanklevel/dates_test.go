package tanklevel

import (
	"testing"
	"time"
)

func TestParseEventDate(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		valid    bool
		dateOnly string
	}{
		{
			name:     "ISO date only",
			raw:      "2025-03-14",
			valid:    true,
			dateOnly: "2025-03-14",
		},
		{
			name:     "ISO with time",
			raw:      "2025-03-14T09:30:00Z",
			valid:    true,
			dateOnly: "2025-03-14",
		},
		{
			name:     "ISO with space separator",
			raw:      "2025-03-14 09:30:00",
			valid:    true,
			dateOnly: "2025-03-14",
		},
		{
			name:     "D/M/YYYY",
			raw:      "14/3/2025",
			valid:    true,
			dateOnly: "2025-03-14",
		},
		{
			name:     "DD/MM/YYYY with time",
			raw:      "14/03/2025 09:30",
			valid:    true,
			dateOnly: "2025-03-14",
		},
		{
			name:     "native layout",
			raw:      "14 Mar 2025",
			valid:    true,
			dateOnly: "2025-03-14",
		},
		{
			name:  "empty string",
			raw:   "",
			valid: false,
		},
		{
			name:  "garbage",
			raw:   "next tuesday",
			valid: false,
		},
		{
			name:  "impossible calendar date",
			raw:   "31/02/2025",
			valid: false,
		},
		{
			name:  "month out of range",
			raw:   "10/13/2025",
			valid: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseEventDate(tc.raw)
			if got.Valid != tc.valid {
				t.Errorf("ParseEventDate(%q).Valid = %v, want %v", tc.raw, got.Valid, tc.valid)
			}
			if !tc.valid {
				if !got.Time.Equal(time.Unix(0, 0).UTC()) {
					t.Errorf("invalid date should degrade to epoch, got %v", got.Time)
				}
				if got.DateOnly != "" {
					t.Errorf("invalid date should have empty DateOnly, got %q", got.DateOnly)
				}
				return
			}
			if got.DateOnly != tc.dateOnly {
				t.Errorf("ParseEventDate(%q).DateOnly = %q, want %q", tc.raw, got.DateOnly, tc.dateOnly)
			}
		})
	}
}

func TestParseEventDateDMYOrder(t *testing.T) {
	// 4/3/2025 is the 4th of March, not the 3rd of April.
	got := ParseEventDate("4/3/2025")
	if !got.Valid {
		t.Fatal("4/3/2025 should parse")
	}
	if got.Time.Day() != 4 || got.Time.Month() != time.March {
		t.Errorf("4/3/2025 parsed as %v, want 4 March 2025", got.Time)
	}
}
