package views

import "testing"

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"2024-01-05T10:15:30.123456+05:30", "Jan 05, 10:15 AM"},
		{"2024-03-20T15:04:05Z", "Mar 20, 03:04 PM"},
		{"not-a-date", "not-a-date"}, // verbatim fallback
		{"", ""},
	}

	for _, tc := range cases {
		if got := FormatTimestamp(tc.raw); got != tc.want {
			t.Errorf("FormatTimestamp(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
