package utils

import (
	"testing"
	"time"
)

func TestMonthOf(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2025-03-15", "2025-03"},
		{"2024-12-31", "2024-12"},
		{"2025-01", "2025-01"},
		{"short", "short"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MonthOf(tt.date); got != tt.want {
			t.Errorf("MonthOf(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestIsLastDayOfMonth(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2025-03-31", true},
		{"2025-03-30", false},
		{"2025-04-30", true},
		{"2025-02-28", true},
		{"2024-02-28", false}, // leap year
		{"2024-02-29", true},
		{"2025-12-31", true},
		{"2025-01-01", false},
	}
	for _, tt := range tests {
		day, err := time.Parse(DateFormat, tt.date)
		if err != nil {
			t.Fatalf("bad test date %q: %v", tt.date, err)
		}
		if got := IsLastDayOfMonth(day); got != tt.want {
			t.Errorf("IsLastDayOfMonth(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestTodayAndCurrentMonthAgree(t *testing.T) {
	if MonthOf(Today()) != CurrentMonth() {
		t.Errorf("MonthOf(Today()) = %q, CurrentMonth() = %q", MonthOf(Today()), CurrentMonth())
	}
}
