package clock

import (
	"testing"
	"time"
)

func TestManualClock(t *testing.T) {
	c := Fixed("2025-12-31")
	if got := Today(c); got != "2025-12-31" {
		t.Fatalf("Today() = %q, want 2025-12-31", got)
	}

	c.AddDays(1)
	if got := Today(c); got != "2026-01-01" {
		t.Errorf("after AddDays(1) Today() = %q, want 2026-01-01", got)
	}

	c.Advance(36 * time.Hour)
	if got := Today(c); got != "2026-01-03" {
		t.Errorf("after Advance(36h) Today() = %q, want 2026-01-03", got)
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		name string
		date string
		n    int
		want string
	}{
		{name: "forward across month", date: "2026-01-31", n: 1, want: "2026-02-01"},
		{name: "backward across year", date: "2026-01-01", n: -1, want: "2025-12-31"},
		{name: "leap day", date: "2028-02-28", n: 1, want: "2028-02-29"},
		{name: "zero", date: "2026-03-10", n: 0, want: "2026-03-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddDays(tt.date, tt.n)
			if err != nil {
				t.Fatalf("AddDays() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("AddDays(%q, %d) = %q, want %q", tt.date, tt.n, got, tt.want)
			}
		})
	}

	if _, err := AddDays("31/12/2025", 1); err == nil {
		t.Error("AddDays() should reject a malformed date")
	}
}

func TestMonth(t *testing.T) {
	if got := Month("2025-12-31"); got != "2025-12" {
		t.Errorf("Month() = %q, want 2025-12", got)
	}
}
