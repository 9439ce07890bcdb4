package cart

import (
	"testing"
	"time"
)

func TestApplyLineUpsertsAndRemoves(t *testing.T) {
	c := New(1, time.Now())
	c.ApplyLine(Line{ItemId: 1, Description: "Apple", Amount: 5})
	c.ApplyLine(Line{ItemId: 1, Description: "Apple", Amount: 3})
	if len(c.Lines) != 1 || c.Lines[1].Amount != 3 {
		t.Fatalf("expected single line with amount 3, got %+v", c.Lines)
	}

	c.ApplyLine(Line{ItemId: 1, Amount: 0})
	if len(c.Lines) != 0 {
		t.Fatalf("expected line removed, got %+v", c.Lines)
	}
}

func TestApplyLineZeroOnAbsentIsNoop(t *testing.T) {
	c := New(1, time.Now())
	c.ApplyLine(Line{ItemId: 2, Amount: 0})
	if len(c.Lines) != 0 {
		t.Fatalf("expected no lines, got %+v", c.Lines)
	}
}

func TestTouchNeverGoesBackwards(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(1, base)

	c.Touch(base.Add(-time.Minute))
	if !c.LastUpdated.Equal(base) {
		t.Fatalf("expected %v, got %v", base, c.LastUpdated)
	}

	c.Touch(base.Add(time.Minute))
	if !c.LastUpdated.Equal(base.Add(time.Minute)) {
		t.Fatalf("expected timestamp to move forward, got %v", c.LastUpdated)
	}
}

func TestIsIdleBoundary(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(1, base)
	threshold := 10 * time.Minute

	testCases := []struct {
		name string
		idle time.Duration
		want bool
	}{
		{"three minutes", 3 * time.Minute, false},
		{"just under", 10*time.Minute - time.Second, false},
		{"exactly threshold", 10 * time.Minute, true},
		{"twelve minutes", 12 * time.Minute, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.IsIdle(base.Add(tc.idle), threshold); got != tc.want {
				t.Fatalf("IsIdle after %v: got %v, want %v", tc.idle, got, tc.want)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := New(1, time.Now())
	c.ApplyLine(Line{ItemId: 1, Amount: 1})
	clone := c.Clone()
	clone.ApplyLine(Line{ItemId: 2, Amount: 2})
	if len(c.Lines) != 1 {
		t.Fatalf("expected original untouched, got %+v", c.Lines)
	}
}
