package domain

import (
	"testing"
	"time"
)

func day(n int) Date {
	return NewDate(2024, time.January, n)
}

func TestDateStepping(t *testing.T) {
	d := day(31)

	if got := d.Next(); !got.Equal(NewDate(2024, time.February, 1)) {
		t.Errorf("expected 2024-02-01, got %s", got)
	}
	if got := d.Prev(); !got.Equal(day(30)) {
		t.Errorf("expected 2024-01-30, got %s", got)
	}
	if got := d.AddDays(14); got.String() != "2024-02-14" {
		t.Errorf("expected 2024-02-14, got %s", got)
	}
}

func TestRangeContains(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		d    Date
		want bool
	}{
		{"inside bounded", RangeBetween(day(1), day(4)), day(3), true},
		{"first is inclusive", RangeBetween(day(1), day(4)), day(1), true},
		{"last is inclusive", RangeBetween(day(1), day(4)), day(4), true},
		{"before first", RangeBetween(day(2), day(4)), day(1), false},
		{"after last", RangeBetween(day(1), day(4)), day(5), false},
		{"unbounded admits all", RangeAll(), day(15), true},
		{"from is one-sided", RangeFrom(day(10)), day(9), false},
		{"to is one-sided", RangeTo(day(10)), day(11), false},
		{"past range is empty", RangePast(), day(1), false},
		{"future range is empty", RangeFuture(), day(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.d); got != tt.want {
				t.Errorf("Contains(%s) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestRangePreceding(t *testing.T) {
	r := RangeBetween(day(10), day(20))
	p := r.Preceding()

	if p.Contains(day(10)) {
		t.Errorf("preceding range must not contain the first bound")
	}
	if !p.Contains(day(9)) {
		t.Errorf("preceding range must contain the day before first")
	}
	if _, bounded := p.First(); bounded {
		t.Errorf("preceding range must be open toward the past")
	}

	if got := RangeTo(day(20)).Preceding(); !got.IsEmpty() {
		t.Errorf("preceding an unbounded start must be the empty past range, got %s", got)
	}
	if got := RangePast().Preceding(); got != RangePast() {
		t.Errorf("preceding the past range must be itself, got %s", got)
	}
	if got := RangeBetween(day(1), day(2)); got.Preceding().Following() == got {
		t.Errorf("preceding/following are half-open complements, not inverses")
	}
}

func TestRangeFollowing(t *testing.T) {
	r := RangeBetween(day(10), day(20))
	f := r.Following()

	if f.Contains(day(20)) {
		t.Errorf("following range must not contain the last bound")
	}
	if !f.Contains(day(21)) {
		t.Errorf("following range must contain the day after last")
	}
	if _, bounded := f.Last(); bounded {
		t.Errorf("following range must be open toward the future")
	}

	if got := RangeFrom(day(10)).Following(); !got.IsEmpty() {
		t.Errorf("following an unbounded end must be the empty future range, got %s", got)
	}
	if got := RangeFuture().Following(); got != RangeFuture() {
		t.Errorf("following the future range must be itself, got %s", got)
	}
}

func TestClosingRangeComposition(t *testing.T) {
	// Following().Preceding() of a bounded period yields "everything up
	// to and including the period", the closing-balance window.
	r := RangeBetween(day(10), day(20))
	closing := r.Following().Preceding()

	if !closing.Contains(day(1)) || !closing.Contains(day(20)) {
		t.Errorf("closing window must cover everything through the period end")
	}
	if closing.Contains(day(21)) {
		t.Errorf("closing window must stop at the period end")
	}
}
