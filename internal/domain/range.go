package domain

type boundKind uint8

const (
	boundNone boundKind = iota
	boundDate
	boundPast
	boundFuture
)

type bound struct {
	kind boundKind
	date Date
}

// Range is a closed date interval. Either side may be a concrete date,
// absent (unbounded), or one of the distinguished past/future sentinels.
// A range whose first bound is the future sentinel, or whose last bound is
// the past sentinel, is empty and contains nothing.
type Range struct {
	first bound
	last  bound
}

// RangeAll returns the interval admitting every date.
func RangeAll() Range {
	return Range{}
}

// RangeBetween returns the closed interval [first, last].
func RangeBetween(first, last Date) Range {
	return Range{first: bound{boundDate, first}, last: bound{boundDate, last}}
}

// RangeFrom returns the interval [first, +inf).
func RangeFrom(first Date) Range {
	return Range{first: bound{kind: boundDate, date: first}}
}

// RangeTo returns the interval (-inf, last].
func RangeTo(last Date) Range {
	return Range{last: bound{kind: boundDate, date: last}}
}

// RangePast returns the degenerate interval pinned to the beginning of time.
func RangePast() Range {
	return Range{first: bound{kind: boundPast}, last: bound{kind: boundPast}}
}

// RangeFuture returns the degenerate interval pinned to the end of time.
func RangeFuture() Range {
	return Range{first: bound{kind: boundFuture}, last: bound{kind: boundFuture}}
}

// IsEmpty reports whether the range can contain no date at all.
func (r Range) IsEmpty() bool {
	return r.first.kind == boundFuture || r.last.kind == boundPast
}

// IsUnbounded reports whether the range admits every date.
func (r Range) IsUnbounded() bool {
	lower := r.first.kind == boundNone || r.first.kind == boundPast
	upper := r.last.kind == boundNone || r.last.kind == boundFuture
	return lower && upper
}

// First returns the lower bound date, if it is a concrete date.
func (r Range) First() (Date, bool) {
	return r.first.date, r.first.kind == boundDate
}

// Last returns the upper bound date, if it is a concrete date.
func (r Range) Last() (Date, bool) {
	return r.last.date, r.last.kind == boundDate
}

// Contains reports whether d lies inside the range. An absent bound means
// unbounded on that side.
func (r Range) Contains(d Date) bool {
	if r.IsEmpty() {
		return false
	}
	if r.first.kind == boundDate && d.Before(r.first.date) {
		return false
	}
	if r.last.kind == boundDate && d.After(r.last.date) {
		return false
	}
	return true
}

// Preceding returns the interval immediately before this range, used to
// compute opening balances.
func (r Range) Preceding() Range {
	switch {
	case r.first.kind == boundPast:
		// already extends to the beginning of time
		return r
	case r.last.kind == boundFuture:
		return RangeAll()
	case r.first.kind == boundNone:
		return RangePast()
	default:
		return RangeTo(r.first.date.Prev())
	}
}

// Following returns the interval immediately after this range, used to
// compute closing balances.
func (r Range) Following() Range {
	switch {
	case r.last.kind == boundFuture:
		return r
	case r.first.kind == boundPast:
		return RangeAll()
	case r.last.kind == boundNone:
		return RangeFuture()
	default:
		return RangeFrom(r.last.date.Next())
	}
}

func (r Range) String() string {
	f := "..."
	switch r.first.kind {
	case boundDate:
		f = r.first.date.String()
	case boundPast:
		f = "past"
	case boundFuture:
		f = "future"
	}
	l := "..."
	switch r.last.kind {
	case boundDate:
		l = r.last.date.String()
	case boundPast:
		l = "past"
	case boundFuture:
		l = "future"
	}
	return f + ".." + l
}
