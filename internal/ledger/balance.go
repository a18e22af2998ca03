// Package ledger implements the aggregation and due-allocation engines
// over immutable transaction collections. All computations are batch,
// single-threaded and never mutate their inputs.
package ledger

import (
	"fmt"
	"iter"
	"sort"

	"github.com/iho/ledgerbook/internal/domain"
)

// Resolver maps an account identifier to its chart account.
type Resolver interface {
	Resolve(name string) (*domain.Account, error)
}

// EntryPredicate selects which entries participate in an aggregation.
type EntryPredicate func(*domain.Entry) bool

// AccountPredicate selects which accounts participate in the rolled-up
// view. It receives the account (nil when no resolver was supplied) and
// the account's signed total across all buckets, not just the filtered
// subset; predicates wanting a magnitude take Abs themselves.
type AccountPredicate func(acc *domain.Account, total domain.Money) bool

// Remap rewrites an entry's resolved account before accumulation.
// Returning nil drops the entry. Only invoked when a resolver is set.
type Remap func(*domain.Account) *domain.Account

// Option configures a Balance construction.
type Option func(*Balance)

// WithRange restricts the aggregation to transactions whose selected date
// lies inside r.
func WithRange(r domain.Range) Option {
	return func(b *Balance) { b.rng = r }
}

// WithResolver validates entry accounts through res and enables
// hierarchical rollup.
func WithResolver(res Resolver) Option {
	return func(b *Balance) { b.res = res }
}

// WithEntryPredicate keeps only entries matching p.
func WithEntryPredicate(p EntryPredicate) Option {
	return func(b *Balance) { b.entryPred = p }
}

// WithAccountPredicate sets the initial rollup predicate.
func WithAccountPredicate(p AccountPredicate) Option {
	return func(b *Balance) { b.pred = p }
}

// WithRemap rewrites resolved accounts through f before accumulation.
func WithRemap(f Remap) Option {
	return func(b *Balance) { b.remap = f }
}

// WithEffectiveDates selects and groups transactions by effective date
// instead of primary date.
func WithEffectiveDates() Option {
	return func(b *Balance) { b.effective = true }
}

// grandTotal is the key of the grand-total pseudo-account in the rolled
// view. The empty string can never collide with a real account name.
const grandTotal = ""

// currentBucket is the zero date: the bucket for amounts with no deferred
// control date.
var currentBucket = domain.Date{}

// Balance aggregates a transaction collection into per-account,
// per-control-date-bucket sums with hierarchical rollup. Raw sums are
// computed once at construction; the rolled-up view is derived lazily
// from (raw sums, account predicate) and discarded when the predicate is
// swapped via WithPredicate or Clone.
type Balance struct {
	rng       domain.Range
	res       Resolver
	entryPred EntryPredicate
	pred      AccountPredicate
	remap     Remap
	effective bool

	currency string
	raw      map[string]map[domain.Date]domain.Money
	totals   map[string]domain.Money
	accts    map[string]*domain.Account
	first    domain.Date
	last     domain.Date

	rolled *rolledView
}

type rolledView struct {
	sums  map[string]map[domain.Date]domain.Money
	names []string
}

// NewBalance aggregates txs. It fails with ErrUnknownAccount when a
// resolver is set and an entry references an account it cannot resolve,
// and with ErrCurrencyMismatch when entries carry more than one currency.
func NewBalance(txs []*domain.Transaction, opts ...Option) (*Balance, error) {
	b := &Balance{
		rng:    domain.RangeAll(),
		raw:    make(map[string]map[domain.Date]domain.Money),
		totals: make(map[string]domain.Money),
		accts:  make(map[string]*domain.Account),
	}
	for _, opt := range opts {
		opt(b)
	}

	for _, t := range txs {
		date := t.Date()
		if b.effective {
			date = t.EffectiveDate()
		}
		if !b.rng.Contains(date) {
			continue
		}
		if b.first.IsZero() || date.Before(b.first) {
			b.first = date
		}
		if b.last.IsZero() || date.After(b.last) {
			b.last = date
		}

		for _, e := range t.Entries() {
			if b.entryPred != nil && !b.entryPred(e) {
				continue
			}
			if err := b.accumulate(e); err != nil {
				return nil, err
			}
		}
	}

	return b, nil
}

func (b *Balance) accumulate(e *domain.Entry) error {
	name := e.Account()
	var acc *domain.Account
	if b.res != nil {
		var err error
		if acc, err = b.res.Resolve(name); err != nil {
			return err
		}
		if b.remap != nil {
			if acc = b.remap(acc); acc == nil {
				return nil
			}
		}
		name = acc.Name()
	}

	amount := e.Amount()
	if b.currency == "" {
		b.currency = amount.Currency()
	} else if c := amount.Currency(); c != "" && c != b.currency {
		return fmt.Errorf("%w: account %s carries %s, ledger is %s",
			domain.ErrCurrencyMismatch, name, c, b.currency)
	}

	// A control date inside the observed window clears within it and
	// counts as current; one outside stays deferred under its own date.
	bucket := currentBucket
	if cd := e.CDate(); !cd.IsZero() && !b.rng.Contains(cd) {
		bucket = cd
	}

	buckets, ok := b.raw[name]
	if !ok {
		buckets = make(map[domain.Date]domain.Money)
		b.raw[name] = buckets
		b.accts[name] = acc
	}
	buckets[bucket] = buckets[bucket].MustAdd(amount)
	b.totals[name] = b.totals[name].MustAdd(amount)
	return nil
}

// view derives the rolled-up sums on first use and memoizes them for this
// instance.
func (b *Balance) view() *rolledView {
	if b.rolled == nil {
		b.rolled = b.rollup()
	}
	return b.rolled
}

func (b *Balance) rollup() *rolledView {
	v := &rolledView{sums: make(map[string]map[domain.Date]domain.Money)}

	add := func(name string, bucket domain.Date, m domain.Money) {
		buckets, ok := v.sums[name]
		if !ok {
			buckets = make(map[domain.Date]domain.Money)
			v.sums[name] = buckets
		}
		buckets[bucket] = buckets[bucket].MustAdd(m)
	}

	for name, buckets := range b.raw {
		if b.pred != nil && !b.pred(b.accts[name], b.totals[name]) {
			continue
		}
		lineage := []string{name}
		if acc := b.accts[name]; acc != nil {
			for p := acc.Parent(); p != nil; p = p.Parent() {
				lineage = append(lineage, p.Name())
			}
		}
		for bucket, sum := range buckets {
			for _, ancestor := range lineage {
				add(ancestor, bucket, sum)
			}
			add(grandTotal, bucket, sum)
		}
	}

	for name := range v.sums {
		if name != grandTotal {
			v.names = append(v.names, name)
		}
	}
	sort.Strings(v.names)
	return v
}

// WithPredicate returns a cheap clone evaluating the rolled-up view under
// p, sharing the raw sums without re-scanning the transactions.
func (b *Balance) WithPredicate(p AccountPredicate) *Balance {
	c := b.Clone()
	c.pred = p
	return c
}

// Clone shares the raw per-account sums and date extremes by reference
// and detaches the rolled-up view.
func (b *Balance) Clone() *Balance {
	c := *b
	c.rolled = nil
	return &c
}

// Accounts returns the sorted account names carrying any rolled-up
// bucket, excluding the grand total.
func (b *Balance) Accounts() []string {
	names := b.view().names
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Balance returns the sum of all buckets for the account, zero if absent.
func (b *Balance) Balance(account string) domain.Money {
	var sum domain.Money
	for _, m := range b.view().sums[account] {
		sum = sum.MustAdd(m)
	}
	return sum
}

// CBalance returns only the current (non-deferred) bucket.
func (b *Balance) CBalance(account string) domain.Money {
	return b.view().sums[account][currentBucket]
}

// Total returns the grand total across every included account.
func (b *Balance) Total() domain.Money {
	return b.Balance(grandTotal)
}

// CTotal returns the current bucket of the grand total.
func (b *Balance) CTotal() domain.Money {
	return b.CBalance(grandTotal)
}

// First returns the earliest selected transaction date, zero if none.
func (b *Balance) First() domain.Date { return b.first }

// Last returns the latest selected transaction date, zero if none.
func (b *Balance) Last() domain.Date { return b.last }

// Entries yields the rolled-up balances re-expressed as synthetic,
// ownerless entries, one per non-zero bucket, ordered by account then
// bucket date with the current bucket first. The sequence is finite and
// restartable.
func (b *Balance) Entries() iter.Seq[*domain.Entry] {
	return func(yield func(*domain.Entry) bool) {
		v := b.view()
		for _, name := range v.names {
			buckets := v.sums[name]
			dates := make([]domain.Date, 0, len(buckets))
			for d := range buckets {
				dates = append(dates, d)
			}
			sort.Slice(dates, func(i, j int) bool {
				return dates[i].Compare(dates[j]) < 0
			})
			for _, d := range dates {
				sum := buckets[d]
				if sum.IsZero() {
					continue
				}
				if !yield(domain.NewEntry(name, sum, d, "")) {
					return
				}
			}
		}
	}
}
