package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// EntryInput is the raw tuple an entry is constructed from.
type EntryInput struct {
	Account string
	Amount  Money
	CDate   Date
	Detail  string
}

// TransactionInput carries the construction parameters for a Transaction.
type TransactionInput struct {
	Date    Date
	EDate   Date
	Who     string
	What    string
	Entries []EntryInput
}

// Transaction is one indivisible ledger event: a balanced, immutable group
// of at least two entries sharing a date.
type Transaction struct {
	date    Date
	edate   Date
	who     string
	what    string
	entries []*Entry
}

var datePlaceholder = regexp.MustCompile(`%\{date([+-]\d+)?\}`)

// NewTransaction validates and builds a Transaction. It fails with
// ErrInvariant if fewer than two entries are supplied, if any entry is
// missing its account or has a zero amount, or if the entries do not sum
// to exactly zero. Entries are stored sorted by amount, account, detail so
// that transactions built from the same logical entries compare
// identically regardless of input order.
func NewTransaction(in TransactionInput) (*Transaction, error) {
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date must be set", ErrInvariant)
	}
	if len(in.Entries) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 entries, got %d", ErrInvariant, len(in.Entries))
	}

	var sum Money
	for _, raw := range in.Entries {
		if raw.Account == "" {
			return nil, fmt.Errorf("%w: entry of %s is missing an account", ErrInvariant, raw.Amount)
		}
		if raw.Amount.IsZero() {
			return nil, fmt.Errorf("%w: zero amount on account %s", ErrInvariant, raw.Account)
		}
		var err error
		if sum, err = sum.Add(raw.Amount); err != nil {
			return nil, err
		}
	}
	if !sum.IsZero() {
		return nil, fmt.Errorf("%w: entries sum to %s, want zero", ErrInvariant, sum)
	}

	t := &Transaction{
		date:  in.Date,
		edate: in.EDate,
		who:   strings.TrimSpace(in.Who),
		what:  expandDates(strings.TrimSpace(in.What), in.Date),
	}

	t.entries = make([]*Entry, 0, len(in.Entries))
	for _, raw := range in.Entries {
		t.entries = append(t.entries, &Entry{
			txn:     t,
			account: raw.Account,
			amount:  raw.Amount,
			cdate:   raw.CDate,
			detail:  strings.TrimSpace(raw.Detail),
		})
	}
	sort.SliceStable(t.entries, func(i, j int) bool {
		a, b := t.entries[i], t.entries[j]
		if c := a.amount.Compare(b.amount); c != 0 {
			return c < 0
		}
		if a.account != b.account {
			return a.account < b.account
		}
		return a.detail < b.detail
	})

	return t, nil
}

// expandDates substitutes %{date} and %{date±N} placeholders with the
// transaction date shifted by N days, in DateLayout form.
func expandDates(what string, date Date) string {
	return datePlaceholder.ReplaceAllStringFunc(what, func(m string) string {
		offset := 0
		if sub := datePlaceholder.FindStringSubmatch(m); sub[1] != "" {
			offset, _ = strconv.Atoi(sub[1])
		}
		return date.AddDays(offset).String()
	})
}

// Date returns the primary transaction date.
func (t *Transaction) Date() Date { return t.date }

// EffectiveDate returns the effective date if set, else the primary date.
func (t *Transaction) EffectiveDate() Date {
	if !t.edate.IsZero() {
		return t.edate
	}
	return t.date
}

// Who returns the counterparty component of the description.
func (t *Transaction) Who() string { return t.who }

// What returns the subject component of the description.
func (t *Transaction) What() string { return t.what }

// Description joins the non-empty who/what components with "; ".
func (t *Transaction) Description() string {
	switch {
	case t.who == "":
		return t.what
	case t.what == "":
		return t.who
	default:
		return t.who + "; " + t.what
	}
}

// Entries returns the entries in their deterministic stored order. The
// returned slice must not be modified.
func (t *Transaction) Entries() []*Entry { return t.entries }

// Amount returns the transaction magnitude: the sum of its positive
// entries.
func (t *Transaction) Amount() Money {
	var sum Money
	for _, e := range t.entries {
		if e.amount.Sign() > 0 {
			sum = sum.MustAdd(e.amount)
		}
	}
	return sum
}
