package ledger

import (
	"regexp"
	"sort"

	"github.com/iho/ledgerbook/internal/domain"
)

// Due is one outstanding bucket of the aging schedule: the net amount
// still open at a due date for a due account, with the (possibly
// amount-adjusted) entries it is made of.
type Due struct {
	Date    domain.Date
	Account *domain.Account
	Entries []*domain.Entry
	Amount  domain.Money
}

// DueAccounts routes entries to the account their dues are tracked under:
// accrual entries under their top-level accrual grouping, control-dated
// asset/liability entries under their own account. Everything else is
// ignored.
func DueAccounts(res Resolver, txs []*domain.Transaction, pred EntryPredicate) (map[*domain.Account][]*domain.Entry, error) {
	routed := make(map[*domain.Account][]*domain.Entry)
	for _, t := range txs {
		for _, e := range t.Entries() {
			if pred != nil && !pred(e) {
				continue
			}
			acc, err := res.Resolve(e.Account())
			if err != nil {
				return nil, err
			}
			switch {
			case acc.IsAccrual():
				routed[acc.AccrualParent()] = append(routed[acc.AccrualParent()], e)
			case acc.IsAssetLiability() && !e.CDate().IsZero():
				routed[acc] = append(routed[acc], e)
			}
		}
	}
	return routed, nil
}

// pendingBucket holds not-yet-netted entries sharing a due date, oldest
// first.
type pendingBucket struct {
	date    domain.Date
	entries []*domain.Entry
}

// Dues nets each due account's entries in settlement-date order and
// returns what remains outstanding, as of the optional reference date
// when. Opposite-sign amounts offset oldest-first; a partially matched
// pending entry is replaced by a reduced-amount copy so the exact
// remainder survives. Same-sign amounts never net against each other.
func Dues(dueAccounts map[*domain.Account][]*domain.Entry, when domain.Date) ([]Due, error) {
	var dues []Due
	for acc, entries := range dueAccounts {
		pending, err := settle(entries, when)
		if err != nil {
			return nil, err
		}
		for _, bucket := range pending {
			var net domain.Money
			for _, e := range bucket.entries {
				if net, err = net.Add(e.Amount()); err != nil {
					return nil, err
				}
			}
			dues = append(dues, Due{
				Date:    bucket.date,
				Account: acc,
				Entries: bucket.entries,
				Amount:  net,
			})
		}
	}

	sort.SliceStable(dues, func(i, j int) bool {
		if c := dues[i].Date.Compare(dues[j].Date); c != 0 {
			return c < 0
		}
		if c := dues[i].Amount.Compare(dues[j].Amount); c != 0 {
			return c < 0
		}
		return dues[i].Account.Compare(dues[j].Account) < 0
	})
	return dues, nil
}

// settle runs the FIFO netting pass for one due account.
func settle(entries []*domain.Entry, when domain.Date) ([]*pendingBucket, error) {
	ordered := make([]*domain.Entry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date().Compare(ordered[j].Date()) < 0
	})

	var pending []*pendingBucket
	for _, e := range ordered {
		remaining := e.Amount()

		for !remaining.IsZero() && len(pending) > 0 {
			front := pending[0].entries[0]
			if front.Amount().Sign() == remaining.Sign() {
				// same-sign amounts cannot offset
				break
			}

			cmp, err := front.Amount().Abs().Cmp(remaining.Abs())
			if err != nil {
				return nil, err
			}
			if cmp <= 0 {
				if remaining, err = remaining.Add(front.Amount()); err != nil {
					return nil, err
				}
				pending[0].entries = pending[0].entries[1:]
				if len(pending[0].entries) == 0 {
					pending = pending[1:]
				}
			} else {
				reduced, err := front.Amount().Add(remaining)
				if err != nil {
					return nil, err
				}
				pending[0].entries[0] = front.WithAmount(reduced)
				remaining = domain.Money{}
			}
		}

		if !remaining.IsZero() {
			date := e.CDate()
			if date.IsZero() {
				date = when
			}
			if date.IsZero() && e.Transaction() != nil {
				date = e.Transaction().Date()
			}
			insertPending(&pending, date, e.WithAmount(remaining))
		}
	}
	return pending, nil
}

func insertPending(pending *[]*pendingBucket, date domain.Date, e *domain.Entry) {
	i := sort.Search(len(*pending), func(i int) bool {
		return !(*pending)[i].date.Before(date)
	})
	if i < len(*pending) && (*pending)[i].date.Equal(date) {
		(*pending)[i].entries = append((*pending)[i].entries, e)
		return
	}
	bucket := &pendingBucket{date: date, entries: []*domain.Entry{e}}
	*pending = append(*pending, nil)
	copy((*pending)[i+1:], (*pending)[i:])
	(*pending)[i] = bucket
}

var referencePattern = regexp.MustCompile(`\binv:(\S+)`)

// ReferenceGroup collects the accrual entries sharing one invoice
// reference.
type ReferenceGroup struct {
	Ref     string
	Date    domain.Date
	Account *domain.Account
	Entries []*domain.Entry
}

// GroupByReference groups accrual entries by the inv:<ref> tag in their
// detail text. Entries sharing a reference must agree on control date and
// accrual grouping; a conflict fails with InconsistentGroupingError
// carrying both values.
func GroupByReference(res Resolver, txs []*domain.Transaction) (map[string]*ReferenceGroup, error) {
	groups := make(map[string]*ReferenceGroup)
	for _, t := range txs {
		for _, e := range t.Entries() {
			m := referencePattern.FindStringSubmatch(e.Detail())
			if m == nil {
				continue
			}
			acc, err := res.Resolve(e.Account())
			if err != nil {
				return nil, err
			}
			if !acc.IsAccrual() {
				continue
			}

			ref := m[1]
			parent := acc.AccrualParent()
			g, ok := groups[ref]
			if !ok {
				groups[ref] = &ReferenceGroup{
					Ref:     ref,
					Date:    e.CDate(),
					Account: parent,
					Entries: []*domain.Entry{e},
				}
				continue
			}
			if !e.CDate().IsZero() && !g.Date.IsZero() && !e.CDate().Equal(g.Date) {
				return nil, &domain.InconsistentGroupingError{
					Ref: ref, Field: "date", Got: e.CDate().String(), Want: g.Date.String(),
				}
			}
			if parent != g.Account {
				return nil, &domain.InconsistentGroupingError{
					Ref: ref, Field: "account", Got: parent.Name(), Want: g.Account.Name(),
				}
			}
			if g.Date.IsZero() {
				g.Date = e.CDate()
			}
			g.Entries = append(g.Entries, e)
		}
	}
	return groups, nil
}
