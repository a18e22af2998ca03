// Package report renders the engine's outputs as plain-text tables. It
// holds no ledger logic of its own.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/ledger"
)

// Options carries the report selection shared by all reports.
type Options struct {
	Range     domain.Range
	Effective bool
}

func (o Options) selected(t *domain.Transaction) domain.Date {
	if o.Effective {
		return t.EffectiveDate()
	}
	return t.Date()
}

func (o Options) balanceOpts(chart *domain.Chart, r domain.Range) []ledger.Option {
	opts := []ledger.Option{ledger.WithRange(r), ledger.WithResolver(chart)}
	if o.Effective {
		opts = append(opts, ledger.WithEffectiveDates())
	}
	return opts
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// Journal lists the selected transactions with their entries.
func Journal(w io.Writer, txs []*domain.Transaction, opts Options) error {
	tw := newTable(w)
	for _, t := range txs {
		if !opts.Range.Contains(opts.selected(t)) {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", opts.selected(t), t.Description(), t.Amount())
		for _, e := range t.Entries() {
			cdate := ""
			if !e.CDate().IsZero() {
				cdate = "due " + e.CDate().String()
			}
			fmt.Fprintf(tw, "\t  %s\t%s\t%s\n", e.Account(), e.Amount(), cdate)
		}
	}
	return tw.Flush()
}

// BalanceSheet prints the asset/liability and equity positions as of the
// end of the selected period.
func BalanceSheet(w io.Writer, chart *domain.Chart, txs []*domain.Transaction, opts Options) error {
	// everything up to and including the period
	closing := opts.Range.Following().Preceding()

	base, err := ledger.NewBalance(txs, opts.balanceOpts(chart, closing)...)
	if err != nil {
		return err
	}

	sections := []struct {
		title string
		pred  ledger.AccountPredicate
	}{
		{"Assets & Liabilities", func(acc *domain.Account, total domain.Money) bool {
			return acc != nil && acc.IsAssetLiability() && !total.IsZero()
		}},
		{"Equity", func(acc *domain.Account, total domain.Money) bool {
			return acc != nil && acc.Kind() == domain.KindEquity && !total.IsZero()
		}},
	}

	tw := newTable(w)
	for _, s := range sections {
		b := base.WithPredicate(s.pred)
		fmt.Fprintf(tw, "%s\n", s.title)
		for _, name := range b.Accounts() {
			fmt.Fprintf(tw, "  %s\t%s\n", name, b.Balance(name))
		}
		fmt.Fprintf(tw, "  total\t%s\n", b.Total())
	}
	return tw.Flush()
}

// ProfitLoss prints income and expenses over the selected period.
func ProfitLoss(w io.Writer, chart *domain.Chart, txs []*domain.Transaction, opts Options) error {
	base, err := ledger.NewBalance(txs, opts.balanceOpts(chart, opts.Range)...)
	if err != nil {
		return err
	}

	sections := []struct {
		title string
		kind  domain.AccountKind
	}{
		{"Income", domain.KindIncome},
		{"Expenses", domain.KindExpense},
	}

	tw := newTable(w)
	net := domain.Money{}
	for _, s := range sections {
		kind := s.kind
		b := base.WithPredicate(func(acc *domain.Account, total domain.Money) bool {
			return acc != nil && acc.Kind() == kind && !total.IsZero()
		})
		fmt.Fprintf(tw, "%s\n", s.title)
		for _, name := range b.Accounts() {
			fmt.Fprintf(tw, "  %s\t%s\n", name, b.CBalance(name))
		}
		fmt.Fprintf(tw, "  total\t%s\n", b.CTotal())
		net = net.MustAdd(b.CTotal())
	}
	fmt.Fprintf(tw, "net\t%s\n", net)
	return tw.Flush()
}

// Statement prints one account's entries over the period with a running
// balance, opened with everything preceding the period.
func Statement(w io.Writer, chart *domain.Chart, txs []*domain.Transaction, account string, opts Options) error {
	if _, err := chart.Resolve(account); err != nil {
		return err
	}

	// The opening figure is restricted to the account's own entries so it
	// matches the period movement below, which never includes descendants.
	openingOpts := append(opts.balanceOpts(chart, opts.Range.Preceding()),
		ledger.WithEntryPredicate(func(e *domain.Entry) bool { return e.Account() == account }))
	opening, err := ledger.NewBalance(txs, openingOpts...)
	if err != nil {
		return err
	}

	tw := newTable(w)
	running := opening.Balance(account)
	fmt.Fprintf(tw, "%s\topening\t%s\n", account, running)
	for _, t := range txs {
		if !opts.Range.Contains(opts.selected(t)) {
			continue
		}
		for _, e := range t.Entries() {
			if e.Account() != account {
				continue
			}
			if running, err = running.Add(e.Amount()); err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", opts.selected(t), e.Description(), e.Amount(), running)
		}
	}
	fmt.Fprintf(tw, "%s\tclosing\t%s\n", account, running)
	return tw.Flush()
}

// Aging prints the outstanding due schedule as of when, marking buckets
// already past the reference date as overdue.
func Aging(w io.Writer, chart *domain.Chart, txs []*domain.Transaction, when domain.Date) error {
	routed, err := ledger.DueAccounts(chart, txs, nil)
	if err != nil {
		return err
	}
	dues, err := ledger.Dues(routed, when)
	if err != nil {
		return err
	}

	tw := newTable(w)
	for _, d := range dues {
		status := "due"
		if !when.IsZero() && d.Date.Before(when) {
			status = "OVERDUE"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Date, d.Account.Name(), d.Amount, status)
	}
	return tw.Flush()
}
