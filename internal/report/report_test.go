package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/journal"
	"github.com/iho/ledgerbook/internal/report"
)

const sample = `account assets summary
account assets:bank asset
account assets:receivable receivable
account equity equity
account income income
account expenses summary
account expenses:food expense

2024-01-01 opening balance
  assets:bank  500.00 USD
  equity  -500.00 USD

2024-01-05 Alice; groceries
  expenses:food  14.56 USD
  assets:bank  -14.56 USD

2024-01-10 Acme; consulting
  assets:receivable  250.00 USD ; cdate=2024-02-05 inv:77
  income  -250.00 USD

2024-02-20 Acme; payment
  assets:bank  100.00 USD
  assets:receivable  -100.00 USD ; inv:77
`

func load(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Read(strings.NewReader(sample))
	require.NoError(t, err)
	return j
}

func TestJournalReport(t *testing.T) {
	j := load(t)
	var buf strings.Builder

	err := report.Journal(&buf, j.Transactions, report.Options{
		Range: domain.RangeBetween(domain.MustParseDate("2024-01-01"), domain.MustParseDate("2024-01-31")),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Alice; groceries")
	assert.Contains(t, out, "due 2024-02-05")
	assert.NotContains(t, out, "payment", "outside the period")
}

func TestBalanceSheetReport(t *testing.T) {
	j := load(t)
	var buf strings.Builder

	err := report.BalanceSheet(&buf, j.Chart, j.Transactions, report.Options{
		Range: domain.RangeTo(domain.MustParseDate("2024-12-31")),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Assets & Liabilities")
	assert.Contains(t, out, "assets:bank")
	assert.Contains(t, out, "585.44 USD")
	assert.Contains(t, out, "Equity")
	assert.Contains(t, out, "-500.00 USD")
}

func TestProfitLossReport(t *testing.T) {
	j := load(t)
	var buf strings.Builder

	err := report.ProfitLoss(&buf, j.Chart, j.Transactions, report.Options{
		Range: domain.RangeBetween(domain.MustParseDate("2024-01-01"), domain.MustParseDate("2024-01-31")),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Income")
	assert.Contains(t, out, "-250.00 USD")
	assert.Contains(t, out, "Expenses")
	assert.Contains(t, out, "14.56 USD")
	assert.Contains(t, out, "net")
}

func TestStatementReport(t *testing.T) {
	j := load(t)
	var buf strings.Builder

	err := report.Statement(&buf, j.Chart, j.Transactions, "assets:bank", report.Options{
		Range: domain.RangeBetween(domain.MustParseDate("2024-01-05"), domain.MustParseDate("2024-02-28")),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "opening")
	assert.Contains(t, out, "500.00 USD", "opening balance comes from the preceding window")
	assert.Contains(t, out, "closing")
	assert.Contains(t, out, "585.44 USD")
}

func TestStatementMixedCurrenciesFails(t *testing.T) {
	// each transaction balances in its own currency, so the journal is
	// valid; the statement itself cannot mix them
	input := `account assets summary
account assets:bank asset
account equity equity

2024-01-05 seed
  assets:bank  10.00 USD
  equity  -10.00 USD

2024-01-06 seed
  assets:bank  10.00 EUR
  equity  -10.00 EUR
`
	j, err := journal.Read(strings.NewReader(input))
	require.NoError(t, err)

	var buf strings.Builder
	err = report.Statement(&buf, j.Chart, j.Transactions, "assets:bank", report.Options{Range: domain.RangeAll()})
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

func TestStatementOpeningExcludesDescendants(t *testing.T) {
	input := `account assets summary
account assets:bank asset
account assets:bank:savings asset
account equity equity

2024-01-01 funded the savings pot
  assets:bank:savings  100.00 USD
  equity  -100.00 USD

2024-01-10 salary
  assets:bank  50.00 USD
  equity  -50.00 USD
`
	j, err := journal.Read(strings.NewReader(input))
	require.NoError(t, err)

	var buf strings.Builder
	err = report.Statement(&buf, j.Chart, j.Transactions, "assets:bank", report.Options{
		Range: domain.RangeBetween(domain.MustParseDate("2024-01-05"), domain.MustParseDate("2024-01-31")),
	})
	require.NoError(t, err)

	out := buf.String()
	// descendant history stays out of the opening, so opening and period
	// movement agree and the closing is exactly the period's own 50
	assert.NotContains(t, out, "100.00")
	assert.Contains(t, out, "closing")
	assert.Contains(t, out, "50.00 USD")
}

func TestStatementUnknownAccount(t *testing.T) {
	j := load(t)
	var buf strings.Builder

	err := report.Statement(&buf, j.Chart, j.Transactions, "assets:gold", report.Options{Range: domain.RangeAll()})
	assert.ErrorIs(t, err, domain.ErrUnknownAccount)
}

func TestAgingReport(t *testing.T) {
	j := load(t)
	var buf strings.Builder

	err := report.Aging(&buf, j.Chart, j.Transactions, domain.MustParseDate("2024-03-01"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "assets:receivable")
	assert.Contains(t, out, "150.00 USD")
	assert.Contains(t, out, "OVERDUE")
}
