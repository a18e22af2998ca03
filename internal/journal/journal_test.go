package journal_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/journal"
)

const sample = `# household ledger
account assets summary
account assets:bank asset
account assets:receivable receivable
account income income
account expenses summary
account expenses:food expense

2024-01-05 Alice; groceries
  expenses:food  14.56 USD
  assets:bank  -14.56 USD ; card payment

2024-01-06=2024-01-31 Acme; consulting %{date+25}
  assets:receivable  250.00 USD ; cdate=2024-02-05 inv:77
  income  -250.00 USD
`

func TestRead(t *testing.T) {
	j, err := journal.Read(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, j.Transactions, 2)

	if _, err := j.Chart.Resolve("expenses:food"); err != nil {
		t.Fatalf("chart is missing a declared account: %v", err)
	}

	first := j.Transactions[0]
	assert.True(t, first.Date().Equal(domain.NewDate(2024, time.January, 5)))
	assert.Equal(t, "Alice; groceries", first.Description())
	require.Len(t, first.Entries(), 2)
	assert.Equal(t, "card payment", first.Entries()[0].Detail())

	second := j.Transactions[1]
	assert.True(t, second.EffectiveDate().Equal(domain.NewDate(2024, time.January, 31)))
	assert.Equal(t, "consulting 2024-01-31", second.What(), "placeholder expands against the transaction date")

	receivable := second.Entries()[1]
	assert.Equal(t, "assets:receivable", receivable.Account())
	assert.True(t, receivable.CDate().Equal(domain.NewDate(2024, time.February, 5)))
	assert.Equal(t, "inv:77", receivable.Detail())
}

func TestReadErrorsCarryLineNumbers(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantIn  string
		wantErr error
	}{
		{
			name:    "unbalanced transaction",
			input:   "2024-01-05 x\n  a  1.00 USD\n  b  -0.99 USD\n",
			wantIn:  "line 1",
			wantErr: domain.ErrInvariant,
		},
		{
			name:   "entry outside transaction",
			input:  "  a  1.00 USD\n",
			wantIn: "line 1",
		},
		{
			name:   "bad amount",
			input:  "2024-01-05 x\n  a  one USD\n  b  -1.00 USD\n",
			wantIn: "line 2",
		},
		{
			name:    "bad currency",
			input:   "2024-01-05 x\n  a  1.00 ZZZ\n  b  -1.00 ZZZ\n",
			wantIn:  "line 2",
			wantErr: domain.ErrInvalidCurrency,
		},
		{
			name:   "bad date",
			input:  "05/01/2024 x\n  a  1.00 USD\n  b  -1.00 USD\n",
			wantIn: "line 1",
		},
		{
			name:   "short account line",
			input:  "account assets\n",
			wantIn: "line 1",
		},
		{
			name:    "duplicate account",
			input:   "account assets summary\naccount assets summary\n",
			wantIn:  "line 2",
			wantErr: domain.ErrDuplicateAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := journal.Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantIn)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestReadClosesTrailingTransaction(t *testing.T) {
	input := "2024-01-05 x\n  a  1.00 USD\n  b  -1.00 USD"

	j, err := journal.Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, j.Transactions, 1)
}

func TestReadCommentEndsTransaction(t *testing.T) {
	input := "2024-01-05 x\n  a  1.00 USD\n  b  -1.00 USD\n# done\n2024-01-06 y\n  a  2.00 USD\n  b  -2.00 USD\n"

	j, err := journal.Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, j.Transactions, 2)
}
