package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/infrastructure/config"
	"github.com/iho/ledgerbook/internal/infrastructure/logger"
	"github.com/iho/ledgerbook/internal/journal"
	"github.com/iho/ledgerbook/internal/ledger"
	"github.com/iho/ledgerbook/internal/report"
)

var (
	journalFile string
	fromDate    string
	toDate      string
	effective   bool

	log zerolog.Logger
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	rootCmd := &cobra.Command{
		Use:   "ledgerbook",
		Short: "Double-entry bookkeeping reports",
		Long:  `Reads a plain-text journal and prints bookkeeping reports over it.`,
	}

	rootCmd.PersistentFlags().StringVar(&journalFile, "file", cfg.JournalFile, "Journal file to read")
	rootCmd.PersistentFlags().StringVar(&fromDate, "from", "", "Start of the report period (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&toDate, "to", "", "End of the report period (YYYY-MM-DD)")
	rootCmd.PersistentFlags().BoolVar(&effective, "effective", false, "Select transactions by effective date")

	rootCmd.AddCommand(
		journalCmd(),
		balanceCmd(),
		profitLossCmd(),
		statementCmd(),
		agingCmd(),
		checkCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func load() (*journal.Journal, report.Options, error) {
	f, err := os.Open(journalFile)
	if err != nil {
		return nil, report.Options{}, err
	}
	defer f.Close()

	j, err := journal.Read(f)
	if err != nil {
		return nil, report.Options{}, fmt.Errorf("%s: %w", journalFile, err)
	}
	log.Debug().Int("transactions", len(j.Transactions)).Str("file", journalFile).Msg("journal loaded")

	rng, err := periodRange()
	if err != nil {
		return nil, report.Options{}, err
	}
	return j, report.Options{Range: rng, Effective: effective}, nil
}

func periodRange() (domain.Range, error) {
	var from, to domain.Date
	var err error
	if fromDate != "" {
		if from, err = domain.ParseDate(fromDate); err != nil {
			return domain.Range{}, err
		}
	}
	if toDate != "" {
		if to, err = domain.ParseDate(toDate); err != nil {
			return domain.Range{}, err
		}
	}

	switch {
	case !from.IsZero() && !to.IsZero():
		return domain.RangeBetween(from, to), nil
	case !from.IsZero():
		return domain.RangeFrom(from), nil
	case !to.IsZero():
		return domain.RangeTo(to), nil
	default:
		return domain.RangeAll(), nil
	}
}

func journalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "journal",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, opts, err := load()
			if err != nil {
				return err
			}
			return report.Journal(os.Stdout, j.Transactions, opts)
		},
	}
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Print the balance sheet as of the end of the period",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, opts, err := load()
			if err != nil {
				return err
			}
			return report.BalanceSheet(os.Stdout, j.Chart, j.Transactions, opts)
		},
	}
}

func profitLossCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profitloss",
		Short: "Print income and expenses over the period",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, opts, err := load()
			if err != nil {
				return err
			}
			return report.ProfitLoss(os.Stdout, j.Chart, j.Transactions, opts)
		},
	}
}

func statementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "statement <account>",
		Short: "Print one account's entries with a running balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, opts, err := load()
			if err != nil {
				return err
			}
			return report.Statement(os.Stdout, j.Chart, j.Transactions, args[0], opts)
		},
	}
}

func agingCmd() *cobra.Command {
	var when string
	cmd := &cobra.Command{
		Use:   "aging",
		Short: "Print outstanding receivables and payables by due date",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, _, err := load()
			if err != nil {
				return err
			}
			var ref domain.Date
			if when != "" {
				if ref, err = domain.ParseDate(when); err != nil {
					return err
				}
			}
			return report.Aging(os.Stdout, j.Chart, j.Transactions, ref)
		},
	}
	cmd.Flags().StringVar(&when, "when", "", "Reference date for overdue marking (YYYY-MM-DD)")
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, _, err := load()
			if err != nil {
				return err
			}

			b, err := ledger.NewBalance(j.Transactions, ledger.WithResolver(j.Chart))
			if err != nil {
				return err
			}
			if total := b.Total(); !total.IsZero() {
				return fmt.Errorf("ledger is inconsistent: grand total is %s, want zero", total)
			}

			if _, err := ledger.GroupByReference(j.Chart, j.Transactions); err != nil {
				return err
			}

			fmt.Println("Consistency check PASSED")
			return nil
		},
	}
}
