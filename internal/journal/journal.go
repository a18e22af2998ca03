// Package journal reads a plain-text journal: chart declarations followed
// by dated transactions, in the conventional plain-text-accounting shape.
//
//	account assets summary
//	account assets:bank asset
//	account expenses:food expense
//
//	2024-01-05 Alice; groceries
//	  expenses:food  14.56 USD
//	  assets:bank  -14.56 USD ; card payment
//
// A transaction header is DATE[=EDATE] followed by the description, whose
// who and what components are separated by ";". Entry lines are indented:
// account, amount, currency, then an optional "; detail" where a leading
// cdate=DATE marks the control date. Lines starting with "#" are comments.
package journal

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/iho/ledgerbook/internal/domain"
)

// Journal is the parsed form of one journal document.
type Journal struct {
	Chart        *domain.Chart
	Transactions []*domain.Transaction
}

type parser struct {
	chart *domain.Chart
	txs   []*domain.Transaction

	open   *domain.TransactionInput
	openLn int
}

// Read parses a journal document.
func Read(r io.Reader) (*Journal, error) {
	p := &parser{chart: domain.NewChart()}

	scanner := bufio.NewScanner(r)
	ln := 0
	for scanner.Scan() {
		ln++
		if err := p.line(ln, scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	if err := p.flush(); err != nil {
		return nil, err
	}

	return &Journal{Chart: p.chart, Transactions: p.txs}, nil
}

func (p *parser) line(ln int, raw string) error {
	trimmed := strings.TrimSpace(raw)
	indented := raw != "" && (raw[0] == ' ' || raw[0] == '\t')

	switch {
	case trimmed == "" || strings.HasPrefix(trimmed, "#"):
		return p.flush()
	case indented:
		return p.entryLine(ln, trimmed)
	case strings.HasPrefix(trimmed, "account "):
		if err := p.flush(); err != nil {
			return err
		}
		return p.accountLine(ln, trimmed)
	default:
		if err := p.flush(); err != nil {
			return err
		}
		return p.headerLine(ln, trimmed)
	}
}

func (p *parser) accountLine(ln int, line string) error {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return fmt.Errorf("line %d: want \"account <name> <kind> [tags...]\"", ln)
	}
	kind, err := domain.ParseAccountKind(fields[2])
	if err != nil {
		return fmt.Errorf("line %d: %w", ln, err)
	}
	if _, err := p.chart.Add(fields[1], kind, fields[3:]...); err != nil {
		return fmt.Errorf("line %d: %w", ln, err)
	}
	return nil
}

func (p *parser) headerLine(ln int, line string) error {
	dateTok, rest, _ := strings.Cut(line, " ")

	dateStr, edateStr, hasEDate := strings.Cut(dateTok, "=")
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return fmt.Errorf("line %d: %w", ln, err)
	}
	var edate domain.Date
	if hasEDate {
		if edate, err = domain.ParseDate(edateStr); err != nil {
			return fmt.Errorf("line %d: %w", ln, err)
		}
	}

	who, what, _ := strings.Cut(rest, ";")
	p.open = &domain.TransactionInput{
		Date:  date,
		EDate: edate,
		Who:   strings.TrimSpace(who),
		What:  strings.TrimSpace(what),
	}
	p.openLn = ln
	return nil
}

func (p *parser) entryLine(ln int, line string) error {
	if p.open == nil {
		return fmt.Errorf("line %d: entry outside a transaction", ln)
	}

	body, detail, _ := strings.Cut(line, ";")
	fields := strings.Fields(body)
	if len(fields) != 3 {
		return fmt.Errorf("line %d: want \"<account> <amount> <currency> [; detail]\"", ln)
	}

	amount, err := domain.ParseMoney(fields[1], fields[2])
	if err != nil {
		return fmt.Errorf("line %d: %w", ln, err)
	}

	var cdate domain.Date
	detail = strings.TrimSpace(detail)
	if rest, ok := strings.CutPrefix(detail, "cdate="); ok {
		dateStr, more, _ := strings.Cut(rest, " ")
		if cdate, err = domain.ParseDate(dateStr); err != nil {
			return fmt.Errorf("line %d: %w", ln, err)
		}
		detail = strings.TrimSpace(more)
	}

	p.open.Entries = append(p.open.Entries, domain.EntryInput{
		Account: fields[0],
		Amount:  amount,
		CDate:   cdate,
		Detail:  detail,
	})
	return nil
}

// flush closes the open transaction, if any.
func (p *parser) flush() error {
	if p.open == nil {
		return nil
	}
	t, err := domain.NewTransaction(*p.open)
	if err != nil {
		return fmt.Errorf("line %d: %w", p.openLn, err)
	}
	p.txs = append(p.txs, t)
	p.open = nil
	return nil
}
