package domain

import (
	"fmt"
	"strings"
)

// AccountKind classifies an account. Summary accounts are structural
// groupings that cannot hold a balance of their own.
type AccountKind uint8

const (
	KindSummary AccountKind = iota
	KindAsset
	KindLiability
	KindEquity
	KindIncome
	KindExpense
	KindReceivable
	KindPayable
)

var kindNames = map[AccountKind]string{
	KindSummary:    "summary",
	KindAsset:      "asset",
	KindLiability:  "liability",
	KindEquity:     "equity",
	KindIncome:     "income",
	KindExpense:    "expense",
	KindReceivable: "receivable",
	KindPayable:    "payable",
}

func (k AccountKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("AccountKind(%d)", k)
}

// ParseAccountKind parses the textual kind used in chart declarations.
func ParseAccountKind(s string) (AccountKind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindSummary, fmt.Errorf("unknown account kind %q", s)
}

// Account is one node of a Chart. Accounts are created through Chart.Add
// and are immutable afterwards. Lineage is kept as parent indexes into the
// chart's flat account table rather than pointer chains.
type Account struct {
	chart  *Chart
	index  int
	parent int
	name   string
	label  string
	kind   AccountKind
	tags   map[string]struct{}
}

// Name returns the full colon-separated account name.
func (a *Account) Name() string { return a.name }

// Label returns the last name segment.
func (a *Account) Label() string { return a.label }

// Kind returns the account classification.
func (a *Account) Kind() AccountKind { return a.kind }

// Parent returns the parent account, nil for a root account.
func (a *Account) Parent() *Account {
	if a.parent < 0 {
		return nil
	}
	return a.chart.accounts[a.parent]
}

// Lineage returns the account followed by its ancestors up to the root.
func (a *Account) Lineage() []*Account {
	var line []*Account
	for acc := a; acc != nil; acc = acc.Parent() {
		line = append(line, acc)
	}
	return line
}

// IsSubstantial reports whether the account can hold a balance of its own.
func (a *Account) IsSubstantial() bool { return a.kind != KindSummary }

// IsAccrual reports whether the account is a receivable or payable.
func (a *Account) IsAccrual() bool {
	return a.kind == KindReceivable || a.kind == KindPayable
}

// IsAssetLiability reports whether the account appears on the balance
// sheet side of the chart.
func (a *Account) IsAssetLiability() bool {
	switch a.kind {
	case KindAsset, KindLiability, KindReceivable, KindPayable:
		return true
	}
	return false
}

// AccrualParent returns the topmost accrual account in the lineage,
// the account itself if no accrual ancestor exists, or nil for a
// non-accrual account.
func (a *Account) AccrualParent() *Account {
	if !a.IsAccrual() {
		return nil
	}
	top := a
	for p := a.Parent(); p != nil && p.IsAccrual(); p = p.Parent() {
		top = p
	}
	return top
}

// ReportAccount returns the nearest account in the lineage tagged
// "report", falling back to the account itself.
func (a *Account) ReportAccount() *Account {
	for acc := a; acc != nil; acc = acc.Parent() {
		if acc.HasTag("report") {
			return acc
		}
	}
	return a
}

// HasTag reports whether the account carries the given tag.
func (a *Account) HasTag(tag string) bool {
	_, ok := a.tags[tag]
	return ok
}

// Compare orders accounts by full name.
func (a *Account) Compare(o *Account) int {
	return strings.Compare(a.name, o.name)
}

func (a *Account) String() string { return a.name }

// Chart is a hierarchical chart of accounts backed by a flat arena with a
// name index. Parents must be declared before their children.
type Chart struct {
	accounts []*Account
	byName   map[string]int
}

// NewChart creates an empty chart.
func NewChart() *Chart {
	return &Chart{byName: make(map[string]int)}
}

// Add declares an account under its full colon-separated name. The parent
// is derived from the name prefix and must already exist.
func (c *Chart) Add(name string, kind AccountKind, tags ...string) (*Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("account name must not be empty")
	}
	if _, ok := c.byName[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateAccount, name)
	}

	parent := -1
	label := name
	if i := strings.LastIndex(name, ":"); i >= 0 {
		idx, ok := c.byName[name[:i]]
		if !ok {
			return nil, fmt.Errorf("%w: parent %s of %s", ErrUnknownAccount, name[:i], name)
		}
		parent = idx
		label = name[i+1:]
	}

	acc := &Account{
		chart:  c,
		index:  len(c.accounts),
		parent: parent,
		name:   name,
		label:  label,
		kind:   kind,
	}
	if len(tags) > 0 {
		acc.tags = make(map[string]struct{}, len(tags))
		for _, t := range tags {
			acc.tags[t] = struct{}{}
		}
	}

	c.byName[name] = acc.index
	c.accounts = append(c.accounts, acc)
	return acc, nil
}

// Resolve looks an account up by full name.
func (c *Chart) Resolve(name string) (*Account, error) {
	idx, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, name)
	}
	return c.accounts[idx], nil
}

// Accounts returns every account in declaration order.
func (c *Chart) Accounts() []*Account {
	out := make([]*Account, len(c.accounts))
	copy(out, c.accounts)
	return out
}
