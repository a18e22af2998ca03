package domain

// Entry is one debit or credit line of a Transaction. Negative amounts are
// debits, positive amounts are credits. Entries are immutable; derived
// copies are made with WithAmount and WithTransaction.
type Entry struct {
	txn     *Transaction
	account string
	amount  Money
	cdate   Date
	detail  string
}

// NewEntry builds an ownerless entry, used for computed balances
// re-expressed in entry form.
func NewEntry(account string, amount Money, cdate Date, detail string) *Entry {
	return &Entry{account: account, amount: amount, cdate: cdate, detail: detail}
}

// Transaction returns the owning transaction, nil for a synthetic entry.
func (e *Entry) Transaction() *Transaction { return e.txn }

// Account returns the account identifier.
func (e *Entry) Account() string { return e.account }

// Amount returns the signed amount.
func (e *Entry) Amount() Money { return e.amount }

// CDate returns the control date, zero when the entry has none.
func (e *Entry) CDate() Date { return e.cdate }

// Detail returns the free-text detail.
func (e *Entry) Detail() string { return e.detail }

// Date returns the control date if present, else the owning transaction's
// date, else the zero date.
func (e *Entry) Date() Date {
	if !e.cdate.IsZero() {
		return e.cdate
	}
	if e.txn != nil {
		return e.txn.Date()
	}
	return Date{}
}

// WithAmount returns a copy of the entry with an adjusted amount, keeping
// account, control date, detail and owner.
func (e *Entry) WithAmount(amount Money) *Entry {
	c := *e
	c.amount = amount
	return &c
}

// WithTransaction returns a copy of the entry attached to a different
// owning transaction.
func (e *Entry) WithTransaction(t *Transaction) *Entry {
	c := *e
	c.txn = t
	return &c
}

// Description joins the owning transaction's description with the entry
// detail, separated by ", ".
func (e *Entry) Description() string {
	var desc string
	if e.txn != nil {
		desc = e.txn.Description()
	}
	if e.detail == "" {
		return desc
	}
	if desc == "" {
		return e.detail
	}
	return desc + ", " + e.detail
}
