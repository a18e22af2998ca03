package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Valid currency codes (ISO 4217 subset)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "RUB": true, "TRY": true, "HKD": true,
	"BHD": true, "KWD": true, "OMR": true, "TND": true,
}

// Minor-unit exponents that differ from the default of 2.
var minorUnits = map[string]int32{
	"JPY": 0, "KRW": 0,
	"BHD": 3, "KWD": 3, "OMR": 3, "TND": 3,
}

func exponent(currency string) int32 {
	if e, ok := minorUnits[currency]; ok {
		return e
	}
	return 2
}

// Money is an exact, currency-typed amount quantized to the currency's
// minor unit. The zero value acts as the additive identity for any currency.
type Money struct {
	currency string
	amount   decimal.Decimal
}

// NewMoney builds a Money from a decimal, rounding to the currency's
// minor-unit precision.
func NewMoney(currency string, amount decimal.Decimal) Money {
	return Money{currency: currency, amount: amount.Round(exponent(currency))}
}

// ParseMoney parses a decimal string in the given currency.
func ParseMoney(value, currency string) (Money, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !validCurrencies[currency] {
		return Money{}, fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}

	return NewMoney(currency, d), nil
}

// MustParseMoney is ParseMoney for statically known values.
func MustParseMoney(value, currency string) Money {
	m, err := ParseMoney(value, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Currency returns the currency code, empty for the zero value.
func (m Money) Currency() string { return m.currency }

// Decimal returns the underlying exact amount.
func (m Money) Decimal() decimal.Decimal { return m.amount }

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// Sign returns -1, 0 or 1.
func (m Money) Sign() int { return m.amount.Sign() }

// Neg returns the negated amount.
func (m Money) Neg() Money { return Money{currency: m.currency, amount: m.amount.Neg()} }

// Abs returns the absolute amount.
func (m Money) Abs() Money { return Money{currency: m.currency, amount: m.amount.Abs()} }

// Add returns m+o. It fails with ErrCurrencyMismatch unless the currencies
// match or one operand is the zero value.
func (m Money) Add(o Money) (Money, error) {
	if m.currency == "" {
		return o, nil
	}
	if o.currency == "" {
		return m, nil
	}
	if m.currency != o.currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, o.currency)
	}
	return Money{currency: m.currency, amount: m.amount.Add(o.amount)}, nil
}

// MustAdd is Add for amounts whose currencies are already known to match.
func (m Money) MustAdd(o Money) Money {
	sum, err := m.Add(o)
	if err != nil {
		panic(err)
	}
	return sum
}

// Sub returns m-o under the same currency rules as Add.
func (m Money) Sub(o Money) (Money, error) {
	return m.Add(o.Neg())
}

// Cmp compares two amounts of the same currency.
func (m Money) Cmp(o Money) (int, error) {
	if m.currency != "" && o.currency != "" && m.currency != o.currency {
		return 0, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, o.currency)
	}
	return m.amount.Cmp(o.amount), nil
}

// Compare imposes a total order for deterministic sorting: currency first,
// then amount. Unlike Cmp it never fails.
func (m Money) Compare(o Money) int {
	if c := strings.Compare(m.currency, o.currency); c != 0 {
		return c
	}
	return m.amount.Cmp(o.amount)
}

// Equal reports exact equality of currency and amount.
func (m Money) Equal(o Money) bool {
	return m.currency == o.currency && m.amount.Equal(o.amount)
}

func (m Money) String() string {
	if m.currency == "" {
		return m.amount.String()
	}
	return m.amount.StringFixed(exponent(m.currency)) + " " + m.currency
}
