package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	dErrors "clinica/pkg/domain-errors"
)

// DefaultCurrency is assumed whenever a caller does not name one.
const DefaultCurrency = "EUR"

// Money is an immutable amount in a single currency. Two values are equal iff
// amount and currency both match; there is no conversion anywhere in the
// system. Comparisons between estimated costs always go through Round2 first.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney builds a Money value. An empty currency selects DefaultCurrency.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	if len(currency) != 3 {
		return Money{}, dErrors.New(dErrors.CodeInvalidInput, "currency must be a 3-letter code")
	}
	return Money{amount: amount, currency: currency}, nil
}

// MustMoney is a test and literal helper; it panics on an invalid currency.
func MustMoney(amount string, currency string) Money {
	m, err := NewMoney(decimal.RequireFromString(amount), currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseMoney builds a Money value from a decimal string such as "120.50".
func ParseMoney(amount string, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, dErrors.New(dErrors.CodeInvalidInput, "amount must be a decimal number")
	}
	return NewMoney(d, currency)
}

// Zero returns the zero amount in the given currency.
func Zero(currency string) Money {
	m, _ := NewMoney(decimal.Zero, currency)
	return m
}

func (m Money) Amount() decimal.Decimal { return m.amount }

func (m Money) Currency() string {
	if m.currency == "" {
		return DefaultCurrency
	}
	return m.currency
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Add sums two Money values of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency() != other.Currency() {
		return Money{}, dErrors.Newf(dErrors.CodeInvariantViolation,
			"cannot add %s to %s", other.Currency(), m.Currency())
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.Currency()}, nil
}

// Round2 rounds the amount to 2 decimal places, half away from zero. This is
// the canonical rule wherever estimated costs are summed or compared.
func (m Money) Round2() Money {
	return Money{amount: m.amount.Round(2), currency: m.Currency()}
}

// Equal reports exact equality of amount and currency.
func (m Money) Equal(other Money) bool {
	return m.Currency() == other.Currency() && m.amount.Equal(other.amount)
}

// EqualRounded compares both values after Round2.
func (m Money) EqualRounded(other Money) bool {
	return m.Round2().Equal(other.Round2())
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.Currency())
}

type moneyJSON struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// MarshalJSON encodes the amount as a decimal string to avoid float drift.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount.String(), Currency: m.Currency()})
}

// UnmarshalJSON accepts {"amount":"100.00","currency":"EUR"}.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseMoney(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
