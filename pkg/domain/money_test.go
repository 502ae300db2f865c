package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "clinica/pkg/domain-errors"
)

func TestNewMoney(t *testing.T) {
	t.Run("empty currency defaults to EUR", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(10), "")
		require.NoError(t, err)
		assert.Equal(t, "EUR", m.Currency())
	})

	t.Run("rejects non-3-letter currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(10), "EURO")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestMoneyAdd(t *testing.T) {
	t.Run("sums same-currency amounts", func(t *testing.T) {
		sum, err := MustMoney("60.00", "EUR").Add(MustMoney("40.00", "EUR"))
		require.NoError(t, err)
		assert.True(t, sum.Equal(MustMoney("100.00", "EUR")))
	})

	t.Run("refuses cross-currency addition", func(t *testing.T) {
		_, err := MustMoney("1", "EUR").Add(MustMoney("1", "USD"))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestMoneyRounding(t *testing.T) {
	t.Run("rounds half away from zero", func(t *testing.T) {
		assert.Equal(t, "10.01 EUR", MustMoney("10.005", "EUR").Round2().String())
		assert.Equal(t, "-10.01 EUR", MustMoney("-10.005", "EUR").Round2().String())
	})

	t.Run("EqualRounded tolerates sub-cent drift", func(t *testing.T) {
		assert.True(t, MustMoney("99.999", "EUR").EqualRounded(MustMoney("100.00", "EUR")))
		assert.False(t, MustMoney("99.99", "EUR").EqualRounded(MustMoney("100.00", "EUR")))
	})
}

func TestMoneyJSON(t *testing.T) {
	t.Run("round-trips through the envelope", func(t *testing.T) {
		data, err := json.Marshal(MustMoney("120.50", "EUR"))
		require.NoError(t, err)

		var envelope map[string]string
		require.NoError(t, json.Unmarshal(data, &envelope))
		assert.Equal(t, "EUR", envelope["currency"])

		var decoded Money
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, decoded.Equal(MustMoney("120.50", "EUR")))
	})

	t.Run("rejects a non-decimal amount", func(t *testing.T) {
		var decoded Money
		err := json.Unmarshal([]byte(`{"amount":"twelve","currency":"EUR"}`), &decoded)
		require.Error(t, err)
	})
}
