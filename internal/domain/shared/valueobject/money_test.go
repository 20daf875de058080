package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromInt(500), INR)
	require.NoError(t, err)
	assert.Equal(t, INR, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(500)))

	_, err = NewMoney(decimal.Zero, "")
	assert.Error(t, err)
}

func TestMoney_AddSubtract(t *testing.T) {
	a := NewMoneyINRFromFloat(1000)
	b := NewMoneyINRFromFloat(250.50)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "1250.50 INR", sum.String())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "749.50 INR", diff.String())

	usd := Zero(USD)
	_, err = a.Add(usd)
	assert.Error(t, err)
	_, err = a.Subtract(usd)
	assert.Error(t, err)
}

func TestMoney_Comparisons(t *testing.T) {
	total := NewMoneyINRFromFloat(1000)
	paid := NewMoneyINRFromFloat(500)

	less, err := paid.LessThan(total)
	require.NoError(t, err)
	assert.True(t, less)

	covered, err := paid.GreaterThanOrEqual(total)
	require.NoError(t, err)
	assert.False(t, covered)

	equal := NewMoneyINRFromFloat(500)
	assert.True(t, paid.Equals(equal))
}

func TestMoney_SignHelpers(t *testing.T) {
	assert.True(t, ZeroINR().IsZero())
	assert.True(t, NewMoneyINRFromFloat(1).IsPositive())
	assert.True(t, NewMoneyINRFromFloat(1).Negate().IsNegative())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyINRFromFloat(499.99)
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("1234.56"))
	assert.Equal(t, DefaultCurrency, m.Currency())
	assert.Equal(t, "1234.56 INR", m.String())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(42))
}
