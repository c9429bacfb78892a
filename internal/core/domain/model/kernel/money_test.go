package kernel_test

import (
	"math"
	"testing"

	"restaurant/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFromFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{10, 1000},
		{10.5, 1050},
		{0.1 + 0.2, 30},
		{19.999, 2000},
		{-5.25, -525},
	}
	for _, tt := range tests {
		m, err := kernel.MoneyFromFloat(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, m.Cents())
	}

	for _, bad := range []float64{math.NaN(), math.Inf(1), 1e30} {
		_, err := kernel.MoneyFromFloat(bad)
		require.Error(t, err)
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	price := kernel.Cents(1000)

	assert.Equal(t, kernel.Cents(2000), price.Mul(2))
	assert.Equal(t, kernel.Cents(2500), price.Mul(2).Add(kernel.Cents(500)))
	assert.Equal(t, kernel.Cents(-100), kernel.Cents(400).Sub(kernel.Cents(500)))
	assert.True(t, kernel.Cents(-1).IsNegative())
	assert.True(t, price.IsPositive())
	assert.False(t, kernel.Zero.IsPositive())
	assert.InDelta(t, 10.0, price.Float(), 0.0001)
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "R$ 0,00", kernel.Zero.String())
	assert.Equal(t, "R$ 25,00", kernel.Cents(2500).String())
	assert.Equal(t, "R$ 1.234,56", kernel.Cents(123456).String())
	assert.Equal(t, "R$ 1.000.000,05", kernel.Cents(100000005).String())
	assert.Equal(t, "-R$ 3,50", kernel.Cents(-350).String())
}
