package product_test

import (
	"testing"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/product"
	"restaurant/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	p, err := product.NewProduct(kernel.NewUUID(), " P1 ", " Margherita ", product.Pizza, kernel.Cents(4200), "")

	require.NoError(t, err)
	require.NoError(t, p.Validate())
	assert.Equal(t, "P1", p.Code())
	assert.Equal(t, "Margherita", p.Name())
	assert.True(t, p.IsAvailable())

	p.SetAvailable(false)
	assert.False(t, p.IsAvailable())
}

func TestNewProduct_Validation(t *testing.T) {
	_, err := product.NewProduct(kernel.UUID{}, "", "", product.UnknownCategory, kernel.Cents(-1), "")

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestParseCategory(t *testing.T) {
	c, err := product.ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, product.Other, c)

	c, err = product.ParseCategory("Drink")
	require.NoError(t, err)
	assert.Equal(t, product.Drink, c)
	assert.Equal(t, "Bebidas", c.Label())

	_, err = product.ParseCategory("bebida")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
