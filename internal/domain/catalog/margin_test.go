package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/catalog"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFormatMargin(t *testing.T) {
	cases := []struct {
		cost, sale string
		want       string
	}{
		{"20", "40", "100.00%"},
		{"0", "40", "0.00%"},
		{"30", "45", "50.00%"},
		{"3", "4", "33.33%"},
		{"50", "40", "-20.00%"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, catalog.FormatMargin(d(tc.cost), d(tc.sale)), "cost=%s sale=%s", tc.cost, tc.sale)
	}
}

func TestApplyStockOperation(t *testing.T) {
	n, err := catalog.ApplyStockOperation(10, entity.StockAdd, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	n, err = catalog.ApplyStockOperation(10, entity.StockSubtract, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = catalog.ApplyStockOperation(10, entity.StockSet, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestApplyStockOperation_Errores(t *testing.T) {
	_, err := catalog.ApplyStockOperation(2, entity.StockSubtract, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = catalog.ApplyStockOperation(2, entity.StockAdd, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = catalog.ApplyStockOperation(2, "multiply", 1)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "operation", ve.Field)
}
