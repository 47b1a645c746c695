package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain"
)

// ── CheckMoney ───────────────────────────────────────────────────────────────

func TestCheckMoney_Aceptados(t *testing.T) {
	for _, s := range []string{"0", "10", "10.5", "10.50", "10.500", "0.01", "9999999999.99"} {
		assert.NoError(t, domain.CheckMoney("amount", decimal.RequireFromString(s)), s)
	}
}

func TestCheckMoney_MasDeDosDecimales(t *testing.T) {
	for _, s := range []string{"0.005", "0.001", "10.123", "-1.999"} {
		err := domain.CheckMoney("amount", decimal.RequireFromString(s))
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, s)
		assert.Equal(t, "amount", ve.Field)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestCheckMoney_FueraDeRango(t *testing.T) {
	err := domain.CheckMoney("sale_price", decimal.RequireFromString("10000000000"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
