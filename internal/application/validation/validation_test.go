package validation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/validation"
	"github.com/jhoicas/backoffice-api/internal/domain"
)

type item struct {
	Size string `json:"size" validate:"required"`
}

type sample struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
	Items []item          `json:"items" validate:"min=1,dive"`
}

func TestStruct_OK(t *testing.T) {
	err := validation.Struct(sample{Name: "x", Price: decimal.NewFromInt(1), Items: []item{{Size: "M"}}})
	assert.NoError(t, err)
}

func TestStruct_CampoConNombreJSON(t *testing.T) {
	err := validation.Struct(sample{Price: decimal.NewFromInt(1), Items: []item{{Size: "M"}}})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStruct_DecimalNegativo(t *testing.T) {
	err := validation.Struct(sample{Name: "x", Price: decimal.NewFromInt(-1), Items: []item{{Size: "M"}}})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "price", ve.Field)
}

func TestStruct_SliceAnidado(t *testing.T) {
	err := validation.Struct(sample{Name: "x", Items: []item{{Size: "M"}, {}}})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "items[1].size", ve.Field)

	err = validation.Struct(sample{Name: "x"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "items", ve.Field)
}
