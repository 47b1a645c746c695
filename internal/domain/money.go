package domain

import "github.com/shopspring/decimal"

// MoneyScale decimales de las columnas NUMERIC(12,2).
const MoneyScale = 2

// maxMoney mayor valor absoluto que cabe en NUMERIC(12,2).
var maxMoney = decimal.RequireFromString("9999999999.99")

// CheckMoney rechaza montos con más de dos decimales o fuera del rango de la columna.
// Ceros finales no cuentan: 10.500 es válido.
func CheckMoney(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(MoneyScale)) {
		return Invalid(field, "admite como máximo 2 decimales")
	}
	if d.Abs().GreaterThan(maxMoney) {
		return Invalid(field, "fuera de rango")
	}
	return nil
}
