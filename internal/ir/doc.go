// Package ir defines the value model shared by the grid engine.
//
// Records hold native Go values of unknown type. The engine only cares
// about five semantic kinds (string, int, float, decimal, date), so each
// column is tagged once with a Kind and all later dispatch switches on
// that tag. Coerced filter values use the sealed Value interface:
//
//	IRString  - text
//	IRInt     - int64
//	IRFloat   - float64
//	IRDecimal - exact fixed-point (shopspring/decimal)
//	IRDate    - calendar date, midnight UTC
//
// Text renders any native value the way grid cells show it.
package ir
