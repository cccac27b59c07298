package engine

import (
	"math"

	"github.com/shopspring/decimal"

	"trading-risk-assistant/internal/store"
)

var hundred = decimal.NewFromInt(100)

// SizePosition converts a risk percent of the balance into a lot size:
//
//	risk_amount = balance * risk_percent / 100
//	lots        = risk_amount / (sl_pips * pip_value(pair))
//
// The result is rounded half-up to the configured lot step and clamped to
// the configured lot bounds.
func SizePosition(balance, riskPercent, slPips float64, pair string, lc store.LotCalculation) (float64, error) {
	if !(balance > 0) || math.IsInf(balance, 0) {
		return 0, &InvalidPositionInputError{Field: "balance", Value: balance}
	}
	if !(slPips > 0) || math.IsInf(slPips, 0) {
		return 0, &InvalidPositionInputError{Field: "sl_pips", Value: slPips}
	}

	riskAmount := decimal.NewFromFloat(balance).
		Mul(decimal.NewFromFloat(riskPercent)).
		Div(hundred)
	perLot := decimal.NewFromFloat(slPips).Mul(decimal.NewFromFloat(lc.PipValue(pair)))
	lots := riskAmount.Div(perLot)

	step := decimal.NewFromFloat(lc.LotStep)
	lots = lots.Div(step).Round(0).Mul(step)

	minLot := decimal.NewFromFloat(lc.MinLotSize)
	maxLot := decimal.NewFromFloat(lc.MaxLotSize)
	if lots.LessThan(minLot) {
		lots = minLot
	}
	if lots.GreaterThan(maxLot) {
		lots = maxLot
	}

	f, _ := lots.Float64()
	return f, nil
}
