package engine

import (
	"trading-risk-assistant/internal/store"
	"trading-risk-assistant/internal/types"
)

// ResolveTier maps a final score onto a risk tier. Each threshold is the
// exclusive upper bound of the tier below it, so a score equal to a bound
// lands in the higher tier.
func ResolveTier(score float64, th store.Thresholds) types.RiskTier {
	switch {
	case score < th.NoTrade:
		return types.TierNoTrade
	case score < th.Risk2Percent:
		return types.TierRisk2
	default:
		return types.TierRisk3
	}
}
