package eod

import "trading-risk-assistant/internal/types"

// tierRow aggregates one risk tier's decisions for the day.
type tierRow struct {
	Tier       types.RiskTier
	Count      int     // decisions resolved to this tier
	ScoreSum   float64 // sum of final scores, for the average
	TotalLots  float64 // lot sizes recommended
	HardStops  int     // decisions blocked by a hard stop
	SizedCount int     // decisions that carried a lot size
}

func (r *tierRow) avgScore() float64 {
	if r.Count == 0 {
		return 0
	}
	return r.ScoreSum / float64(r.Count)
}
