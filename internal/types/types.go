package types

import (
	"encoding/json"
	"maps"
	"time"
)

// Question categories, in scoring order.
const (
	CategoryPsychology          = "psychology"
	CategoryMarketConditions    = "market_conditions"
	CategoryTechnicalConfluence = "technical_confluence"
)

// Categories lists every scoring category in the order they are evaluated and
// reported.
var Categories = []string{
	CategoryPsychology,
	CategoryMarketConditions,
	CategoryTechnicalConfluence,
}

// RiskTier is the recommended position-risk class resolved from a final score.
type RiskTier string

const (
	TierNoTrade RiskTier = "no_trade"
	TierRisk2   RiskTier = "risk_2_percent"
	TierRisk3   RiskTier = "risk_3_percent"
)

// Answers maps a question id to the raw value given by the trader:
// a bool, or any integer or float kind.
type Answers map[string]any

// Clone returns a shallow copy; answer values are scalars.
func (a Answers) Clone() Answers {
	if a == nil {
		return Answers{}
	}
	return maps.Clone(a)
}

// Number reads an answer value of any numeric kind that YAML, JSON or a
// caller may produce.
func Number(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// Stats holds the trader's current session statistics.
type Stats struct {
	ConsecutiveLosses int     `json:"consecutive_losses" yaml:"consecutive_losses"`
	DailyLossPercent  float64 `json:"daily_loss_percent" yaml:"daily_loss_percent"`
}

// TradeInputs are the optional details used to size a position.
type TradeInputs struct {
	Balance float64 `json:"balance" yaml:"balance"`
	SLPips  float64 `json:"sl_pips" yaml:"sl_pips"`
	Pair    string  `json:"pair" yaml:"pair"`
}

// EvaluationRequest is everything one evaluation call consumes.
type EvaluationRequest struct {
	Answers Answers      `json:"answers" yaml:"answers"`
	Stats   Stats        `json:"stats" yaml:"stats"`
	Trade   *TradeInputs `json:"trade,omitempty" yaml:"trade,omitempty"`
}

// InputSnapshot is a copy of the inputs a Decision was computed from.
type InputSnapshot struct {
	Answers Answers      `json:"answers"`
	Stats   Stats        `json:"stats"`
	Trade   *TradeInputs `json:"trade,omitempty"`
}

// QuestionScore is the normalized contribution of one answer.
type QuestionScore struct {
	QuestionID string  `json:"question_id"`
	Category   string  `json:"category"`
	Question   string  `json:"question"`
	Answer     any     `json:"answer"`
	Weight     float64 `json:"weight"`
	Score      float64 `json:"score"`
}

// Decision is the output record of one evaluation. It is built once by the
// engine and only read afterwards.
type Decision struct {
	ID                 string             `json:"id"`
	ShouldTrade        bool               `json:"should_trade"`
	HardStopViolations []string           `json:"hard_stop_violations"`
	CategoryScores     map[string]float64 `json:"category_scores"`
	QuestionScores     []QuestionScore    `json:"question_scores,omitempty"`
	FinalScore         float64            `json:"final_score"`
	RiskTier           RiskTier           `json:"risk_tier"`
	RiskPercent        float64            `json:"risk_percent"`
	LotSize            *float64           `json:"lot_size,omitempty"`
	Warnings           []string           `json:"warnings,omitempty"`
	Inputs             InputSnapshot      `json:"inputs"`
	CreatedAt          time.Time          `json:"created_at"`
}

// HardStopped reports whether any disqualifying condition was hit.
func (d Decision) HardStopped() bool {
	return len(d.HardStopViolations) > 0
}

// JournalEntry is one persisted evaluation plus the trader's notes.
type JournalEntry struct {
	Decision Decision `json:"decision"`
	Notes    string   `json:"notes,omitempty"`
}

// JournalSummary aggregates journal entries over a time window.
type JournalSummary struct {
	Days             int     `json:"days"`
	TotalSessions    int     `json:"total_sessions"`
	TradesTaken      int     `json:"trades_taken"`
	HardStopSessions int     `json:"hard_stop_sessions"`
	AvgScore         float64 `json:"avg_score"`
	TradeRate        float64 `json:"trade_rate"`
	Risk2Count       int     `json:"risk_2_percent_count"`
	Risk3Count       int     `json:"risk_3_percent_count"`
}

// Insights is the coach's read of recent behaviour. Empty strings mean the
// corresponding pattern was not detected or there was not enough history.
type Insights struct {
	InactivityWarning string    `json:"inactivity_warning,omitempty"`
	Psychology        string    `json:"psychology_insight,omitempty"`
	RiskTaking        string    `json:"risk_taking_insight,omitempty"`
	ScoreTrend        string    `json:"score_trend_insight,omitempty"`
	HardStops         string    `json:"hard_stop_insight,omitempty"`
	DailyMotivation   string    `json:"daily_motivation"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// Any reports whether at least one pattern insight is present.
func (i Insights) Any() bool {
	return i.InactivityWarning != "" || i.Psychology != "" || i.RiskTaking != "" ||
		i.ScoreTrend != "" || i.HardStops != ""
}
