package store

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"trading-risk-assistant/internal/types"
)

const (
	// CategoryWeightTolerance bounds how far scoring.weights may drift from 100.
	CategoryWeightTolerance = 0.01
	// QuestionWeightTolerance bounds how far a category's question weights may drift from 1.0.
	QuestionWeightTolerance = 0.001
)

// QuestionType is the closed set of answer kinds a question may declare.
type QuestionType string

const (
	QuestionBoolean QuestionType = "boolean"
	QuestionScale   QuestionType = "scale"
	QuestionNumeric QuestionType = "numeric"
)

type HardStops struct {
	MaxConsecutiveLosses int     `yaml:"max_consecutive_losses" json:"max_consecutive_losses"`
	MaxDailyLossPercent  float64 `yaml:"max_daily_loss_percent" json:"max_daily_loss_percent"`
	MinSleepHours        float64 `yaml:"min_sleep_hours" json:"min_sleep_hours"`
	PsychologyMinScore   float64 `yaml:"psychology_min_score" json:"psychology_min_score"`
	RequireClearBias     bool    `yaml:"require_clear_bias" json:"require_clear_bias"`
	SleepQuestion        string  `yaml:"sleep_question" json:"sleep_question"`
	BiasQuestion         string  `yaml:"bias_question" json:"bias_question"`
}

type Weights struct {
	Psychology          float64 `yaml:"psychology" json:"psychology"`
	MarketConditions    float64 `yaml:"market_conditions" json:"market_conditions"`
	TechnicalConfluence float64 `yaml:"technical_confluence" json:"technical_confluence"`
}

// For returns the weight configured for a category.
func (w Weights) For(category string) float64 {
	switch category {
	case types.CategoryPsychology:
		return w.Psychology
	case types.CategoryMarketConditions:
		return w.MarketConditions
	case types.CategoryTechnicalConfluence:
		return w.TechnicalConfluence
	}
	return 0
}

func (w Weights) Sum() float64 {
	return w.Psychology + w.MarketConditions + w.TechnicalConfluence
}

// Thresholds are exclusive upper bounds of each tier; a score equal to a
// bound belongs to the tier above it.
type Thresholds struct {
	NoTrade      float64 `yaml:"no_trade" json:"no_trade"`
	Risk2Percent float64 `yaml:"risk_2_percent" json:"risk_2_percent"`
	Risk3Percent float64 `yaml:"risk_3_percent" json:"risk_3_percent"`
}

// RiskPercent is the share of the balance put at risk for each trading tier.
type RiskPercent struct {
	Risk2Percent float64 `yaml:"risk_2_percent" json:"risk_2_percent"`
	Risk3Percent float64 `yaml:"risk_3_percent" json:"risk_3_percent"`
}

// For returns the risk percent of a tier, 0 for no_trade.
func (r RiskPercent) For(tier types.RiskTier) float64 {
	switch tier {
	case types.TierRisk2:
		return r.Risk2Percent
	case types.TierRisk3:
		return r.Risk3Percent
	}
	return 0
}

type Scoring struct {
	Weights     Weights     `yaml:"weights" json:"weights"`
	Thresholds  Thresholds  `yaml:"thresholds" json:"thresholds"`
	RiskPercent RiskPercent `yaml:"risk_percent" json:"risk_percent"`
}

type Question struct {
	ID           string       `yaml:"id" json:"id"`
	Question     string       `yaml:"question" json:"question"`
	Weight       float64      `yaml:"weight" json:"weight"`
	Type         QuestionType `yaml:"type" json:"type"`
	Min          float64      `yaml:"min" json:"min"`
	Max          float64      `yaml:"max" json:"max"`
	ReverseScore bool         `yaml:"reverse_score" json:"reverse_score,omitempty"`
}

type LotCalculation struct {
	DefaultPipValue float64            `yaml:"default_pip_value" json:"default_pip_value"`
	PipValues       map[string]float64 `yaml:"pip_values" json:"pip_values"`
	MinLotSize      float64            `yaml:"min_lot_size" json:"min_lot_size"`
	MaxLotSize      float64            `yaml:"max_lot_size" json:"max_lot_size"`
	LotStep         float64            `yaml:"lot_step" json:"lot_step"`
}

// PipValue resolves the value of one pip per standard lot for a pair.
// Pair keys are matched case-insensitively.
func (l LotCalculation) PipValue(pair string) float64 {
	key := strings.ToUpper(strings.TrimSpace(pair))
	for k, v := range l.PipValues {
		if strings.ToUpper(k) == key {
			return v
		}
	}
	return l.DefaultPipValue
}

type Coach struct {
	DaysInactiveWarning  int      `yaml:"days_inactive_warning" json:"days_inactive_warning"`
	MotivationalMessages []string `yaml:"motivational_messages" json:"motivational_messages"`
}

// Config is the validated rule set the decision engine runs on. Once loaded
// it is treated as read-only.
type Config struct {
	HardStops      HardStops             `yaml:"hard_stops" json:"hard_stops"`
	Scoring        Scoring               `yaml:"scoring" json:"scoring"`
	Questions      map[string][]Question `yaml:"questions" json:"questions"`
	LotCalculation LotCalculation        `yaml:"lot_calculation" json:"lot_calculation"`
	Coach          Coach                 `yaml:"coach" json:"coach"`
}

// ConfigValidationError reports the first structural problem found in a rule set.
type ConfigValidationError struct {
	Field  string
	Reason string
}

func (e *ConfigValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ConfigValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks weight sums, threshold ordering, question specs and the
// questions the hard-stop rules read.
func (c *Config) Validate() error {
	if err := c.validateFinite(); err != nil {
		return err
	}

	hs := c.HardStops
	if hs.MaxConsecutiveLosses < 1 {
		return invalid("hard_stops.max_consecutive_losses", "must be >= 1, got %d", hs.MaxConsecutiveLosses)
	}
	if hs.MaxDailyLossPercent <= 0 {
		return invalid("hard_stops.max_daily_loss_percent", "must be > 0, got %.2f", hs.MaxDailyLossPercent)
	}
	if hs.MinSleepHours < 0 {
		return invalid("hard_stops.min_sleep_hours", "must be >= 0, got %.2f", hs.MinSleepHours)
	}
	if hs.PsychologyMinScore < 0 {
		return invalid("hard_stops.psychology_min_score", "must be >= 0, got %.2f", hs.PsychologyMinScore)
	}

	w := c.Scoring.Weights
	for _, cat := range types.Categories {
		if w.For(cat) < 0 {
			return invalid("scoring.weights."+cat, "must be >= 0, got %.4f", w.For(cat))
		}
	}
	if math.Abs(w.Sum()-100) > CategoryWeightTolerance {
		return invalid("scoring.weights", "must sum to 100, got %.4f", w.Sum())
	}

	th := c.Scoring.Thresholds
	if th.NoTrade <= 0 {
		return invalid("scoring.thresholds.no_trade", "must be > 0, got %.2f", th.NoTrade)
	}
	if !(th.NoTrade < th.Risk2Percent && th.Risk2Percent < th.Risk3Percent) {
		return invalid("scoring.thresholds", "must be strictly increasing, got %.2f, %.2f, %.2f",
			th.NoTrade, th.Risk2Percent, th.Risk3Percent)
	}
	if th.Risk3Percent > 100 {
		return invalid("scoring.thresholds.risk_3_percent", "must be <= 100, got %.2f", th.Risk3Percent)
	}

	rp := c.Scoring.RiskPercent
	if rp.Risk2Percent <= 0 || rp.Risk2Percent > 100 {
		return invalid("scoring.risk_percent.risk_2_percent", "must be between 0-100, got %.2f", rp.Risk2Percent)
	}
	if rp.Risk3Percent <= 0 || rp.Risk3Percent > 100 {
		return invalid("scoring.risk_percent.risk_3_percent", "must be between 0-100, got %.2f", rp.Risk3Percent)
	}

	for cat := range c.Questions {
		if !knownCategory(cat) {
			return invalid("questions."+cat, "unknown category")
		}
	}
	seen := map[string]string{}
	for _, cat := range types.Categories {
		qs := c.Questions[cat]
		if len(qs) == 0 {
			return invalid("questions."+cat, "category has no questions")
		}
		var sum float64
		for i, q := range qs {
			field := fmt.Sprintf("questions.%s[%d]", cat, i)
			if err := validateQuestion(field, q); err != nil {
				return err
			}
			if other, dup := seen[q.ID]; dup {
				return invalid(field+".id", "duplicate id %q (also in %s)", q.ID, other)
			}
			seen[q.ID] = cat
			sum += q.Weight
		}
		if math.Abs(sum-1.0) > QuestionWeightTolerance {
			return invalid("questions."+cat, "weights must sum to 1.0, got %.4f", sum)
		}
	}

	if err := c.validateHardStopQuestions(); err != nil {
		return err
	}

	lc := c.LotCalculation
	if lc.DefaultPipValue <= 0 {
		return invalid("lot_calculation.default_pip_value", "must be > 0, got %.4f", lc.DefaultPipValue)
	}
	for pair, v := range lc.PipValues {
		if v <= 0 {
			return invalid("lot_calculation.pip_values."+pair, "must be > 0, got %.4f", v)
		}
	}
	if lc.MinLotSize < 0 || lc.MaxLotSize <= 0 || lc.MinLotSize > lc.MaxLotSize {
		return invalid("lot_calculation", "invalid lot bounds [%.4f, %.4f]", lc.MinLotSize, lc.MaxLotSize)
	}
	if lc.LotStep <= 0 {
		return invalid("lot_calculation.lot_step", "must be > 0, got %.4f", lc.LotStep)
	}
	return nil
}

type namedValue struct {
	field string
	v     float64
}

// validateFinite rejects NaN and infinities; every range check below is a
// comparison and lets them through.
func (c *Config) validateFinite() error {
	hs, sc, lc := c.HardStops, c.Scoring, c.LotCalculation
	values := []namedValue{
		{"hard_stops.max_daily_loss_percent", hs.MaxDailyLossPercent},
		{"hard_stops.min_sleep_hours", hs.MinSleepHours},
		{"hard_stops.psychology_min_score", hs.PsychologyMinScore},
		{"scoring.weights.psychology", sc.Weights.Psychology},
		{"scoring.weights.market_conditions", sc.Weights.MarketConditions},
		{"scoring.weights.technical_confluence", sc.Weights.TechnicalConfluence},
		{"scoring.thresholds.no_trade", sc.Thresholds.NoTrade},
		{"scoring.thresholds.risk_2_percent", sc.Thresholds.Risk2Percent},
		{"scoring.thresholds.risk_3_percent", sc.Thresholds.Risk3Percent},
		{"scoring.risk_percent.risk_2_percent", sc.RiskPercent.Risk2Percent},
		{"scoring.risk_percent.risk_3_percent", sc.RiskPercent.Risk3Percent},
		{"lot_calculation.default_pip_value", lc.DefaultPipValue},
		{"lot_calculation.min_lot_size", lc.MinLotSize},
		{"lot_calculation.max_lot_size", lc.MaxLotSize},
		{"lot_calculation.lot_step", lc.LotStep},
	}
	for _, cat := range types.Categories {
		for i, q := range c.Questions[cat] {
			field := fmt.Sprintf("questions.%s[%d]", cat, i)
			values = append(values,
				namedValue{field + ".weight", q.Weight},
				namedValue{field + ".min", q.Min},
				namedValue{field + ".max", q.Max},
			)
		}
	}
	for _, fv := range values {
		if math.IsNaN(fv.v) || math.IsInf(fv.v, 0) {
			return invalid(fv.field, "must be a finite number, got %v", fv.v)
		}
	}
	for pair, v := range lc.PipValues {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid("lot_calculation.pip_values."+pair, "must be a finite number, got %v", v)
		}
	}
	return nil
}

// validateHardStopQuestions checks that an active sleep or bias rule reads a
// declared question of a usable type.
func (c *Config) validateHardStopQuestions() error {
	hs := c.HardStops
	if hs.MinSleepHours > 0 {
		q, _, ok := c.FindQuestion(hs.SleepQuestion)
		if !ok {
			return invalid("hard_stops.sleep_question", "%q is not a declared question", hs.SleepQuestion)
		}
		if q.Type == QuestionBoolean {
			return invalid("hard_stops.sleep_question", "%q must be a numeric or scale question, got %s", q.ID, q.Type)
		}
	}
	if hs.RequireClearBias {
		q, _, ok := c.FindQuestion(hs.BiasQuestion)
		if !ok {
			return invalid("hard_stops.bias_question", "%q is not a declared question", hs.BiasQuestion)
		}
		if q.Type != QuestionBoolean {
			return invalid("hard_stops.bias_question", "%q must be a boolean question, got %s", q.ID, q.Type)
		}
	}
	return nil
}

func validateQuestion(field string, q Question) error {
	if strings.TrimSpace(q.ID) == "" {
		return invalid(field+".id", "cannot be empty")
	}
	if q.Weight < 0 {
		return invalid(field+".weight", "must be >= 0, got %.4f", q.Weight)
	}
	switch q.Type {
	case QuestionBoolean:
	case QuestionScale, QuestionNumeric:
		if q.Min >= q.Max {
			return invalid(field, "min (%.2f) must be below max (%.2f)", q.Min, q.Max)
		}
	default:
		return invalid(field+".type", "must be 'boolean', 'scale' or 'numeric', got '%s'", q.Type)
	}
	if q.ReverseScore && q.Type != QuestionBoolean {
		return invalid(field+".reverse_score", "only supported for boolean questions")
	}
	return nil
}

func knownCategory(cat string) bool {
	for _, c := range types.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// FindQuestion returns the question spec with the given id and its category.
func (c *Config) FindQuestion(id string) (Question, string, bool) {
	for _, cat := range types.Categories {
		for _, q := range c.Questions[cat] {
			if q.ID == id {
				return q, cat, true
			}
		}
	}
	return Question{}, "", false
}

// ScaleQuestions returns the scale questions of a category, in order.
func (c *Config) ScaleQuestions(category string) []Question {
	var out []Question
	for _, q := range c.Questions[category] {
		if q.Type == QuestionScale {
			out = append(out, q)
		}
	}
	return out
}

func (c *Config) applyDefaults() {
	if c.HardStops.SleepQuestion == "" {
		c.HardStops.SleepQuestion = "sleep_hours"
	}
	if c.HardStops.BiasQuestion == "" {
		c.HardStops.BiasQuestion = "clear_bias"
	}
	if c.Scoring.RiskPercent.Risk2Percent == 0 {
		c.Scoring.RiskPercent.Risk2Percent = 2
	}
	if c.Scoring.RiskPercent.Risk3Percent == 0 {
		c.Scoring.RiskPercent.Risk3Percent = 3
	}
	if c.LotCalculation.DefaultPipValue == 0 {
		c.LotCalculation.DefaultPipValue = 10
	}
	if c.LotCalculation.MinLotSize == 0 {
		c.LotCalculation.MinLotSize = 0.01
	}
	if c.LotCalculation.MaxLotSize == 0 {
		c.LotCalculation.MaxLotSize = 100
	}
	if c.LotCalculation.LotStep == 0 {
		c.LotCalculation.LotStep = 0.01
	}
	if c.Coach.DaysInactiveWarning == 0 {
		c.Coach.DaysInactiveWarning = 3
	}
}

// Parse decodes a YAML rule set, fills defaults and validates it.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}
