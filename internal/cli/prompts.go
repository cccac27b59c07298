package cli

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"gopkg.in/yaml.v3"

	"trading-risk-assistant/internal/store"
	"trading-risk-assistant/internal/types"
)

// PromptStats asks for the current session statistics.
func PromptStats() (types.Stats, error) {
	var stats types.Stats

	losses, err := askNumber("Consecutive losses so far today:", "0", 0, math.Inf(1))
	if err != nil {
		return stats, err
	}
	if losses != math.Trunc(losses) {
		return stats, fmt.Errorf("consecutive losses must be a whole number")
	}
	stats.ConsecutiveLosses = int(losses)

	stats.DailyLossPercent, err = askNumber("Loss so far today, as % of balance:", "0", math.Inf(-1), math.Inf(1))
	if err != nil {
		return stats, err
	}
	return stats, nil
}

// PromptAnswers walks every question of the rule set, category by category.
func PromptAnswers(cfg *store.Config) (types.Answers, error) {
	answers := types.Answers{}
	for _, cat := range types.Categories {
		fmt.Println(categoryStyle.Render(categoryTitle(cat)))
		for _, q := range cfg.Questions[cat] {
			v, err := askQuestion(q)
			if err != nil {
				return nil, err
			}
			answers[q.ID] = v
		}
	}
	return answers, nil
}

func askQuestion(q store.Question) (any, error) {
	switch q.Type {
	case store.QuestionBoolean:
		var yes bool
		err := survey.AskOne(&survey.Confirm{Message: q.Question}, &yes)
		return yes, err
	case store.QuestionScale:
		options := make([]string, 0, int(q.Max-q.Min)+1)
		for v := q.Min; v <= q.Max; v++ {
			options = append(options, strconv.Itoa(int(v)))
		}
		var picked string
		prompt := &survey.Select{
			Message: q.Question,
			Options: options,
			Default: options[len(options)/2],
		}
		if err := survey.AskOne(prompt, &picked); err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(picked)
		return n, err
	case store.QuestionNumeric:
		return askNumber(fmt.Sprintf("%s [%g-%g]", q.Question, q.Min, q.Max), "", q.Min, q.Max)
	}
	return nil, fmt.Errorf("question %s: unsupported type %q", q.ID, q.Type)
}

// PromptTrade asks whether to size a position and, if so, for its inputs.
// It returns nil when the trader skips sizing.
func PromptTrade(cfg *store.Config) (*types.TradeInputs, error) {
	var size bool
	if err := survey.AskOne(&survey.Confirm{Message: "Calculate a lot size?", Default: true}, &size); err != nil {
		return nil, err
	}
	if !size {
		return nil, nil
	}

	var t types.TradeInputs
	var err error
	if t.Balance, err = askNumber("Account balance:", "", math.SmallestNonzeroFloat64, math.Inf(1)); err != nil {
		return nil, err
	}
	if t.SLPips, err = askNumber("Stop loss, in pips:", "", math.SmallestNonzeroFloat64, math.Inf(1)); err != nil {
		return nil, err
	}

	pairs := make([]string, 0, len(cfg.LotCalculation.PipValues)+1)
	for p := range cfg.LotCalculation.PipValues {
		pairs = append(pairs, p)
	}
	prompt := &survey.Input{
		Message: "Pair:",
		Help:    "Pairs with a configured pip value: " + strings.Join(sortedStrings(pairs), ", "),
	}
	if err := survey.AskOne(prompt, &t.Pair, survey.WithValidator(survey.Required)); err != nil {
		return nil, err
	}
	t.Pair = strings.ToUpper(strings.TrimSpace(t.Pair))
	return &t, nil
}

func PromptConfirm(msg string, def bool) (bool, error) {
	var ok bool
	err := survey.AskOne(&survey.Confirm{Message: msg, Default: def}, &ok)
	return ok, err
}

func PromptNotes() (string, error) {
	var notes string
	err := survey.AskOne(&survey.Input{Message: "Notes (optional):"}, &notes)
	return strings.TrimSpace(notes), err
}

func askNumber(msg, def string, min, max float64) (float64, error) {
	var raw string
	prompt := &survey.Input{Message: msg, Default: def}
	err := survey.AskOne(prompt, &raw, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(val.(string))
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("enter a number")
		}
		if v < min || v > max {
			return fmt.Errorf("value must be between %g and %g", min, max)
		}
		return nil
	}))
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

// LoadRequestFile reads a YAML (or JSON) evaluation request for
// non-interactive runs.
func LoadRequestFile(path string) (types.EvaluationRequest, error) {
	var req types.EvaluationRequest
	b, err := os.ReadFile(path)
	if err != nil {
		return req, err
	}
	if err := yaml.Unmarshal(b, &req); err != nil {
		return req, fmt.Errorf("parse answers file %s: %w", path, err)
	}
	if req.Answers == nil {
		req.Answers = types.Answers{}
	}
	return req, nil
}
