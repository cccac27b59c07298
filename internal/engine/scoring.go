package engine

import (
	"trading-risk-assistant/internal/store"
	"trading-risk-assistant/internal/types"
)

// ScoreResult is the output of the score calculator.
type ScoreResult struct {
	CategoryScores map[string]float64
	QuestionScores []types.QuestionScore
	FinalScore     float64
}

// ValidateAnswers checks that every declared question has an answer of the
// declared type within bounds.
func ValidateAnswers(answers types.Answers, cfg *store.Config) error {
	_, err := ComputeScores(answers, cfg)
	return err
}

// ComputeScores normalizes each answer, sums the weighted answers of each
// category, then combines categories using the configured category weights
// (expressed out of 100). The first missing or malformed answer, in category
// and question order, aborts the computation.
func ComputeScores(answers types.Answers, cfg *store.Config) (ScoreResult, error) {
	res := ScoreResult{
		CategoryScores: make(map[string]float64, len(types.Categories)),
	}
	for _, cat := range types.Categories {
		var catScore float64
		for _, q := range cfg.Questions[cat] {
			raw, ok := answers[q.ID]
			if !ok || raw == nil {
				return ScoreResult{}, &MissingAnswerError{QuestionID: q.ID}
			}
			score, err := normalizeAnswer(q, raw)
			if err != nil {
				return ScoreResult{}, err
			}
			catScore += score * q.Weight
			res.QuestionScores = append(res.QuestionScores, types.QuestionScore{
				QuestionID: q.ID,
				Category:   cat,
				Question:   q.Question,
				Answer:     raw,
				Weight:     q.Weight,
				Score:      score,
			})
		}
		res.CategoryScores[cat] = clamp(catScore, 0, 100)
	}
	res.FinalScore = FinalScore(res.CategoryScores, cfg.Scoring.Weights)
	return res, nil
}

// FinalScore combines category scores with weights that sum to 100.
func FinalScore(categoryScores map[string]float64, weights store.Weights) float64 {
	var final float64
	for _, cat := range types.Categories {
		final += categoryScores[cat] * weights.For(cat) / 100
	}
	return clamp(final, 0, 100)
}
