package engine

import (
	"fmt"
	"math"

	"trading-risk-assistant/internal/store"
	"trading-risk-assistant/internal/types"
)

// normalizer checks a raw answer against its question and maps it onto [0,100].
type normalizer func(q store.Question, raw any) (float64, error)

// normalizers is the single place a question type is bound to its scoring
// rule. Adding a type means adding one entry here and one in store.Validate.
var normalizers = map[store.QuestionType]normalizer{
	store.QuestionBoolean: normalizeBoolean,
	store.QuestionScale:   normalizeScale,
	store.QuestionNumeric: normalizeNumeric,
}

func normalizeAnswer(q store.Question, raw any) (float64, error) {
	fn, ok := normalizers[q.Type]
	if !ok {
		return 0, &InvalidAnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("unsupported question type %q", q.Type)}
	}
	return fn(q, raw)
}

func normalizeBoolean(q store.Question, raw any) (float64, error) {
	b, ok := raw.(bool)
	if !ok {
		return 0, &InvalidAnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("expected boolean, got %T", raw)}
	}
	if b != q.ReverseScore {
		return 100, nil
	}
	return 0, nil
}

func normalizeScale(q store.Question, raw any) (float64, error) {
	v, err := boundedNumber(q, raw)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, &InvalidAnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("scale answer must be a whole number, got %g", v)}
	}
	return linear(v, q.Min, q.Max), nil
}

func normalizeNumeric(q store.Question, raw any) (float64, error) {
	v, err := boundedNumber(q, raw)
	if err != nil {
		return 0, err
	}
	return linear(v, q.Min, q.Max), nil
}

func boundedNumber(q store.Question, raw any) (float64, error) {
	v, ok := types.Number(raw)
	if !ok {
		return 0, &InvalidAnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("expected number, got %T", raw)}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &InvalidAnswerError{QuestionID: q.ID, Reason: "number is not finite"}
	}
	if v < q.Min || v > q.Max {
		return 0, &InvalidAnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("%g is outside [%g, %g]", v, q.Min, q.Max)}
	}
	return v, nil
}

func linear(v, min, max float64) float64 {
	return clamp((v-min)/(max-min)*100, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
