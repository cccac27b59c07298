package api

import (
	"encoding/json"
	"fmt"

	"trading-risk-assistant/internal/types"
)

// EvaluateRequest is the body of POST /api/v1/evaluate.
type EvaluateRequest struct {
	Answers types.Answers      `json:"answers"`
	Stats   types.Stats        `json:"stats"`
	Trade   *types.TradeInputs `json:"trade,omitempty"`
	Save    bool               `json:"save,omitempty"`
	Notes   string             `json:"notes,omitempty"`
}

func (r EvaluateRequest) EvaluationRequest() types.EvaluationRequest {
	return types.EvaluationRequest{
		Answers: r.Answers,
		Stats:   r.Stats,
		Trade:   r.Trade,
	}
}

// Response is the envelope every endpoint answers with. Code is 0 on success
// and the HTTP status otherwise.
type Response struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

type rawResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Meta    map[string]any  `json:"meta,omitempty"`
}

// StatusError is returned by the client for any non-2xx answer.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}
