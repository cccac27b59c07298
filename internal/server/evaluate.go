package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trading-risk-assistant/internal/api"
	"trading-risk-assistant/internal/engine"
	"trading-risk-assistant/internal/interfaces"
	"trading-risk-assistant/internal/logger"
	"trading-risk-assistant/internal/types"
)

type EvaluateHandler struct {
	Evaluator interfaces.Evaluator
	Journal   interfaces.Journal
}

func (h *EvaluateHandler) Register(r *gin.Engine) {
	r.POST("/api/v1/evaluate", h.evaluate)
}

func (h *EvaluateHandler) evaluate(c *gin.Context) {
	var body api.EvaluateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	if body.Answers == nil {
		body.Answers = types.Answers{}
	}

	ctx := c.Request.Context()
	d, err := h.Evaluator.Evaluate(ctx, body.EvaluationRequest())
	if err != nil {
		if badEvaluationInput(err) {
			Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	meta := map[string]any{"saved": false}
	if body.Save && h.Journal != nil {
		entry := types.JournalEntry{Decision: d, Notes: strings.TrimSpace(body.Notes)}
		if err := h.Journal.Append(ctx, entry); err != nil {
			// The decision stands even when it could not be journalled.
			logger.ErrorWithErr(ctx, "Failed to journal decision", err, "decision_id", d.ID)
			meta["journal_error"] = err.Error()
		} else {
			meta["saved"] = true
		}
	}
	Ok(c, d, meta)
}

func badEvaluationInput(err error) bool {
	return errors.Is(err, engine.ErrMissingAnswer) ||
		errors.Is(err, engine.ErrInvalidAnswer) ||
		errors.Is(err, engine.ErrInvalidStats)
}
