package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trading-risk-assistant/internal/interfaces"
	"trading-risk-assistant/internal/types"
)

type QuestionsHandler struct {
	Rules interfaces.RulesProvider
}

func (h *QuestionsHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/questions", h.list)
}

func (h *QuestionsHandler) list(c *gin.Context) {
	cfg := h.Rules.Current()
	if cfg == nil {
		Error(c, http.StatusServiceUnavailable, "rules unavailable", nil)
		return
	}
	Ok(c, cfg.Questions, map[string]any{
		"categories": types.Categories,
		"weights":    cfg.Scoring.Weights,
		"thresholds": cfg.Scoring.Thresholds,
	})
}
