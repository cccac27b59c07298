package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trading-risk-assistant/internal/interfaces"
)

type HealthHandler struct {
	Rules interfaces.RulesProvider
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
}

func (h *HealthHandler) health(c *gin.Context) {
	if h.Rules == nil || h.Rules.Current() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "rules_missing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
