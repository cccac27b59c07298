package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trading-risk-assistant/internal/interfaces"
)

type CoachHandler struct {
	Coach interfaces.Coach
}

func (h *CoachHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/coach", h.insights)
}

func (h *CoachHandler) insights(c *gin.Context) {
	ins, err := h.Coach.Insights(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, ins, nil)
}
