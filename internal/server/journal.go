package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"trading-risk-assistant/internal/interfaces"
	"trading-risk-assistant/internal/types"
)

// JournalReader is the journal plus its summary statistics.
type JournalReader interface {
	interfaces.Journal
	Summary(ctx context.Context, days int) (types.JournalSummary, error)
}

type JournalHandler struct {
	Journal JournalReader
}

func (h *JournalHandler) Register(r *gin.Engine) {
	g := r.Group("/api/v1/journal")
	g.GET("", h.list)
	g.GET("/summary", h.summary)
}

func (h *JournalHandler) list(c *gin.Context) {
	limit := intQuery(c, "limit", 20)
	if limit <= 0 || limit > 1000 {
		Error(c, http.StatusBadRequest, "limit must be between 1 and 1000", nil)
		return
	}
	entries, err := h.Journal.Recent(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, entries, map[string]any{"count": len(entries)})
}

func (h *JournalHandler) summary(c *gin.Context) {
	days := intQuery(c, "days", 7)
	if days <= 0 || days > 3650 {
		Error(c, http.StatusBadRequest, "days must be between 1 and 3650", nil)
		return
	}
	s, err := h.Journal.Summary(c.Request.Context(), days)
	if err != nil {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, s, nil)
}
