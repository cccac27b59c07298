package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trading-risk-assistant/internal/api"
)

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, api.Response{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, api.Response{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}
