package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trading-risk-assistant/internal/interfaces"
	"trading-risk-assistant/internal/metrics"
)

type Deps struct {
	Rules     interfaces.RulesProvider
	Evaluator interfaces.Evaluator
	Journal   JournalReader
	Coach     interfaces.Coach
	Logger    *zap.Logger
}

// NewRouter wires every handler onto a fresh gin engine.
func NewRouter(d Deps) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	if d.Logger != nil {
		engine.Use(accessLog(d.Logger))
	}

	(&HealthHandler{Rules: d.Rules}).Register(engine)
	(&QuestionsHandler{Rules: d.Rules}).Register(engine)
	(&EvaluateHandler{Evaluator: d.Evaluator, Journal: d.Journal}).Register(engine)
	(&JournalHandler{Journal: d.Journal}).Register(engine)
	(&CoachHandler{Coach: d.Coach}).Register(engine)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	return engine
}

// Run serves h on addr until ctx is cancelled, then drains for up to 10s.
func Run(ctx context.Context, addr string, h http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("http server stopped")
	return nil
}
