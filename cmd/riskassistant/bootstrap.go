package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"trading-risk-assistant/internal/coach"
	"trading-risk-assistant/internal/engine"
	"trading-risk-assistant/internal/engine/engineobs"
	"trading-risk-assistant/internal/eod"
	"trading-risk-assistant/internal/eod/eodobs"
	"trading-risk-assistant/internal/interfaces"
	"trading-risk-assistant/internal/journal"
	"trading-risk-assistant/internal/logger"
	"trading-risk-assistant/internal/store"
	"trading-risk-assistant/internal/trace"
)

// initializeSystem loads .env and sets up logging and tracing.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		trace.Version = bi.Main.Version
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func configPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("RISK_CONFIG"); v != "" {
		return v
	}
	return "config.yaml"
}

func loadRules(ctx context.Context, path string) (*store.Manager, error) {
	rules, err := store.NewManager(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return rules, nil
}

// initializeEngine returns the decision engine wrapped with observability.
func initializeEngine(rules interfaces.RulesProvider) interfaces.Evaluator {
	return engineobs.Wrap(engine.New(rules))
}

func initializeJournal() *journal.Journal {
	return journal.New(journal.Dir())
}

func initializeCoach(j *journal.Journal, rules interfaces.RulesProvider) *coach.Coach {
	return coach.New(j, rules)
}

func initializeEOD(j *journal.Journal) interfaces.EodSummarizer {
	return eodobs.Wrap(eod.NewSummarizer(j))
}

func retentionDays() int {
	v := os.Getenv("TRADER_LOG_RETENTION_DAYS")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// compressOldLogs gzips old journal files if retention is configured.
func compressOldLogs(ctx context.Context, j *journal.Journal) {
	if n := retentionDays(); n > 0 {
		if err := j.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old journal files", "error", err)
		}
	}
}

func initializeZap() *zap.Logger {
	zl, err := logger.NewZap(logger.LoadConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize zap logger: %v\n", err)
		return zap.NewNop()
	}
	return zl
}

func httpAddr(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("RISK_HTTP_ADDR"); v != "" {
		return v
	}
	return ":8080"
}
