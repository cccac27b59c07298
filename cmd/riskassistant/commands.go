package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trading-risk-assistant/internal/api"
	"trading-risk-assistant/internal/cli"
	"trading-risk-assistant/internal/engine"
	"trading-risk-assistant/internal/logger"
	"trading-risk-assistant/internal/scheduler"
	"trading-risk-assistant/internal/server"
	"trading-risk-assistant/internal/store"
	"trading-risk-assistant/internal/trace"
	"trading-risk-assistant/internal/types"
)

func newRootCmd() *cobra.Command {
	var cfgFlag string

	rootCmd := &cobra.Command{
		Use:   "riskassistant",
		Short: "Go/no-go decisions for discretionary trades",
		Long: `riskassistant checks hard stops and scores a pre-trade questionnaire to decide
whether to trade and at which risk tier, and sizes the position.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeSystem()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return trace.Shutdown(ctx)
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgFlag, "config", "", "Rules file (default $RISK_CONFIG or config.yaml)")

	path := func() string { return configPath(cfgFlag) }
	rootCmd.AddCommand(newEvaluateCmd(path))
	rootCmd.AddCommand(newServeCmd(path))
	rootCmd.AddCommand(newJournalCmd(path))
	rootCmd.AddCommand(newCoachCmd(path))
	rootCmd.AddCommand(newConfigCmd(path))
	rootCmd.AddCommand(newQuestionsCmd(path))
	return rootCmd
}

func newEvaluateCmd(path func() string) *cobra.Command {
	var answersFile, remote, notes string
	var save bool

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run the pre-trade checklist and print the decision",
		Example: `  riskassistant evaluate
  riskassistant evaluate --answers session.yaml --save --notes "London open"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var rules *store.Manager
			var err error
			// A remote evaluation with an answers file needs no local rules.
			if remote == "" || answersFile == "" {
				if rules, err = loadRules(ctx, path()); err != nil {
					return err
				}
			}

			var req types.EvaluationRequest
			interactive := answersFile == ""
			if interactive {
				if req, err = promptRequest(rules.Current()); err != nil {
					return err
				}
			} else if req, err = cli.LoadRequestFile(answersFile); err != nil {
				return err
			}

			if remote != "" {
				// The service journals on our behalf.
				client := api.NewClient(remote, api.WithLogging(true))
				d, err := client.EvaluateAndSave(ctx, api.EvaluateRequest{
					Answers: req.Answers, Stats: req.Stats, Trade: req.Trade, Save: save, Notes: notes,
				})
				if err != nil {
					return err
				}
				fmt.Println(cli.FormatDecision(d))
				return nil
			}

			evaluator := initializeEngine(rules)
			d, err := evaluator.Evaluate(ctx, req)
			if err != nil {
				return explainEvalError(err)
			}
			fmt.Println(cli.FormatDecision(d))

			if !save && interactive {
				if save, err = cli.PromptConfirm("Save this decision to the journal?", true); err != nil {
					return err
				}
				if save && notes == "" {
					if notes, err = cli.PromptNotes(); err != nil {
						return err
					}
				}
			}
			if !save {
				return nil
			}
			j := initializeJournal()
			if err := j.Append(ctx, types.JournalEntry{Decision: d, Notes: notes}); err != nil {
				logger.ErrorWithErr(ctx, "Failed to save decision", err, "decision_id", d.ID)
				return err
			}
			fmt.Println("Saved to journal:", d.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&answersFile, "answers", "", "YAML/JSON file with answers, stats and optional trade; skips prompts")
	cmd.Flags().BoolVar(&save, "save", false, "Journal the decision without asking")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes stored with the journal entry")
	cmd.Flags().StringVar(&remote, "remote", "", "Evaluate against a running service, e.g. http://localhost:8080")
	return cmd
}

func promptRequest(cfg *store.Config) (types.EvaluationRequest, error) {
	var req types.EvaluationRequest
	var err error
	if req.Stats, err = cli.PromptStats(); err != nil {
		return req, err
	}
	if req.Answers, err = cli.PromptAnswers(cfg); err != nil {
		return req, err
	}
	if req.Trade, err = cli.PromptTrade(cfg); err != nil {
		return req, err
	}
	return req, nil
}

func explainEvalError(err error) error {
	var missing *engine.MissingAnswerError
	var invalid *engine.InvalidAnswerError
	var stats *engine.InvalidStatsError
	switch {
	case errors.As(err, &missing):
		return fmt.Errorf("question %q has no answer: %w", missing.QuestionID, err)
	case errors.As(err, &invalid):
		return fmt.Errorf("question %q: %s: %w", invalid.QuestionID, invalid.Reason, err)
	case errors.As(err, &stats):
		return fmt.Errorf("trading stats %s: %s: %w", stats.Field, stats.Reason, err)
	}
	return err
}

func newServeCmd(path func() string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with config hot reload and scheduled jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			zl := initializeZap()
			defer func() { _ = zl.Sync() }()

			rules, err := loadRules(ctx, path())
			if err != nil {
				return err
			}
			if err := rules.Watch(ctx, func(*store.Config) {
				zl.Info("rules reloaded", zap.String("path", rules.Path()))
			}); err != nil {
				zl.Warn("config watch disabled", zap.Error(err))
			}

			j := initializeJournal()
			compressOldLogs(ctx, j)
			summarizer := initializeEOD(j)

			cronRunner := scheduler.New(zl, ctx)
			if _, err := cronRunner.Add(scheduler.RetentionSpec, scheduler.RetentionJob(j, retentionDays(), zl)); err != nil {
				zl.Warn("cron register retention failed", zap.Error(err))
			}
			if _, err := cronRunner.Add(scheduler.EODCheckSpec, scheduler.EODJob(summarizer, zl)); err != nil {
				zl.Warn("cron register eod failed", zap.Error(err))
			}
			cronRunner.Start()
			defer cronRunner.Stop()

			router := server.NewRouter(server.Deps{
				Rules:     rules,
				Evaluator: initializeEngine(rules),
				Journal:   j,
				Coach:     initializeCoach(j, rules),
				Logger:    zl,
			})
			return server.Run(ctx, httpAddr(addr), router, zl)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default $RISK_HTTP_ADDR or :8080)")
	return cmd
}

func newJournalCmd(path func() string) *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the decision journal",
	}

	var limit int
	recentCmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the latest journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := initializeJournal().Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatEntries(entries))
			return nil
		},
	}
	recentCmd.Flags().IntVar(&limit, "limit", 10, "Number of entries")

	var days int
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize the last N days",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initializeJournal().Summary(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSummary(s))
			return nil
		},
	}
	summaryCmd.Flags().IntVar(&days, "days", 7, "Window in days")

	var date string
	eodCmd := &cobra.Command{
		Use:   "eod",
		Short: "Write the end-of-day CSV for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if date != "" {
				var err error
				if day, err = time.ParseInLocation("2006-01-02", date, time.Local); err != nil {
					return fmt.Errorf("invalid --date, use YYYY-MM-DD: %w", err)
				}
			}
			p, err := initializeEOD(initializeJournal()).SummarizeDay(day)
			if err != nil {
				return err
			}
			if p == "" {
				fmt.Println("No decisions journalled on", day.Format("2006-01-02"))
				return nil
			}
			fmt.Println("EOD CSV written:", p)
			return nil
		},
	}
	eodCmd.Flags().StringVar(&date, "date", "", "Day to summarize, YYYY-MM-DD (default today)")

	journalCmd.AddCommand(recentCmd, summaryCmd, eodCmd)
	return journalCmd
}

func newCoachCmd(path func() string) *cobra.Command {
	var weekly bool
	cmd := &cobra.Command{
		Use:   "coach",
		Short: "Show coaching insights from your recent sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rules, err := loadRules(ctx, path())
			if err != nil {
				return err
			}
			c := initializeCoach(initializeJournal(), rules)
			if weekly {
				report, err := c.WeeklyReport(ctx)
				if err != nil {
					return err
				}
				fmt.Print(report)
				return nil
			}
			ins, err := c.Insights(ctx)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatInsights(ins))
			return nil
		},
	}
	cmd.Flags().BoolVar(&weekly, "weekly", false, "Print the weekly report")
	return cmd
}

func newConfigCmd(path func() string) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Load and validate the rules file",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := path()
			cfg, err := store.LoadConfig(p)
			if err != nil {
				return err
			}
			n := 0
			for _, qs := range cfg.Questions {
				n += len(qs)
			}
			fmt.Printf("%s is valid: %d questions, thresholds %g/%g/%g\n", p, n,
				cfg.Scoring.Thresholds.NoTrade, cfg.Scoring.Thresholds.Risk2Percent, cfg.Scoring.Thresholds.Risk3Percent)
			return nil
		},
	})
	return configCmd
}

func newQuestionsCmd(path func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List the configured questionnaire",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig(path())
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatQuestions(cfg))
			return nil
		},
	}
}
