package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"trading-risk-assistant/internal/store"
	"trading-risk-assistant/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	categoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6B7280")).
			Padding(0, 1)

	goStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	noGoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

var tierLabels = map[types.RiskTier]string{
	types.TierNoTrade: "NO TRADE",
	types.TierRisk2:   "RISK 2%",
	types.TierRisk3:   "RISK 3%",
}

func categoryTitle(cat string) string {
	return strings.ToUpper(strings.ReplaceAll(cat, "_", " "))
}

func line(label, value string) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(label+":"), value)
}

// FormatDecision renders every field of a Decision for the terminal.
func FormatDecision(d types.Decision) string {
	var b strings.Builder

	verdict := noGoStyle.Render("NO-GO: do not trade")
	if d.ShouldTrade {
		verdict = goStyle.Render("GO: trade allowed")
	}
	b.WriteString(titleStyle.Render("TRADING DECISION") + "\n")
	b.WriteString(line("Decision", verdict) + "\n")
	b.WriteString(line("ID", d.ID) + "\n")
	b.WriteString(line("Created", d.CreatedAt.Format(time.RFC3339)) + "\n")

	if d.HardStopped() {
		b.WriteString("\n" + noGoStyle.Render("Hard stops violated:") + "\n")
		for _, v := range d.HardStopViolations {
			b.WriteString("  - " + v + "\n")
		}
	} else {
		b.WriteString(line("Hard stops", "none") + "\n")
	}

	b.WriteString("\n" + categoryStyle.Render("Category scores") + "\n")
	if len(d.CategoryScores) == 0 {
		b.WriteString(mutedStyle.Render("  not scored") + "\n")
	}
	for _, cat := range types.Categories {
		if s, ok := d.CategoryScores[cat]; ok {
			fmt.Fprintf(&b, "  %-22s %6.2f/100\n", cat, s)
		}
	}

	if len(d.QuestionScores) > 0 {
		b.WriteString("\n" + categoryStyle.Render("Question breakdown") + "\n")
		for _, qs := range d.QuestionScores {
			fmt.Fprintf(&b, "  %-20s %-8v score %6.2f  weight %.2f\n", qs.QuestionID, qs.Answer, qs.Score, qs.Weight)
		}
	}

	b.WriteString("\n")
	b.WriteString(line("Final score", fmt.Sprintf("%.2f/100", d.FinalScore)) + "\n")
	b.WriteString(line("Risk tier", fmt.Sprintf("%s (%s)", tierLabels[d.RiskTier], d.RiskTier)) + "\n")
	b.WriteString(line("Risk percent", fmt.Sprintf("%g%%", d.RiskPercent)) + "\n")
	if d.LotSize != nil {
		b.WriteString(line("Lot size", fmt.Sprintf("%.2f", *d.LotSize)) + "\n")
	} else {
		b.WriteString(line("Lot size", mutedStyle.Render("n/a")) + "\n")
	}

	for _, w := range d.Warnings {
		b.WriteString(warnStyle.Render("warning: "+w) + "\n")
	}

	b.WriteString("\n" + categoryStyle.Render("Inputs") + "\n")
	fmt.Fprintf(&b, "  consecutive_losses   %d\n", d.Inputs.Stats.ConsecutiveLosses)
	fmt.Fprintf(&b, "  daily_loss_percent   %g\n", d.Inputs.Stats.DailyLossPercent)
	if t := d.Inputs.Trade; t != nil {
		fmt.Fprintf(&b, "  balance              %g\n", t.Balance)
		fmt.Fprintf(&b, "  sl_pips              %g\n", t.SLPips)
		fmt.Fprintf(&b, "  pair                 %s\n", t.Pair)
	}
	ids := make([]string, 0, len(d.Inputs.Answers))
	for id := range d.Inputs.Answers {
		ids = append(ids, id)
	}
	for _, id := range sortedStrings(ids) {
		fmt.Fprintf(&b, "  %-20s %v\n", id, d.Inputs.Answers[id])
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// FormatQuestions lists the configured questionnaire.
func FormatQuestions(cfg *store.Config) string {
	var b strings.Builder
	for _, cat := range types.Categories {
		fmt.Fprintf(&b, "%s (weight %g)\n", categoryStyle.Render(categoryTitle(cat)), cfg.Scoring.Weights.For(cat))
		for _, q := range cfg.Questions[cat] {
			kind := string(q.Type)
			if q.Type != store.QuestionBoolean {
				kind = fmt.Sprintf("%s %g-%g", q.Type, q.Min, q.Max)
			} else if q.ReverseScore {
				kind += ", reversed"
			}
			fmt.Fprintf(&b, "  %-20s %-16s w=%.2f  %s\n", q.ID, kind, q.Weight, q.Question)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatSummary(s types.JournalSummary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("LAST %d DAYS", s.Days)) + "\n")
	b.WriteString(line("Sessions", fmt.Sprint(s.TotalSessions)) + "\n")
	b.WriteString(line("Trades taken", fmt.Sprint(s.TradesTaken)) + "\n")
	b.WriteString(line("Hard-stop sessions", fmt.Sprint(s.HardStopSessions)) + "\n")
	b.WriteString(line("Average score", fmt.Sprintf("%.1f/100", s.AvgScore)) + "\n")
	b.WriteString(line("Trade rate", fmt.Sprintf("%.1f%%", s.TradeRate)) + "\n")
	b.WriteString(line("2% risk", fmt.Sprint(s.Risk2Count)) + "\n")
	b.WriteString(line("3% risk", fmt.Sprint(s.Risk3Count)))
	return boxStyle.Render(b.String())
}

func FormatEntries(entries []types.JournalEntry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("No journal entries yet.")
	}
	var b strings.Builder
	for _, e := range entries {
		d := e.Decision
		mark := noGoStyle.Render("NO-GO")
		if d.ShouldTrade {
			mark = goStyle.Render("GO   ")
		}
		fmt.Fprintf(&b, "%s  %s  %6.2f  %-15s", d.CreatedAt.Format("2006-01-02 15:04"), mark, d.FinalScore, d.RiskTier)
		if d.HardStopped() {
			fmt.Fprintf(&b, "  stops=%s", strings.Join(d.HardStopViolations, ","))
		}
		if e.Notes != "" {
			fmt.Fprintf(&b, "  %s", mutedStyle.Render(e.Notes))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatInsights(ins types.Insights) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("COACH") + "\n")
	b.WriteString(ins.DailyMotivation + "\n")
	for _, s := range []string{ins.InactivityWarning, ins.Psychology, ins.RiskTaking, ins.ScoreTrend, ins.HardStops} {
		if s != "" {
			b.WriteString("\n" + warnStyle.Render(s) + "\n")
		}
	}
	if !ins.Any() {
		b.WriteString("\n" + goStyle.Render("Everything looks fine. Keep following your process.") + "\n")
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func sortedStrings(s []string) []string {
	sort.Strings(s)
	return s
}
