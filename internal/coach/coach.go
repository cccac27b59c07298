package coach

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"trading-risk-assistant/internal/interfaces"
	"trading-risk-assistant/internal/logger"
	"trading-risk-assistant/internal/types"
)

// History is the journal view the coach reads from.
type History interface {
	Recent(ctx context.Context, n int) ([]types.JournalEntry, error)
	DaysSinceLastTrade(ctx context.Context) (days int, ok bool, err error)
	Summary(ctx context.Context, days int) (types.JournalSummary, error)
}

const (
	psychologyWindow = 7
	psychologyMin    = 3
	patternWindow    = 10
	patternMin       = 5
	// entries scanned to find the latest traded decisions
	tradedScan = 200
)

var motivations = []string{
	"Consistency beats talent every time.",
	"One day at a time. Every decision counts.",
	"You do not need to trade every day. You need to trade well.",
	"Your best trade is the one you skip when the conditions are not there.",
	"Trading is a marathon, not a sprint.",
	"Every session is a chance to learn.",
	"Trust your process. Results follow.",
	"Patience is the most profitable skill in trading.",
}

type Coach struct {
	history History
	rules   interfaces.RulesProvider
	intn    func(n int) int
	now     func() time.Time
}

var _ interfaces.Coach = (*Coach)(nil)

type Option func(*Coach)

// WithRand replaces the random source used to pick messages.
func WithRand(intn func(n int) int) Option {
	return func(c *Coach) {
		c.intn = intn
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Coach) {
		c.now = now
	}
}

func New(history History, rules interfaces.RulesProvider, opts ...Option) *Coach {
	c := &Coach{
		history: history,
		rules:   rules,
		intn:    rand.Intn,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Insights runs every pattern check over the journal.
func (c *Coach) Insights(ctx context.Context) (types.Insights, error) {
	recent, err := c.history.Recent(ctx, tradedScan)
	if err != nil {
		return types.Insights{}, fmt.Errorf("load journal: %w", err)
	}

	ins := types.Insights{
		Psychology:      psychologyInsight(lastN(recent, psychologyWindow), c.psychologyQuestions()),
		RiskTaking:      riskTakingInsight(lastN(traded(recent), patternWindow)),
		ScoreTrend:      scoreTrendInsight(lastN(recent, patternWindow)),
		HardStops:       hardStopInsight(lastN(recent, patternWindow)),
		DailyMotivation: motivations[c.intn(len(motivations))],
		GeneratedAt:     c.now(),
	}

	ins.InactivityWarning, err = c.inactivityWarning(ctx)
	if err != nil {
		return types.Insights{}, err
	}

	logger.Debug(ctx, "Coach insights generated", "entries", len(recent), "any", ins.Any())
	return ins, nil
}

func (c *Coach) inactivityWarning(ctx context.Context) (string, error) {
	days, ok, err := c.history.DaysSinceLastTrade(ctx)
	if err != nil {
		return "", fmt.Errorf("days since last trade: %w", err)
	}
	if !ok {
		return "", nil
	}

	cfg := c.rules.Current()
	if cfg == nil || days < cfg.Coach.DaysInactiveWarning {
		return "", nil
	}
	msgs := cfg.Coach.MotivationalMessages
	if len(msgs) == 0 {
		return fmt.Sprintf("You have not traded for %d days. How about reviewing the market?", days), nil
	}
	msg := msgs[c.intn(len(msgs))]
	return strings.ReplaceAll(msg, "{days}", strconv.Itoa(days)), nil
}

// psychologyQuestions lists the psychology scale questions of the current rules.
func (c *Coach) psychologyQuestions() []string {
	cfg := c.rules.Current()
	if cfg == nil {
		return nil
	}
	var ids []string
	for _, q := range cfg.ScaleQuestions(types.CategoryPsychology) {
		ids = append(ids, q.ID)
	}
	return ids
}

func psychologyInsight(entries []types.JournalEntry, questions []string) string {
	if len(entries) < psychologyMin {
		return ""
	}
	var sum float64
	var n int
	for _, e := range entries {
		for _, id := range questions {
			if v, ok := types.Number(e.Decision.Inputs.Answers[id]); ok {
				sum += v
				n++
			}
		}
	}
	if n == 0 {
		return ""
	}
	switch avg := sum / float64(n); {
	case avg < 3:
		return "Your mental state has been low lately. Consider taking a break or talking to someone."
	case avg < 3.5:
		return "Your psychology has been uneven. A more consistent pre-trading routine may help."
	}
	return ""
}

func riskTakingInsight(entries []types.JournalEntry) string {
	if len(entries) < patternMin {
		return ""
	}
	var high int
	for _, e := range entries {
		if e.Decision.RiskTier == types.TierRisk3 {
			high++
		}
	}
	switch pct := float64(high) / float64(len(entries)) * 100; {
	case pct > 80:
		return "Most of your trades are at the 3% tier. Make sure the confluences are really there."
	case pct < 20:
		return "You have been very conservative lately. Strict criteria are good, but take the trade when conditions are right."
	}
	return ""
}

func scoreTrendInsight(entries []types.JournalEntry) string {
	if len(entries) < patternMin {
		return ""
	}
	oldAvg := avgScore(entries[:3])
	recentAvg := avgScore(entries[len(entries)-3:])
	switch {
	case recentAvg < oldAvg-10:
		return "Your scores are dropping. Something may be affecting your analysis; review your method or take a break."
	case recentAvg > oldAvg+10:
		return "Your scores are improving. Keep refining your process."
	}
	return ""
}

func hardStopInsight(entries []types.JournalEntry) string {
	if len(entries) < patternMin {
		return ""
	}
	var stopped int
	for _, e := range entries {
		if e.Decision.HardStopped() {
			stopped++
		}
	}
	if float64(stopped) > float64(len(entries))*0.3 {
		return "Hard stops are triggering often. The system is protecting you; work on the areas that keep stopping you."
	}
	return ""
}

// WeeklyReport renders the 7-day summary followed by the current insights.
func (c *Coach) WeeklyReport(ctx context.Context) (string, error) {
	s, err := c.history.Summary(ctx, 7)
	if err != nil {
		return "", err
	}
	ins, err := c.Insights(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("WEEKLY REPORT\n\n")
	b.WriteString("Summary:\n")
	fmt.Fprintf(&b, "  - Sessions completed: %d\n", s.TotalSessions)
	fmt.Fprintf(&b, "  - Trades taken: %d\n", s.TradesTaken)
	fmt.Fprintf(&b, "  - Average score: %.1f/100\n", s.AvgScore)
	fmt.Fprintf(&b, "  - Trade rate: %.1f%%\n", s.TradeRate)
	fmt.Fprintf(&b, "  - Hard-stop sessions: %d\n", s.HardStopSessions)
	b.WriteString("\nRisk distribution:\n")
	fmt.Fprintf(&b, "  - 2%% risk: %d\n", s.Risk2Count)
	fmt.Fprintf(&b, "  - 3%% risk: %d\n", s.Risk3Count)
	b.WriteString("\nCoach insights:\n")
	found := false
	for _, line := range []string{ins.Psychology, ins.RiskTaking, ins.ScoreTrend, ins.HardStops} {
		if line == "" {
			continue
		}
		found = true
		fmt.Fprintf(&b, "  - %s\n", line)
	}
	if !found {
		b.WriteString("  - Everything looks fine. Stay disciplined.\n")
	}
	fmt.Fprintf(&b, "\n%s\n", ins.DailyMotivation)
	return b.String(), nil
}

func lastN(entries []types.JournalEntry, n int) []types.JournalEntry {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}

func traded(entries []types.JournalEntry) []types.JournalEntry {
	var out []types.JournalEntry
	for _, e := range entries {
		if e.Decision.ShouldTrade {
			out = append(out, e)
		}
	}
	return out
}

func avgScore(entries []types.JournalEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var sum float64
	for _, e := range entries {
		sum += e.Decision.FinalScore
	}
	return sum / float64(len(entries))
}
