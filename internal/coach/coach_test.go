package coach

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-risk-assistant/internal/store"
	"trading-risk-assistant/internal/types"
)

type fakeHistory struct {
	entries   []types.JournalEntry
	sinceDays int
	hasTrade  bool
	summary   types.JournalSummary
}

func (f *fakeHistory) Recent(_ context.Context, n int) ([]types.JournalEntry, error) {
	if len(f.entries) <= n {
		return f.entries, nil
	}
	return f.entries[len(f.entries)-n:], nil
}

func (f *fakeHistory) DaysSinceLastTrade(context.Context) (int, bool, error) {
	return f.sinceDays, f.hasTrade, nil
}

func (f *fakeHistory) Summary(context.Context, int) (types.JournalSummary, error) {
	return f.summary, nil
}

func rules(messages ...string) *store.Manager {
	return store.Static(&store.Config{Coach: store.Coach{
		DaysInactiveWarning:  3,
		MotivationalMessages: messages,
	}})
}

func firstPick(int) int { return 0 }

func newCoach(h History, r *store.Manager) *Coach {
	return New(h, r, WithRand(firstPick), WithClock(func() time.Time { return time.Unix(0, 0) }))
}

func session(score float64, tier types.RiskTier, mental, emotional float64, stopped bool) types.JournalEntry {
	d := types.Decision{
		FinalScore:         score,
		RiskTier:           tier,
		ShouldTrade:        tier != types.TierNoTrade && !stopped,
		HardStopViolations: []string{},
		Inputs: types.InputSnapshot{Answers: types.Answers{
			"mental_state":      mental,
			"emotional_control": emotional,
		}},
	}
	if stopped {
		d.HardStopViolations = []string{"max_consecutive_losses"}
		d.RiskTier = types.TierNoTrade
	}
	return types.JournalEntry{Decision: d}
}

func repeat(n int, e types.JournalEntry) []types.JournalEntry {
	out := make([]types.JournalEntry, n)
	for i := range out {
		out[i] = e
	}
	return out
}

func TestInsightsEmptyHistory(t *testing.T) {
	ins, err := newCoach(&fakeHistory{}, rules()).Insights(context.Background())
	require.NoError(t, err)
	assert.False(t, ins.Any())
	assert.Equal(t, motivations[0], ins.DailyMotivation)
	assert.Equal(t, time.Unix(0, 0), ins.GeneratedAt)
}

func TestInactivityWarning(t *testing.T) {
	h := &fakeHistory{sinceDays: 5, hasTrade: true}
	ins, err := newCoach(h, rules("Away for {days} days")).Insights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Away for 5 days", ins.InactivityWarning)

	h.sinceDays = 2
	ins, err = newCoach(h, rules("Away for {days} days")).Insights(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ins.InactivityWarning)

	h.sinceDays = 4
	ins, err = newCoach(h, rules()).Insights(context.Background())
	require.NoError(t, err)
	assert.Contains(t, ins.InactivityWarning, "4 days")
}

func TestPsychologyInsight(t *testing.T) {
	ids := []string{"mental_state", "emotional_control"}

	low := repeat(3, session(60, types.TierRisk2, 2, 3, false))
	assert.Contains(t, psychologyInsight(low, ids), "low")

	uneven := repeat(4, session(60, types.TierRisk2, 3, 3.5, false))
	assert.Contains(t, psychologyInsight(uneven, ids), "uneven")

	fine := repeat(5, session(60, types.TierRisk2, 4, 4, false))
	assert.Empty(t, psychologyInsight(fine, ids))

	assert.Empty(t, psychologyInsight(low[:2], ids), "needs three entries")
	assert.Empty(t, psychologyInsight(low, nil), "no psychology questions")
}

func TestInsightsPsychologyFollowsRules(t *testing.T) {
	cfg := &store.Config{
		Coach: store.Coach{DaysInactiveWarning: 3},
		Questions: map[string][]store.Question{
			types.CategoryPsychology: {
				{ID: "focus", Type: store.QuestionScale, Min: 1, Max: 5},
				{ID: "sleep_hours", Type: store.QuestionNumeric, Min: 0, Max: 9},
				{ID: "revenge_trading", Type: store.QuestionBoolean},
			},
		},
	}
	entry := types.JournalEntry{Decision: types.Decision{
		HardStopViolations: []string{},
		Inputs: types.InputSnapshot{Answers: types.Answers{
			"focus":        int64(2),
			"mental_state": 5,
			"sleep_hours":  9,
		}},
	}}
	h := &fakeHistory{entries: repeat(3, entry)}

	ins, err := newCoach(h, store.Static(cfg)).Insights(context.Background())
	require.NoError(t, err)
	assert.Contains(t, ins.Psychology, "low")

	ins, err = newCoach(h, rules()).Insights(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ins.Psychology)
}

func TestRiskTakingInsight(t *testing.T) {
	aggressive := repeat(5, session(85, types.TierRisk3, 4, 4, false))
	assert.Contains(t, riskTakingInsight(aggressive), "3% tier")

	conservative := repeat(6, session(60, types.TierRisk2, 4, 4, false))
	assert.Contains(t, riskTakingInsight(conservative), "conservative")

	mixed := append(repeat(3, session(85, types.TierRisk3, 4, 4, false)), repeat(3, session(60, types.TierRisk2, 4, 4, false))...)
	assert.Empty(t, riskTakingInsight(mixed))

	assert.Empty(t, riskTakingInsight(aggressive[:4]))
}

func TestRiskTakingUsesTradedEntriesOnly(t *testing.T) {
	entries := append(repeat(10, session(20, types.TierNoTrade, 4, 4, false)), repeat(5, session(85, types.TierRisk3, 4, 4, false))...)
	ins, err := newCoach(&fakeHistory{entries: entries}, rules()).Insights(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, ins.RiskTaking)
}

func TestScoreTrendInsight(t *testing.T) {
	var falling []types.JournalEntry
	for _, s := range []float64{90, 88, 86, 70, 60, 55} {
		falling = append(falling, session(s, types.TierRisk2, 4, 4, false))
	}
	assert.Contains(t, scoreTrendInsight(falling), "dropping")

	var rising []types.JournalEntry
	for _, s := range []float64{50, 52, 55, 70, 75, 80} {
		rising = append(rising, session(s, types.TierRisk2, 4, 4, false))
	}
	assert.Contains(t, scoreTrendInsight(rising), "improving")

	flat := repeat(6, session(70, types.TierRisk3, 4, 4, false))
	assert.Empty(t, scoreTrendInsight(flat))
}

func TestHardStopInsight(t *testing.T) {
	entries := append(repeat(6, session(70, types.TierRisk3, 4, 4, false)), repeat(4, session(0, types.TierNoTrade, 4, 4, true))...)
	assert.NotEmpty(t, hardStopInsight(entries))

	entries = append(repeat(7, session(70, types.TierRisk3, 4, 4, false)), repeat(3, session(0, types.TierNoTrade, 4, 4, true))...)
	assert.Empty(t, hardStopInsight(entries), "exactly 30% is not flagged")
}

func TestWeeklyReport(t *testing.T) {
	h := &fakeHistory{
		entries: repeat(5, session(85, types.TierRisk3, 4, 4, false)),
		summary: types.JournalSummary{Days: 7, TotalSessions: 5, TradesTaken: 5, AvgScore: 85, TradeRate: 100, Risk3Count: 5},
	}
	report, err := newCoach(h, rules()).WeeklyReport(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(report, "WEEKLY REPORT"))
	assert.Contains(t, report, "Sessions completed: 5")
	assert.Contains(t, report, "Average score: 85.0/100")
	assert.Contains(t, report, "3% risk: 5")
	assert.Contains(t, report, "3% tier")
	assert.Contains(t, report, motivations[0])
}
