package eod

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"trading-risk-assistant/internal/types"
)

type eodSummarizer struct {
	journal      DayReader
	now          func() time.Time
	cutoffHour   int
	cutoffMinute int
}

var tierOrder = []types.RiskTier{types.TierNoTrade, types.TierRisk2, types.TierRisk3}

// SummarizeDay writes the day's per-tier CSV. It returns an empty path and no
// error when nothing was journalled that day.
func (s *eodSummarizer) SummarizeDay(t time.Time) (string, error) {
	entries, err := s.journal.Day(t)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", nil
	}

	rows := map[types.RiskTier]*tierRow{}
	for _, tier := range tierOrder {
		rows[tier] = &tierRow{Tier: tier}
	}
	for _, e := range entries {
		d := e.Decision
		row := rows[d.RiskTier]
		if row == nil {
			continue
		}
		row.Count++
		row.ScoreSum += d.FinalScore
		if d.HardStopped() {
			row.HardStops++
		}
		if d.LotSize != nil {
			row.SizedCount++
			row.TotalLots += *d.LotSize
		}
	}

	outPath := eodCSVPath(s.journal.Root(), t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	headers := []string{"risk_tier", "count", "avg_score", "hard_stops", "sized", "total_lots"}
	if err := w.Write(headers); err != nil {
		return "", err
	}
	total := tierRow{}
	for _, tier := range tierOrder {
		r := rows[tier]
		rec := []string{
			string(r.Tier),
			strconv.Itoa(r.Count),
			fmt.Sprintf("%.2f", r.avgScore()),
			strconv.Itoa(r.HardStops),
			strconv.Itoa(r.SizedCount),
			fmt.Sprintf("%.2f", r.TotalLots),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
		total.Count += r.Count
		total.ScoreSum += r.ScoreSum
		total.HardStops += r.HardStops
		total.SizedCount += r.SizedCount
		total.TotalLots += r.TotalLots
	}
	if err := w.Write([]string{
		"TOTAL",
		strconv.Itoa(total.Count),
		fmt.Sprintf("%.2f", total.avgScore()),
		strconv.Itoa(total.HardStops),
		strconv.Itoa(total.SizedCount),
		fmt.Sprintf("%.2f", total.TotalLots),
	}); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return outPath, nil
}

func (s *eodSummarizer) SummarizeToday() (string, error) {
	return s.SummarizeDay(s.now())
}

func (s *eodSummarizer) ShouldRunNow() (bool, string) {
	now := s.now()
	outPath := eodCSVPath(s.journal.Root(), now)
	if now.After(cutoffTime(now, s.cutoffHour, s.cutoffMinute)) {
		if _, err := os.Stat(outPath); errors.Is(err, os.ErrNotExist) {
			return true, outPath
		}
	}
	return false, outPath
}
