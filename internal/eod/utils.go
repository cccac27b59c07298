package eod

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const defaultCutoff = "22:00"

func eodCSVPath(root string, t time.Time) string {
	dateStr := t.Format("2006-01-02")
	return filepath.Join(root, "eod", dateStr+".csv")
}

// cutoffFromEnv reads RISK_EOD_CUTOFF as HH:MM local time.
func cutoffFromEnv() (hour, minute int, err error) {
	v := os.Getenv("RISK_EOD_CUTOFF")
	if v == "" {
		v = defaultCutoff
	}
	return parseCutoff(v)
}

func parseCutoff(v string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid EOD cutoff %q, want HH:MM: %w", v, err)
	}
	return t.Hour(), t.Minute(), nil
}

func cutoffTime(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}
