package journal

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"trading-risk-assistant/internal/interfaces"
	"trading-risk-assistant/internal/logger"
	"trading-risk-assistant/internal/metrics"
	"trading-risk-assistant/internal/types"
)

const (
	dateLayout  = "2006-01-02"
	plainExt    = ".jsonl"
	gzipExt     = ".jsonl.gz"
	decisionDir = "decisions"
)

// Journal is the append-only decision log. One JSON entry per line, one file
// per local calendar day.
type Journal struct {
	dir string
	loc *time.Location
	now func() time.Time

	mu sync.RWMutex
}

var _ interfaces.Journal = (*Journal)(nil)

type Option func(*Journal)

func WithClock(now func() time.Time) Option {
	return func(j *Journal) {
		j.now = now
	}
}

// WithLocation sets the zone that decides which day file an entry goes to.
func WithLocation(loc *time.Location) Option {
	return func(j *Journal) {
		j.loc = loc
	}
}

func New(dir string, opts ...Option) *Journal {
	j := &Journal{
		dir: dir,
		loc: time.Local,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Dir is the log root from TRADER_LOG_DIR, "logs" when unset.
func Dir() string {
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func (j *Journal) Root() string {
	return j.dir
}

func (j *Journal) dayPath(t time.Time) string {
	return filepath.Join(j.dir, decisionDir, t.In(j.loc).Format(dateLayout)+plainExt)
}

// Append writes one entry to the file of the day the decision was made.
func (j *Journal) Append(ctx context.Context, entry types.JournalEntry) error {
	if entry.Decision.CreatedAt.IsZero() {
		entry.Decision.CreatedAt = j.now()
	}
	b, err := json.Marshal(entry)
	if err != nil {
		metrics.JournalAppendsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("encode journal entry: %w", err)
	}
	b = append(b, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	p := j.dayPath(entry.Decision.CreatedAt)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		metrics.JournalAppendsTotal.WithLabelValues("error").Inc()
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		metrics.JournalAppendsTotal.WithLabelValues("error").Inc()
		return err
	}
	defer f.Close()

	// One write per record keeps lines whole under O_APPEND.
	if _, err := f.Write(b); err != nil {
		metrics.JournalAppendsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.JournalAppendsTotal.WithLabelValues("ok").Inc()
	logger.Debug(ctx, "Journal entry appended", "decision_id", entry.Decision.ID, "path", p)
	return nil
}

// Recent returns up to n of the latest entries, oldest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]types.JournalEntry, error) {
	if n <= 0 {
		return []types.JournalEntry{}, nil
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	days, err := j.dayFiles()
	if err != nil {
		return nil, err
	}

	var out []types.JournalEntry
	for i := len(days) - 1; i >= 0 && len(out) < n; i-- {
		entries, err := readDay(days[i])
		if err != nil {
			return nil, err
		}
		// Prepend the day's entries, keeping chronological order.
		need := n - len(out)
		if len(entries) > need {
			entries = entries[len(entries)-need:]
		}
		out = append(entries, out...)
	}
	if out == nil {
		out = []types.JournalEntry{}
	}
	logger.Debug(ctx, "Journal entries loaded", "requested", n, "returned", len(out))
	return out, nil
}

// Day returns every entry recorded on the local date of t.
func (j *Journal) Day(t time.Time) ([]types.JournalEntry, error) {
	key := t.In(j.loc).Format(dateLayout)
	j.mu.RLock()
	defer j.mu.RUnlock()
	days, err := j.dayFiles()
	if err != nil {
		return nil, err
	}
	for _, d := range days {
		if d.date == key {
			return readDay(d)
		}
	}
	return []types.JournalEntry{}, nil
}

// Since returns entries created at or after t, oldest first.
func (j *Journal) Since(t time.Time) ([]types.JournalEntry, error) {
	first := t.In(j.loc).Format(dateLayout)
	j.mu.RLock()
	defer j.mu.RUnlock()
	days, err := j.dayFiles()
	if err != nil {
		return nil, err
	}
	out := []types.JournalEntry{}
	for _, d := range days {
		if d.date < first {
			continue
		}
		entries, err := readDay(d)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.Decision.CreatedAt.Before(t) {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

// Summary aggregates the entries of the last `days` days.
func (j *Journal) Summary(ctx context.Context, days int) (types.JournalSummary, error) {
	if days <= 0 {
		days = 7
	}
	entries, err := j.Since(j.now().AddDate(0, 0, -days))
	if err != nil {
		return types.JournalSummary{}, err
	}
	s := Summarize(entries)
	s.Days = days
	logger.Debug(ctx, "Journal summary computed", "days", days, "sessions", s.TotalSessions)
	return s, nil
}

// Summarize aggregates an arbitrary set of entries.
func Summarize(entries []types.JournalEntry) types.JournalSummary {
	var s types.JournalSummary
	var scoreSum float64
	for _, e := range entries {
		d := e.Decision
		s.TotalSessions++
		scoreSum += d.FinalScore
		if d.ShouldTrade {
			s.TradesTaken++
		}
		if d.HardStopped() {
			s.HardStopSessions++
		}
		switch d.RiskTier {
		case types.TierRisk2:
			s.Risk2Count++
		case types.TierRisk3:
			s.Risk3Count++
		}
	}
	if s.TotalSessions > 0 {
		s.AvgScore = scoreSum / float64(s.TotalSessions)
		s.TradeRate = float64(s.TradesTaken) / float64(s.TotalSessions) * 100
	}
	return s
}

// DaysSinceLastTrade counts whole days since the newest decision that allowed
// a trade. ok is false when no such decision exists.
func (j *Journal) DaysSinceLastTrade(ctx context.Context) (days int, ok bool, err error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	files, err := j.dayFiles()
	if err != nil {
		return 0, false, err
	}
	for i := len(files) - 1; i >= 0; i-- {
		entries, err := readDay(files[i])
		if err != nil {
			return 0, false, err
		}
		for k := len(entries) - 1; k >= 0; k-- {
			if entries[k].Decision.ShouldTrade {
				elapsed := j.now().Sub(entries[k].Decision.CreatedAt)
				if elapsed < 0 {
					elapsed = 0
				}
				return int(elapsed / (24 * time.Hour)), true, nil
			}
		}
	}
	return 0, false, nil
}

// CompressOlder gzips day files older than retentionDays and removes the
// plain copies.
func (j *Journal) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := j.now().In(j.loc).AddDate(0, 0, -retentionDays).Format(dateLayout)

	j.mu.Lock()
	defer j.mu.Unlock()

	days, err := j.dayFiles()
	if err != nil {
		return err
	}
	var errs []error
	for _, d := range days {
		if d.date >= cutoff {
			continue
		}
		for _, p := range d.paths {
			if !strings.HasSuffix(p, plainExt) {
				continue
			}
			if err := gzipFile(p); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func gzipFile(p string) error {
	gz := strings.TrimSuffix(p, plainExt) + gzipExt
	if _, err := os.Stat(gz); err == nil {
		return fmt.Errorf("compress %s: %s already exists", p, gz)
	}

	in, err := os.Open(p)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	_, copyErr := io.Copy(gw, in)
	closeErr := errors.Join(gw.Close(), out.Close())
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(gz)
		return fmt.Errorf("compress %s: %w", p, err)
	}
	return os.Remove(p)
}

type dayFile struct {
	date  string
	paths []string
}

// dayFiles lists the journal's day files in ascending date order. A day can
// have both a compressed and a plain file.
func (j *Journal) dayFiles() ([]dayFile, error) {
	root := filepath.Join(j.dir, decisionDir)
	dirEntries, err := os.ReadDir(root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	byDate := map[string][]string{}
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		var date string
		switch {
		case strings.HasSuffix(name, gzipExt):
			date = strings.TrimSuffix(name, gzipExt)
		case strings.HasSuffix(name, plainExt):
			date = strings.TrimSuffix(name, plainExt)
		default:
			continue
		}
		if _, err := time.Parse(dateLayout, date); err != nil {
			continue
		}
		p := filepath.Join(root, name)
		// compressed content is older than anything still plain
		if strings.HasSuffix(name, gzipExt) {
			byDate[date] = append([]string{p}, byDate[date]...)
		} else {
			byDate[date] = append(byDate[date], p)
		}
	}

	out := make([]dayFile, 0, len(byDate))
	for date, paths := range byDate {
		out = append(out, dayFile{date: date, paths: paths})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].date < out[b].date })
	return out, nil
}

func readDay(d dayFile) ([]types.JournalEntry, error) {
	var out []types.JournalEntry
	for _, p := range d.paths {
		entries, err := readFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

// readFile skips lines that do not decode; a torn last line from a crash must
// not hide the rest of the day.
func readFile(p string) ([]types.JournalEntry, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(p, ".gz") {
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", p, err)
		}
		defer gr.Close()
		r = gr
	}

	var out []types.JournalEntry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e types.JournalEntry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return out, nil
}
