package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "risk_decisions_total", Help: "Decisions produced, by risk tier"},
		[]string{"tier"},
	)
	HardStopsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "risk_hard_stops_total", Help: "Hard-stop violations, by rule"},
		[]string{"rule"},
	)
	EvaluationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "risk_evaluation_errors_total", Help: "Evaluations aborted, by error kind"},
		[]string{"kind"},
	)
	PositionWarningsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "risk_position_warnings_total", Help: "Decisions whose lot size could not be computed"},
	)
	FinalScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "risk_final_score",
			Help:    "Distribution of final scores for scored decisions",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)
	JournalAppendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "risk_journal_appends_total", Help: "Journal appends, by result"},
		[]string{"result"},
	)
	EODSummariesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "risk_eod_summaries_total", Help: "End-of-day summary runs, by result"},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		DecisionsTotal,
		HardStopsTotal,
		EvaluationErrorsTotal,
		PositionWarningsTotal,
		FinalScore,
		JournalAppendsTotal,
		EODSummariesTotal,
	)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
