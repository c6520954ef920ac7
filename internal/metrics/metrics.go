package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "grantsync"

// Metrics — счётчики одного запуска синхронизации.
type Metrics struct {
	Registry *prometheus.Registry

	Fetched          *prometheus.CounterVec
	FetchErrors      *prometheus.CounterVec
	Candidates       *prometheus.CounterVec
	BatchDuplicates  prometheus.Counter
	Skipped          prometheus.Counter
	CheckErrors      prometheus.Counter
	Created          *prometheus.CounterVec
	CreateErrors     prometheus.Counter
	LastRunTimestamp prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Fetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetched_items_total",
			Help:      "Items returned by the announcement feed.",
		}, []string{"area"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Failed feed requests.",
		}, []string{"area"}),
		Candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_total",
			Help:      "Items that passed the date window and jurisdiction filter.",
		}, []string{"jurisdiction"}),
		BatchDuplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_duplicates_total",
			Help:      "Candidates dropped because their identifier was already seen in this run.",
		}),
		Skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Candidates already present in the store.",
		}),
		CheckErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_check_errors_total",
			Help:      "Failed duplicate lookups (treated as not duplicate).",
		}),
		Created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_created_total",
			Help:      "Records created in the store.",
		}, []string{"jurisdiction"}),
		CreateErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "create_errors_total",
			Help:      "Failed record creations.",
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run.",
		}),
	}

	m.Registry.MustRegister(
		m.Fetched,
		m.FetchErrors,
		m.Candidates,
		m.BatchDuplicates,
		m.Skipped,
		m.CheckErrors,
		m.Created,
		m.CreateErrors,
		m.LastRunTimestamp,
	)
	return m
}

// Push отправляет все счётчики в Pushgateway под именем job.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	return push.New(url, job).Gatherer(m.Registry).PushContext(ctx)
}
