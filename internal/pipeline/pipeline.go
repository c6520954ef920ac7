package pipeline

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"grantsync/internal/dedup"
	"grantsync/internal/filter"
	"grantsync/internal/logger"
	"grantsync/internal/metrics"
	"grantsync/internal/models"
	"grantsync/internal/normalize"
	"grantsync/internal/store"
)

// Fetcher возвращает сырые объявления для кода региона.
type Fetcher interface {
	Fetch(ctx context.Context, areaCode string) ([]models.RawItem, error)
}

// Outcome — результат обработки одного кандидата.
type Outcome int

const (
	Created Outcome = iota
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Stats — итоги одного запуска.
type Stats struct {
	Fetched    int
	Candidates int
	UniqueIDs  int
	Created    int
	Skipped    int
	Failed     int
}

// Pipeline выполняет один полный проход синхронизации, строго последовательно.
type Pipeline struct {
	fetcher     Fetcher
	checker     *dedup.Checker
	writer      *store.Writer
	normalizer  *normalize.Normalizer
	metrics     *metrics.Metrics
	collectDays int

	// Now задаёт «сегодня»; подменяется в тестах.
	Now func() time.Time
}

// New собирает конвейер. Одно и то же хранилище используется и для проверки дублей, и для записи.
func New(f Fetcher, s store.Store, n *normalize.Normalizer, m *metrics.Metrics, collectDays int) *Pipeline {
	if m == nil {
		m = metrics.New()
	}
	return &Pipeline{
		fetcher:     f,
		checker:     dedup.NewChecker(s),
		writer:      store.NewWriter(s),
		normalizer:  n,
		metrics:     m,
		collectDays: collectDays,
		Now:         time.Now,
	}
}

// Run собирает кандидатов по обоим регионам и записывает новые.
// Ни одна ошибка не прерывает запуск.
func (p *Pipeline) Run(ctx context.Context) Stats {
	today := p.Now()
	log := logger.Log.WithFields(logrus.Fields{
		"service":      "pipeline",
		"date":         today.Format("2006-01-02"),
		"collect_days": p.collectDays,
	})
	log.Info("Starting grant announcement sync")

	var stats Stats
	batch := dedup.NewBatch()
	candidates := p.collect(ctx, today, batch, &stats)
	stats.Candidates = len(candidates)
	stats.UniqueIDs = batch.Len()
	log.WithField("candidates", stats.Candidates).Info("Collected announcements")

	for _, c := range candidates {
		switch p.Process(ctx, c, today) {
		case Created:
			stats.Created++
		case Skipped:
			stats.Skipped++
		case Failed:
			stats.Failed++
		}
	}

	p.metrics.LastRunTimestamp.Set(float64(p.Now().Unix()))
	log.WithFields(logrus.Fields{
		"created":    stats.Created,
		"skipped":    stats.Skipped,
		"failed":     stats.Failed,
		"unique_ids": stats.UniqueIDs,
	}).Infof("Done: created %d, skipped %d duplicates", stats.Created, stats.Skipped)
	return stats
}

// collect запрашивает регионы по порядку и пропускает объявления через фильтр и batch.
// Первое вхождение идентификатора побеждает.
func (p *Pipeline) collect(ctx context.Context, today time.Time, batch *dedup.Batch, stats *Stats) []models.Candidate {
	f := filter.NewFilter(today, p.collectDays)

	var out []models.Candidate
	for _, region := range filter.Regions {
		log := logger.Log.WithField("area", region.Code)

		items, err := p.fetcher.Fetch(ctx, region.Code)
		if err != nil {
			p.metrics.FetchErrors.WithLabelValues(region.Code).Inc()
			log.WithError(err).Error("Failed to fetch announcements")
			continue
		}
		stats.Fetched += len(items)
		p.metrics.Fetched.WithLabelValues(region.Code).Add(float64(len(items)))
		log.WithField("items_count", len(items)).Debug("Fetched announcements")

		for _, c := range f.Apply(items) {
			if !batch.Admit(c.Item.ID()) {
				p.metrics.BatchDuplicates.Inc()
				continue
			}
			p.metrics.Candidates.WithLabelValues(string(c.Jurisdiction)).Inc()
			out = append(out, c)
		}
	}
	return out
}

// Process проверяет кандидата на дубль и при необходимости создаёт запись.
func (p *Pipeline) Process(ctx context.Context, c models.Candidate, today time.Time) Outcome {
	log := logger.Log.WithFields(logrus.Fields{
		"id":           c.Item.ID(),
		"title":        c.Item.Title(),
		"jurisdiction": string(c.Jurisdiction),
	})

	dup, err := p.checker.IsDuplicate(ctx, c.Item.ID())
	if err != nil {
		p.metrics.CheckErrors.Inc()
		log.WithError(err).Warn("Duplicate check failed, treating as new")
	}
	if dup {
		p.metrics.Skipped.Inc()
		log.Info("Skipped duplicate")
		return Skipped
	}

	rec := p.normalizer.Record(c, today)
	title, err := p.writer.Write(ctx, rec)
	if err != nil {
		p.metrics.CreateErrors.Inc()
		log.WithError(err).Error("Failed to create record")
		return Failed
	}

	p.metrics.Created.WithLabelValues(string(c.Jurisdiction)).Inc()
	log.WithField("record", title).Info("Created record")
	return Created
}
