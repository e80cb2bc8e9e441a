package workflow

import (
	"context"

	"github.com/ziadkadry99/testgen/internal/api"
	"github.com/ziadkadry99/testgen/internal/logging"
)

// StatisticsSource fetches usage statistics.
type StatisticsSource interface {
	Statistics(ctx context.Context) (*api.Statistics, error)
}

// StatisticsRefresher re-reads statistics whenever results change.
type StatisticsRefresher struct {
	source StatisticsSource
	view   StatisticsView
	logger logging.Logger
}

// NewStatisticsRefresher creates a refresher rendering into view.
func NewStatisticsRefresher(source StatisticsSource, view StatisticsView, logger logging.Logger) *StatisticsRefresher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &StatisticsRefresher{source: source, view: view, logger: logger}
}

// Refresh fetches and renders statistics.
func (r *StatisticsRefresher) Refresh(ctx context.Context) (*api.Statistics, error) {
	stats, err := r.source.Statistics(ctx)
	if err != nil {
		r.logger.Error("statistics", "failed to update statistics", map[string]interface{}{
			"error": err,
		})
		return nil, err
	}
	r.view.Statistics(*stats)
	return stats, nil
}

// Handle is a Bus handler. Failures are logged, never surfaced.
func (r *StatisticsRefresher) Handle(ctx context.Context, e Event) {
	_, _ = r.Refresh(ctx)
}
