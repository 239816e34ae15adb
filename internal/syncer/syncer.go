// Package syncer pulls people from TMDB feeds and publishes changed records.
package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/tmdb-people/internal/logger"
	"github.com/samvad-hq/tmdb-people/pkg/feeds"
	"github.com/samvad-hq/tmdb-people/pkg/metrics"
)

// Service coordinates syncing across multiple feeds.
type Service struct {
	processor *FeedProcessor
}

// NewService wires a sync service around a feed processor.
func NewService(reg feeds.FetcherRegistry, enricher RecordEnricher, pub EventPublisher, m *metrics.Manager, deduper Deduper) *Service {
	return &Service{processor: NewFeedProcessor(reg, enricher, pub, m, deduper)}
}

// Run executes a sync pass for all feeds and joins their errors.
func (s *Service) Run(ctx context.Context, list []feeds.Feed) error {
	if s == nil || s.processor == nil || s.processor.registry == nil {
		return fmt.Errorf("sync service is not initialized")
	}
	if len(list) == 0 {
		return fmt.Errorf("no feeds configured for syncing")
	}
	return errors.Join(s.runAll(ctx, list)...)
}

func (s *Service) runAll(ctx context.Context, list []feeds.Feed) []error {
	errs := make([]error, 0, len(list))
	for _, feed := range list {
		if ctx.Err() != nil {
			break
		}
		if err := s.processor.Process(ctx, feed); err != nil {
			errs = append(errs, err)
			logger.ErrorObj("feed sync failed", "feed_error", map[string]any{
				"feed_id": feed.ID,
				"error":   err.Error(),
			})
		}
	}
	return errs
}
