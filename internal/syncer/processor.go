package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/tmdb-people/internal/domain"
	"github.com/samvad-hq/tmdb-people/internal/logger"
	"github.com/samvad-hq/tmdb-people/pkg/feeds"
	"github.com/samvad-hq/tmdb-people/pkg/metrics"
	"github.com/samvad-hq/tmdb-people/pkg/publishers"
)

// FeedProcessor runs a single feed: fetch seeds, enrich, dedupe, publish.
type FeedProcessor struct {
	registry  feeds.FetcherRegistry
	enricher  RecordEnricher
	publisher EventPublisher
	metrics   *metrics.Manager
	deduper   Deduper
}

// NewFeedProcessor wires a processor. enricher, publisher, m and deduper may be nil.
func NewFeedProcessor(reg feeds.FetcherRegistry, enricher RecordEnricher, pub EventPublisher, m *metrics.Manager, deduper Deduper) *FeedProcessor {
	return &FeedProcessor{
		registry:  reg,
		enricher:  enricher,
		publisher: pub,
		metrics:   m,
		deduper:   deduper,
	}
}

// Process syncs feed once. A partial fetch still publishes what it got.
func (p *FeedProcessor) Process(ctx context.Context, feed feeds.Feed) error {
	start := time.Now()
	defer func() { p.metrics.ObserveSync(feed.ID, time.Since(start)) }()

	fetcher, err := p.registry.FetcherFor(feed)
	if err != nil {
		return fmt.Errorf("resolve fetcher for feed %s: %w", feed.ID, err)
	}

	people, fetchErr := fetcher.Fetch(ctx, feed)
	if fetchErr != nil {
		fetchErr = fmt.Errorf("fetch feed %s: %w", feed.ID, fetchErr)
		if len(people) == 0 {
			return fetchErr
		}
		logger.WarnObj("feed fetch incomplete", "feed_partial", map[string]any{
			"feed_id": feed.ID,
			"people":  len(people),
			"error":   fetchErr.Error(),
		})
	}

	records := p.enrich(ctx, feed, people)
	for range records {
		p.metrics.RecordFetched(feed.ID)
	}

	fresh := p.filterNewRecords(feed, records)
	published, pubErr := p.publish(ctx, feed, fresh)

	logger.InfoObj("feed sync completed", "feed_result", map[string]any{
		"feed_id":   feed.ID,
		"seeds":     len(people),
		"records":   len(records),
		"fresh":     len(fresh),
		"published": published,
	})
	return errors.Join(fetchErr, pubErr)
}

func (p *FeedProcessor) enrich(ctx context.Context, feed feeds.Feed, people []domain.Person) []domain.PersonRecord {
	if p.enricher != nil {
		return p.enricher.Enrich(ctx, feed, people)
	}
	out := make([]domain.PersonRecord, 0, len(people))
	for _, person := range people {
		out = append(out, domain.NewPersonRecord(person))
	}
	return out
}

// filterNewRecords drops records already published for this feed. Lookup
// failures keep the record so a broken store never silences a feed.
func (p *FeedProcessor) filterNewRecords(feed feeds.Feed, records []domain.PersonRecord) []domain.PersonRecord {
	if p.deduper == nil {
		return records
	}

	out := make([]domain.PersonRecord, 0, len(records))
	for _, rec := range records {
		seen, err := p.deduper.SeenRecord(feed.ID, rec.Fingerprint())
		if err != nil {
			logger.WarnObj("dedupe lookup failed", "dedupe_error", map[string]any{
				"feed_id":   feed.ID,
				"person_id": rec.ID,
				"error":     err.Error(),
			})
			out = append(out, rec)
			continue
		}
		if seen {
			p.metrics.RecordDuplicate(feed.ID)
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (p *FeedProcessor) publish(ctx context.Context, feed feeds.Feed, records []domain.PersonRecord) (int, error) {
	if p.publisher == nil {
		return 0, nil
	}

	var errs []error
	published := 0
	for _, rec := range records {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		evt := publishers.NewEvent(feed.ID, feed.Name, rec)
		n, err := p.publisher.Publish(ctx, evt)
		if err != nil {
			errs = append(errs, fmt.Errorf("publish person %d: %w", rec.ID, err))
		}
		if n == 0 {
			p.metrics.RecordPublishError(feed.ID)
			continue
		}

		published++
		p.metrics.RecordPublished(feed.ID)
		if p.deduper != nil {
			if err := p.deduper.MarkRecord(feed.ID, evt.Fingerprint); err != nil {
				logger.WarnObj("dedupe mark failed", "dedupe_error", map[string]any{
					"feed_id":   feed.ID,
					"person_id": rec.ID,
					"error":     err.Error(),
				})
			}
		}
	}
	return published, errors.Join(errs...)
}
