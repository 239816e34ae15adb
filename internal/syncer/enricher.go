package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/samvad-hq/tmdb-people/internal/domain"
	"github.com/samvad-hq/tmdb-people/internal/logger"
	"github.com/samvad-hq/tmdb-people/pkg/feeds"
	"github.com/samvad-hq/tmdb-people/pkg/metrics"
	"github.com/samvad-hq/tmdb-people/pkg/tmdb"
)

// Enricher fetches every configured person resource for each seed person.
type Enricher struct {
	people  feeds.PeopleAPI
	metrics *metrics.Manager
}

// NewEnricher builds an enricher over the TMDB people client.
func NewEnricher(people feeds.PeopleAPI, m *metrics.Manager) *Enricher {
	return &Enricher{people: people, metrics: m}
}

// Enrich calls the feed's resources for each distinct person, pausing the feed's
// request delay between calls. On cancellation it returns the records finished so far.
func (e *Enricher) Enrich(ctx context.Context, feed feeds.Feed, people []domain.Person) []domain.PersonRecord {
	people = lo.UniqBy(
		lo.Filter(people, func(p domain.Person, _ int) bool { return p.ID > 0 }),
		func(p domain.Person) int64 { return p.ID },
	)
	resources := feed.PersonResources()
	delay := feed.RequestDelay()

	out := make([]domain.PersonRecord, 0, len(people))
	calls := 0
	for _, p := range people {
		rec := domain.NewPersonRecord(p)
		for _, res := range resources {
			if calls > 0 {
				if err := wait(ctx, delay); err != nil {
					return out
				}
			}
			calls++

			if err := e.fetch(ctx, feed, res, &rec); err != nil {
				if ctx.Err() != nil {
					return out
				}
				e.metrics.RecordResourceError(string(res))
				rec.FailedCalls = append(rec.FailedCalls, string(res))
				logger.WarnObj("person resource fetch failed", "resource_error", map[string]any{
					"feed_id":   feed.ID,
					"person_id": p.ID,
					"resource":  res,
					"error":     err.Error(),
				})
			}
		}

		if len(rec.Resources) == 0 && len(rec.FailedCalls) > 0 {
			logger.WarnObj("dropping person with no resources", "person_dropped", map[string]any{
				"feed_id":   feed.ID,
				"person_id": p.ID,
			})
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (e *Enricher) fetch(ctx context.Context, feed feeds.Feed, res tmdb.PersonResource, rec *domain.PersonRecord) error {
	if e.people == nil {
		return fmt.Errorf("enricher has no tmdb client")
	}
	resp, err := e.people.Resource(ctx, res, rec.ID, feed.Parameters, feed.Headers)
	if err != nil {
		return err
	}
	return rec.Apply(string(res), resp.Body())
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
