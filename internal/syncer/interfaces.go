package syncer

import (
	"context"

	"github.com/samvad-hq/tmdb-people/internal/domain"
	"github.com/samvad-hq/tmdb-people/pkg/feeds"
	"github.com/samvad-hq/tmdb-people/pkg/publishers"
)

// RecordEnricher turns seed people into full records by calling the feed's person resources.
type RecordEnricher interface {
	Enrich(ctx context.Context, feed feeds.Feed, people []domain.Person) []domain.PersonRecord
}

// EventPublisher publishes person records downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers record fingerprints per feed.
type Deduper interface {
	SeenRecord(feedID, fingerprint string) (bool, error)
	MarkRecord(feedID, fingerprint string) error
}
