package feeds

import (
	"context"

	"github.com/samvad-hq/tmdb-people/internal/domain"
)

// watchlistFetcher seeds a feed from its explicit person ids; no TMDB call is needed.
type watchlistFetcher struct{}

// NewWatchlistFetcher builds the fetcher for watchlist feeds.
func NewWatchlistFetcher() Fetcher { return watchlistFetcher{} }

func (watchlistFetcher) Type() string { return TypeWatchlist }

func (watchlistFetcher) Fetch(ctx context.Context, feed Feed) ([]domain.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Person, 0, len(feed.PersonIDs))
	for _, id := range feed.PersonIDs {
		out = append(out, domain.Person{ID: id})
	}
	return out, nil
}
