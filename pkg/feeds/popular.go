package feeds

import (
	"context"
	"fmt"

	"github.com/samvad-hq/tmdb-people/internal/domain"
)

// popularFetcher pages through person/popular.
type popularFetcher struct {
	people PeopleAPI
}

// NewPopularFetcher builds the fetcher for popular feeds.
func NewPopularFetcher(people PeopleAPI) Fetcher {
	return &popularFetcher{people: people}
}

func (f *popularFetcher) Type() string { return TypePopular }

// Fetch collects up to feed.Pages pages, stopping early at the last page.
func (f *popularFetcher) Fetch(ctx context.Context, feed Feed) ([]domain.Person, error) {
	if f.people == nil {
		return nil, fmt.Errorf("popular fetcher has no tmdb client")
	}

	pages := feed.Pages
	if pages <= 0 {
		pages = defaultPages
	}

	var out []domain.Person
	for page := 1; page <= pages; page++ {
		if page > 1 {
			if err := pause(ctx, feed.RequestDelay()); err != nil {
				return out, err
			}
		}

		resp, err := f.people.GetPopular(ctx, withPage(feed.Parameters, page), feed.Headers)
		if err != nil {
			return out, fmt.Errorf("fetch popular page %d: %w", page, err)
		}

		var result domain.PopularPage
		if err := decodeResponse(resp, &result); err != nil {
			return out, fmt.Errorf("popular page %d: %w", page, err)
		}
		out = append(out, result.Results...)

		if result.TotalPages > 0 && page >= result.TotalPages {
			break
		}
	}
	return out, nil
}
