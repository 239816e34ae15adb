package feeds

import (
	"context"
	"fmt"

	"github.com/samvad-hq/tmdb-people/internal/domain"
)

// latestFetcher returns the most recently created person.
type latestFetcher struct {
	people PeopleAPI
}

// NewLatestFetcher builds the fetcher for latest feeds.
func NewLatestFetcher(people PeopleAPI) Fetcher {
	return &latestFetcher{people: people}
}

func (f *latestFetcher) Type() string { return TypeLatest }

func (f *latestFetcher) Fetch(ctx context.Context, _ Feed) ([]domain.Person, error) {
	if f.people == nil {
		return nil, fmt.Errorf("latest fetcher has no tmdb client")
	}
	resp, err := f.people.GetLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch latest person: %w", err)
	}

	var person domain.Person
	if err := decodeResponse(resp, &person); err != nil {
		return nil, fmt.Errorf("latest person: %w", err)
	}
	if person.ID == 0 {
		return nil, nil
	}
	return []domain.Person{person}, nil
}
