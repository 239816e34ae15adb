package feeds

import (
	"fmt"
	"strings"
	"sync"
)

// fetcherRegistry implements FetcherRegistry keyed by feed type.
type fetcherRegistry struct {
	mu     sync.RWMutex
	byType map[string]Fetcher
}

// NewFetcherRegistry builds a registry for the provided fetchers.
func NewFetcherRegistry(fetchers ...Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{byType: make(map[string]Fetcher, len(fetchers))}
	for _, f := range fetchers {
		reg.register(f)
	}
	return reg
}

func (r *fetcherRegistry) register(f Fetcher) {
	if f == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(f.Type()))
	if key == "" {
		return
	}

	r.mu.Lock()
	r.byType[key] = f
	r.mu.Unlock()
}

// FetcherFor selects the fetcher for the feed's type.
func (r *fetcherRegistry) FetcherFor(feed Feed) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}
	if strings.TrimSpace(feed.ID) == "" {
		return nil, fmt.Errorf("feed id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.byType[strings.ToLower(strings.TrimSpace(feed.Type))]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("no fetcher registered for feed %q (type %q)", feed.ID, feed.Type)
}

// DefaultFetcherRegistry wires up the built-in feed types.
func DefaultFetcherRegistry(people PeopleAPI) FetcherRegistry {
	return NewFetcherRegistry(
		NewPopularFetcher(people),
		NewWatchlistFetcher(),
		NewLatestFetcher(people),
	)
}
