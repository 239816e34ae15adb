package feeds

import (
	"context"

	"github.com/samvad-hq/tmdb-people/internal/domain"
	"github.com/samvad-hq/tmdb-people/pkg/httpclient"
	"github.com/samvad-hq/tmdb-people/pkg/tmdb"
)

// Fetcher resolves the seed people for a feed. Concrete implementations live
// in type specific files (popular.go, watchlist.go, latest.go).
type Fetcher interface {
	Type() string
	Fetch(ctx context.Context, feed Feed) ([]domain.Person, error)
}

// FetcherRegistry resolves the fetcher implementation for a given feed.
type FetcherRegistry interface {
	FetcherFor(feed Feed) (Fetcher, error)
}

// PeopleAPI is the part of *tmdb.People feeds and the syncer depend on.
type PeopleAPI interface {
	GetPopular(ctx context.Context, params tmdb.Parameters, headers tmdb.Headers) (httpclient.Response, error)
	GetLatest(ctx context.Context) (httpclient.Response, error)
	Resource(ctx context.Context, name tmdb.PersonResource, personID any, params tmdb.Parameters, headers tmdb.Headers) (httpclient.Response, error)
}
