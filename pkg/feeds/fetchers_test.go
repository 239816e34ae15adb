package feeds

import (
	"context"
	"errors"
	"testing"

	"github.com/samvad-hq/tmdb-people/pkg/httpclient"
	"github.com/samvad-hq/tmdb-people/pkg/tmdb"
)

type stubResponse struct{ body string }

func (s stubResponse) Body() []byte    { return []byte(s.body) }
func (s stubResponse) StatusCode() int { return 200 }

// routeClient answers by path and records each call.
type routeClient struct {
	bodies map[string][]string
	paths  []string
	params []map[string]any
}

func (r *routeClient) Get(_ context.Context, path string, params map[string]any, _ map[string]string) (httpclient.Response, error) {
	r.paths = append(r.paths, path)
	r.params = append(r.params, params)
	queue := r.bodies[path]
	if len(queue) == 0 {
		return nil, &httpclient.APIError{Path: path, StatusCode: 404}
	}
	r.bodies[path] = queue[1:]
	return stubResponse{body: queue[0]}, nil
}

func TestPopularFetcherPagesUntilLastPage(t *testing.T) {
	client := &routeClient{bodies: map[string][]string{
		"person/popular": {
			`{"page":1,"total_pages":2,"results":[{"id":1,"name":"A"},{"id":2,"name":"B"}]}`,
			`{"page":2,"total_pages":2,"results":[{"id":3,"name":"C"}]}`,
		},
	}}
	fetcher := NewPopularFetcher(tmdb.NewPeople(client))
	feed := Feed{ID: "p", Type: TypePopular, Pages: 5, RequestDelayMs: 1, Parameters: map[string]any{"language": "en"}}

	people, err := fetcher.Fetch(context.Background(), feed)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(people) != 3 || people[2].Name != "C" {
		t.Fatalf("unexpected people %+v", people)
	}
	if len(client.paths) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(client.paths))
	}
	if client.params[1]["page"] != 2 || client.params[1]["language"] != "en" {
		t.Fatalf("unexpected params for page 2: %v", client.params[1])
	}
	if _, mutated := feed.Parameters["page"]; mutated {
		t.Fatalf("feed parameters must not be mutated")
	}
}

func TestPopularFetcherPropagatesErrors(t *testing.T) {
	client := &routeClient{bodies: map[string][]string{}}
	fetcher := NewPopularFetcher(tmdb.NewPeople(client))

	_, err := fetcher.Fetch(context.Background(), Feed{ID: "p", Type: TypePopular})
	if !httpclient.IsNotFound(err) {
		t.Fatalf("expected wrapped not found error, got %v", err)
	}
}

func TestLatestFetcher(t *testing.T) {
	client := &routeClient{bodies: map[string][]string{
		"person/latest": {`{"id":5550001,"name":"Newcomer"}`},
	}}
	fetcher := NewLatestFetcher(tmdb.NewPeople(client))

	people, err := fetcher.Fetch(context.Background(), Feed{ID: "l", Type: TypeLatest})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(people) != 1 || people[0].ID != 5550001 {
		t.Fatalf("unexpected people %+v", people)
	}
}

func TestWatchlistFetcher(t *testing.T) {
	people, err := NewWatchlistFetcher().Fetch(context.Background(), Feed{ID: "w", PersonIDs: []int64{287, 500}})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(people) != 2 || people[1].ID != 500 {
		t.Fatalf("unexpected people %+v", people)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewWatchlistFetcher().Fetch(ctx, Feed{ID: "w", PersonIDs: []int64{1}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestDefaultFetcherRegistry(t *testing.T) {
	reg := DefaultFetcherRegistry(tmdb.NewPeople(&routeClient{}))

	for _, typ := range []string{TypePopular, TypeWatchlist, TypeLatest} {
		f, err := reg.FetcherFor(Feed{ID: "x", Type: typ})
		if err != nil {
			t.Fatalf("FetcherFor(%s): %v", typ, err)
		}
		if f.Type() != typ {
			t.Fatalf("FetcherFor(%s) returned %s", typ, f.Type())
		}
	}
	if _, err := reg.FetcherFor(Feed{ID: "x", Type: "trending"}); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if _, err := reg.FetcherFor(Feed{Type: TypeLatest}); err == nil {
		t.Fatalf("expected error for empty feed id")
	}
}
