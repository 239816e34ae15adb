package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/tmdb-people/internal/config"
	"github.com/samvad-hq/tmdb-people/pkg/httpclient"
	"github.com/samvad-hq/tmdb-people/pkg/tmdb"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		AppName:        "tmdb-people-test",
		TMDBBaseURL:    baseURL,
		TMDBAPIKey:     "key",
		TMDBTimeout:    2 * time.Second,
		SyncInterval:   time.Hour,
		StorageType:    "none",
		StorageTTL:     time.Hour,
		FeedsFile:      "",
		PublishersFile: "",
	}
}

func TestLookupWritesRawBody(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"id":287,"cast":[]}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	lookup, err := NewLookup(testConfig(srv.URL), &out, nil)
	if err != nil {
		t.Fatalf("NewLookup: %v", err)
	}

	err = lookup.Run(context.Background(), Request{
		Operation: "Movie_Credits",
		ID:        "287",
		Params:    map[string]any{"language": "de-DE"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gotPath != "/person/287/movie_credits" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "language=de-DE") || !strings.Contains(gotQuery, "api_key=key") {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if out.String() != "{\"id\":287,\"cast\":[]}\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestLookupRoutesListOperations(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	lookup, err := NewLookup(testConfig(srv.URL), nil, nil)
	if err != nil {
		t.Fatalf("NewLookup: %v", err)
	}
	for _, op := range []string{"popular", "latest", "credits", "person"} {
		if err := lookup.Run(context.Background(), Request{Operation: op, ID: "nm1"}); err != nil {
			t.Fatalf("Run %s: %v", op, err)
		}
	}

	want := []string{"/person/popular", "/person/latest", "/person/nm1/combined_credits", "/person/nm1"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
}

func TestLookupErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
	}))
	defer srv.Close()

	lookup, err := NewLookup(testConfig(srv.URL), nil, nil)
	if err != nil {
		t.Fatalf("NewLookup: %v", err)
	}

	if err := lookup.Run(context.Background(), Request{Operation: "awards", ID: "1"}); !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("expected ErrUnknownOperation, got %v", err)
	}
	if err := lookup.Run(context.Background(), Request{Operation: "images"}); !errors.Is(err, ErrMissingPersonID) {
		t.Fatalf("expected ErrMissingPersonID, got %v", err)
	}
	if err := lookup.Run(context.Background(), Request{Operation: "person", ID: "0"}); !httpclient.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNewLookupRequiresCredentials(t *testing.T) {
	cfg := testConfig("http://127.0.0.1")
	cfg.TMDBAPIKey = ""
	if _, err := NewLookup(cfg, nil, nil); err == nil {
		t.Fatalf("expected credentials error")
	}
}

func TestOperationsSorted(t *testing.T) {
	ops := Operations()
	if len(ops) != 11 {
		t.Fatalf("expected 11 operations, got %d: %v", len(ops), ops)
	}
	for i := 1; i < len(ops); i++ {
		if ops[i-1] > ops[i] {
			t.Fatalf("operations not sorted: %v", ops)
		}
	}
}

func TestLookupCoversEveryPersonResource(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	lookup, err := NewLookup(testConfig(srv.URL), nil, nil)
	if err != nil {
		t.Fatalf("NewLookup: %v", err)
	}

	ops := Operations()
	for _, res := range tmdb.PersonResources() {
		op := operationName(res)
		if !slices.Contains(ops, op) {
			t.Fatalf("resource %s has no operation in %v", res, ops)
		}
		if err := lookup.Run(context.Background(), Request{Operation: op, ID: "287"}); err != nil {
			t.Fatalf("Run %s: %v", op, err)
		}
	}
	if slices.Contains(ops, string(tmdb.ResourceDetails)) {
		t.Fatalf("details should be listed as person: %v", ops)
	}
	if paths[0] != "/person/287" || len(paths) != len(tmdb.PersonResources()) {
		t.Fatalf("unexpected paths %v", paths)
	}
}
