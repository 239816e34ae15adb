package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRestyClientGetBuildsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/3/person/42/images" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("api_key"); got != "secret" {
			t.Errorf("api_key = %q", got)
		}
		if got := q.Get("language"); got != "fr-FR" {
			t.Errorf("caller language should win, got %q", got)
		}
		if got := q.Get("append_to_response"); got != "images,changes" {
			t.Errorf("append_to_response = %q", got)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Errorf("missing header, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":42}`))
	}))
	defer srv.Close()

	client := NewRestyClient(Options{
		BaseURL:     srv.URL + "/3",
		APIKey:      "secret",
		AccessToken: "tok",
		Language:    "en-US",
		Timeout:     2 * time.Second,
	})

	params := map[string]any{
		"language":           "fr-FR",
		"append_to_response": []string{"images", "changes"},
		"ignored":            nil,
	}
	resp, err := client.Get(context.Background(), "person/42/images", params, map[string]string{"X-Test": "1"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if string(resp.Body()) != `{"id":42}` {
		t.Fatalf("body = %s", resp.Body())
	}
	if len(params) != 3 {
		t.Fatalf("params were mutated: %v", params)
	}
}

func TestRestyClientEscapesPathSegments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/person/nm%20123/tv_credits" {
			t.Errorf("unexpected escaped path %q", r.URL.EscapedPath())
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewRestyClient(Options{BaseURL: srv.URL})
	if _, err := client.Get(context.Background(), "person/nm 123/tv_credits", nil, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

func TestEscapePath(t *testing.T) {
	cases := map[string]string{
		"person/42":             "person/42",
		"/person/nm 123/images": "person/nm%20123/images",
		"person/a?b/images":     "person/a%3Fb/images",
		// A slash inside an id is a separator.
		"person/a/b/images": "person/a/b/images",
	}
	for in, want := range cases {
		if got := EscapePath(in); got != want {
			t.Errorf("EscapePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRestyClientReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
	}))
	defer srv.Close()

	client := NewRestyClient(Options{BaseURL: srv.URL})
	_, err := client.Get(context.Background(), "person/0", nil, nil)
	if err == nil {
		t.Fatalf("expected error on 404")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Code != 34 || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound should be true")
	}
}

func TestRestyClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewRestyClient(Options{
		BaseURL:    srv.URL,
		RetryCount: 2,
		RetryWait:  10 * time.Millisecond,
	})
	if _, err := client.Get(context.Background(), "person/latest", nil, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestEncodeQuery(t *testing.T) {
	q := EncodeQuery(map[string]any{
		"page":       2,
		"include":    true,
		"ids":        []int{1, 2},
		"mixed":      []any{"a", nil, 3},
		"skip_me":    nil,
		"empty_list": []string{},
	})

	cases := map[string]string{
		"page":       "2",
		"include":    "true",
		"ids":        "1,2",
		"mixed":      "a,3",
		"empty_list": "",
	}
	for key, want := range cases {
		if got := q.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
	if q.Has("skip_me") {
		t.Errorf("nil values must be skipped")
	}
}
