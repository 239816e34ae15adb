package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts the GET primitive every TMDB resource client delegates to.
// path is relative to the API root (e.g. "person/42"); params become query
// parameters and headers are sent as-is. Implementations must not mutate either map.
// path is split on "/" before each segment is escaped, so an id that itself
// contains "/" adds segments rather than being escaped.
type Client interface {
	Get(ctx context.Context, path string, params map[string]any, headers map[string]string) (Response, error)
}
