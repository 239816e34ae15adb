// Package tmdb exposes thin resource clients for The Movie Database v3 API.
// Resource clients only build paths; everything on the wire is owned by the
// httpclient.Client they are given.
package tmdb

import (
	"context"

	"github.com/samvad-hq/tmdb-people/pkg/httpclient"
)

// Parameters are passed through as query parameters.
type Parameters = map[string]any

// Headers are passed through as request headers.
type Headers = map[string]string

// API is the base every resource client embeds.
type API struct {
	client httpclient.Client
}

func newAPI(client httpclient.Client) API {
	return API{client: client}
}

func (a API) get(ctx context.Context, path string, params Parameters, headers Headers) (httpclient.Response, error) {
	return a.client.Get(ctx, path, params, headers)
}

// Client hands out resource clients sharing one transport.
type Client struct {
	people *People
}

// NewClient wraps transport.
func NewClient(transport httpclient.Client) *Client {
	return &Client{
		people: NewPeople(transport),
	}
}

// People returns the person/ resource client.
func (c *Client) People() *People {
	return c.people
}
