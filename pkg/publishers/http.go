package publishers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/samvad-hq/tmdb-people/pkg/httpclient"
)

const httpErrorSnippetBytes = 512

// httpPublisher delivers each event as a JSON request to a webhook.
type httpPublisher struct {
	id     string
	method string
	url    string
	client *resty.Client
	log    Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	client := httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeaders(cfg.HTTP.Headers)

	method := cfg.HTTP.Method
	if method == "" {
		method = http.MethodPost
	}

	return &httpPublisher{
		id:     cfg.ID,
		method: method,
		url:    cfg.HTTP.URL,
		client: client,
		log:    ensureLogger(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }

// Publish sends evt; any non-2xx answer is an error carrying the start of the body.
func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("X-Event-Id", evt.ID).
		SetHeader("X-Feed-Id", evt.FeedID).
		SetBody(evt).
		Execute(h.method, h.url)
	if err != nil {
		err = fmt.Errorf("http request: %w", err)
		logDelivery(h.log, h, evt, "", err)
		return err
	}
	if resp.IsError() {
		err = fmt.Errorf("http response status %d: %s", resp.StatusCode(), snippet(resp.Body()))
		logDelivery(h.log, h, evt, "", err)
		return err
	}
	logDelivery(h.log, h, evt, "", nil)
	return nil
}

func snippet(body []byte) string {
	if len(body) > httpErrorSnippetBytes {
		body = body[:httpErrorSnippetBytes]
	}
	return strings.TrimSpace(string(body))
}
