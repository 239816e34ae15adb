package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL   = "https://api.themoviedb.org/3"
	DefaultTimeout   = 15 * time.Second
	DefaultRetryWait = 500 * time.Millisecond

	apiKeyParam   = "api_key"
	languageParam = "language"
)

// Options configures a RestyClient.
type Options struct {
	BaseURL     string
	APIKey      string
	AccessToken string
	Language    string
	UserAgent   string
	Timeout     time.Duration
	RetryCount  int
	RetryWait   time.Duration
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client   *resty.Client
	apiKey   string
	language string
}

// NewRestyClient creates a TMDB transport from opts, filling in defaults for zero values.
func NewRestyClient(opts Options) *RestyClient {
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = DefaultRetryWait
	}

	c := newRestyBaseClient(opts.Timeout).
		SetBaseURL(strings.TrimSpace(opts.BaseURL)).
		SetHeader("Accept", "application/json")

	if opts.UserAgent != "" {
		c.SetHeader("User-Agent", opts.UserAgent)
	}
	if token := strings.TrimSpace(opts.AccessToken); token != "" {
		c.SetAuthToken(token)
	}
	if opts.RetryCount > 0 {
		c.SetRetryCount(opts.RetryCount).
			SetRetryWaitTime(opts.RetryWait).
			AddRetryCondition(retryable)
	}

	return &RestyClient{
		client:   c,
		apiKey:   strings.TrimSpace(opts.APIKey),
		language: strings.TrimSpace(opts.Language),
	}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// retryable retries throttled and server-side failures; transport errors are retried by resty itself.
func retryable(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return false
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Get performs a GET against path relative to the base URL.
func (r *RestyClient) Get(ctx context.Context, path string, params map[string]any, headers map[string]string) (Response, error) {
	req := r.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(r.query(params))
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}

	resp, err := req.Get("/" + EscapePath(path))
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	if !resp.IsSuccess() {
		return nil, newAPIError(path, resp.StatusCode(), resp.Body())
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// query merges the client defaults with caller params; caller values win.
func (r *RestyClient) query(params map[string]any) url.Values {
	q := EncodeQuery(params)
	if r.apiKey != "" && q.Get(apiKeyParam) == "" {
		q.Set(apiKeyParam, r.apiKey)
	}
	if r.language != "" && q.Get(languageParam) == "" {
		q.Set(languageParam, r.language)
	}
	return q
}

// EscapePath escapes every segment of a slash separated path. A "/" is always a
// separator, never escaped.
func EscapePath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// EncodeQuery renders params as query values. Slices are comma joined, which is
// how TMDB expects list parameters such as append_to_response.
func EncodeQuery(params map[string]any) url.Values {
	q := make(url.Values, len(params))
	for key, raw := range params {
		if raw == nil {
			continue
		}
		q.Set(key, formatValue(raw))
	}
	return q
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, ",")
	case []int:
		parts := make([]string, len(val))
		for i, n := range val {
			parts[i] = fmt.Sprint(n)
		}
		return strings.Join(parts, ",")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
