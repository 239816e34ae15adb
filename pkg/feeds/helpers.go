package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/tmdb-people/pkg/httpclient"
)

// decodeResponse unmarshals a TMDB response body into out.
func decodeResponse(resp httpclient.Response, out any) error {
	if resp == nil {
		return fmt.Errorf("empty response")
	}
	body := resp.Body()
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response (status %d) body: %s: %w", resp.StatusCode(), responseSnippet(body), err)
	}
	return nil
}

func responseSnippet(body []byte) string {
	const maxLen = 256
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// pause waits for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// withPage copies params and sets page on the copy.
func withPage(params map[string]any, page int) map[string]any {
	out := make(map[string]any, len(params)+1)
	for k, v := range params {
		out[k] = v
	}
	out["page"] = page
	return out
}
