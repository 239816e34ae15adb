package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is returned for any non-2xx response from the API.
type APIError struct {
	Path       string
	StatusCode int
	// Code and Message mirror TMDB's status_code / status_message body fields when present.
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tmdb %s: status %d (code %d): %s", e.Path, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("tmdb %s: status %d", e.Path, e.StatusCode)
}

// IsNotFound reports whether err is an APIError carrying a 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

type statusBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

func newAPIError(path string, status int, body []byte) *APIError {
	apiErr := &APIError{Path: path, StatusCode: status}

	var sb statusBody
	if err := json.Unmarshal(body, &sb); err == nil && sb.StatusMessage != "" {
		apiErr.Code = sb.StatusCode
		apiErr.Message = sb.StatusMessage
		return apiErr
	}
	apiErr.Message = bodySnippet(body)
	return apiErr
}

func bodySnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
