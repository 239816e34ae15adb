package main

import (
	"reflect"
	"testing"
)

func TestBuildRequest(t *testing.T) {
	req, err := buildRequest(
		[]string{"person", "287"},
		[]string{"language=en-US", "append_to_response=images", "append_to_response=changes"},
		[]string{"Accept-Language = fr"},
	)
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}
	if req.Operation != "person" || req.ID != "287" {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.Params["language"] != "en-US" {
		t.Fatalf("language = %v", req.Params["language"])
	}
	if !reflect.DeepEqual(req.Params["append_to_response"], []string{"images", "changes"}) {
		t.Fatalf("repeated key should become a list, got %#v", req.Params["append_to_response"])
	}
	if req.Headers["Accept-Language"] != "fr" {
		t.Fatalf("headers = %v", req.Headers)
	}
}

func TestBuildRequestWithoutFlagsLeavesMapsNil(t *testing.T) {
	req, err := buildRequest([]string{"latest"}, nil, nil)
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}
	if req.Params != nil || req.Headers != nil || req.ID != "" {
		t.Fatalf("expected empty request extras, got %+v", req)
	}
}

func TestBuildRequestErrors(t *testing.T) {
	cases := map[string]struct {
		args    []string
		params  []string
		headers []string
	}{
		"no operation": {},
		"extra args":   {args: []string{"person", "1", "2"}},
		"bad param":    {args: []string{"popular"}, params: []string{"page"}},
		"empty key":    {args: []string{"popular"}, params: []string{"=2"}},
		"bad header":   {args: []string{"popular"}, headers: []string{"X-Test"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := buildRequest(tc.args, tc.params, tc.headers); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
