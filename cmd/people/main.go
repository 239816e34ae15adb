package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/samvad-hq/tmdb-people/internal/app"
	"github.com/samvad-hq/tmdb-people/internal/config"
	"github.com/samvad-hq/tmdb-people/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "people: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("people", pflag.ContinueOnError)
	rawParams := flags.StringArrayP("param", "p", nil, "query parameter as key=value (repeat a key to send a list)")
	rawHeaders := flags.StringArrayP("header", "H", nil, "request header as key=value")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: people <operation> [id] [-p key=value]... [-H key=value]...\n\n")
		fmt.Fprintf(os.Stderr, "operations: %s\n\n", strings.Join(app.Operations(), ", "))
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}

	req, err := buildRequest(flags.Args(), *rawParams, *rawHeaders)
	if err != nil {
		flags.Usage()
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lookup, err := app.NewLookup(cfg, os.Stdout, log)
	if err != nil {
		return err
	}
	return lookup.Run(ctx, req)
}

func buildRequest(positional, rawParams, rawHeaders []string) (app.Request, error) {
	if len(positional) == 0 {
		return app.Request{}, fmt.Errorf("operation is required")
	}
	if len(positional) > 2 {
		return app.Request{}, fmt.Errorf("unexpected arguments: %s", strings.Join(positional[2:], " "))
	}

	params, err := parseParams(rawParams)
	if err != nil {
		return app.Request{}, err
	}
	headers, err := parseHeaders(rawHeaders)
	if err != nil {
		return app.Request{}, err
	}

	req := app.Request{Operation: positional[0], Params: params, Headers: headers}
	if len(positional) == 2 {
		req.ID = positional[1]
	}
	return req, nil
}

// parseParams turns key=value pairs into parameters. A repeated key becomes a
// list, which the transport sends comma separated.
func parseParams(raw []string) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(raw))
	for _, kv := range raw {
		key, val, err := splitPair(kv)
		if err != nil {
			return nil, fmt.Errorf("param: %w", err)
		}
		switch prev := out[key].(type) {
		case nil:
			out[key] = val
		case string:
			out[key] = []string{prev, val}
		case []string:
			out[key] = append(prev, val)
		}
	}
	return out, nil
}

func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, kv := range raw {
		key, val, err := splitPair(kv)
		if err != nil {
			return nil, fmt.Errorf("header: %w", err)
		}
		out[key] = val
	}
	return out, nil
}

func splitPair(kv string) (string, string, error) {
	key, val, ok := strings.Cut(kv, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", kv)
	}
	return key, strings.TrimSpace(val), nil
}
