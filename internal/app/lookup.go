package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/samvad-hq/tmdb-people/internal/config"
	"github.com/samvad-hq/tmdb-people/internal/logger"
	"github.com/samvad-hq/tmdb-people/pkg/httpclient"
	"github.com/samvad-hq/tmdb-people/pkg/tmdb"
)

// ErrUnknownOperation is returned for operation names Lookup does not know.
var ErrUnknownOperation = errors.New("unknown operation")

// ErrMissingPersonID is returned when a person operation is called without an id.
var ErrMissingPersonID = errors.New("person id is required")

const (
	opPerson  = "person"
	opPopular = "popular"
	opLatest  = "latest"
)

// Operations lists every operation name Lookup accepts, sorted. The id scoped
// ones are the tmdb person resources, with details exposed as "person".
func Operations() []string {
	out := make([]string, 0, len(tmdb.PersonResources())+2)
	for _, res := range tmdb.PersonResources() {
		out = append(out, operationName(res))
	}
	out = append(out, opPopular, opLatest)
	sort.Strings(out)
	return out
}

func operationName(res tmdb.PersonResource) string {
	if res == tmdb.ResourceDetails {
		return opPerson
	}
	return string(res)
}

// Request is a single lookup. ID is ignored by popular and latest.
type Request struct {
	Operation string
	ID        string
	Params    tmdb.Parameters
	Headers   tmdb.Headers
}

// Lookup runs one people call and writes the raw response body to out.
type Lookup struct {
	people *tmdb.People
	out    io.Writer
	log    logger.Logger
}

// NewLookup builds a lookup runtime from config.
func NewLookup(cfg *config.Config, out io.Writer, log logger.Logger) (*Lookup, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if !cfg.HasCredentials() {
		return nil, fmt.Errorf("tmdb_api_key or tmdb_access_token is required")
	}
	return newLookup(NewTMDBClient(cfg).People(), out, log), nil
}

func newLookup(people *tmdb.People, out io.Writer, log logger.Logger) *Lookup {
	if log == nil {
		log = &logger.NopLogger{}
	}
	if out == nil {
		out = io.Discard
	}
	return &Lookup{people: people, out: out, log: log}
}

// Run executes req and copies the body to the writer followed by a newline.
func (l *Lookup) Run(ctx context.Context, req Request) error {
	resp, err := l.call(ctx, req)
	if err != nil {
		return err
	}

	l.log.DebugObj("lookup completed", "lookup_meta", map[string]any{
		"operation": req.Operation,
		"person_id": req.ID,
		"status":    resp.StatusCode(),
		"bytes":     len(resp.Body()),
	})

	if _, err := l.out.Write(resp.Body()); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	_, err = io.WriteString(l.out, "\n")
	return err
}

func (l *Lookup) call(ctx context.Context, req Request) (httpclient.Response, error) {
	op := strings.ToLower(strings.TrimSpace(req.Operation))
	switch op {
	case opPopular:
		return l.people.GetPopular(ctx, req.Params, req.Headers)
	case opLatest:
		if len(req.Params) > 0 || len(req.Headers) > 0 {
			l.log.WarnObj("latest takes no parameters; ignoring them", "operation", op)
		}
		return l.people.GetLatest(ctx)
	}

	res, ok := tmdb.ParseResource(op)
	if op == opPerson {
		res, ok = tmdb.ResourceDetails, true
	}
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownOperation, req.Operation)
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingPersonID)
	}
	return l.people.Resource(ctx, res, id, req.Params, req.Headers)
}
