package feeds

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/samvad-hq/tmdb-people/internal/configfile"
	"github.com/samvad-hq/tmdb-people/pkg/tmdb"
)

// Package feeds declares which people get synced and which person resources are pulled for them.

const (
	TypePopular   = "popular"
	TypeWatchlist = "watchlist"
	TypeLatest    = "latest"

	defaultRequestDelayMs = 250
	defaultPages          = 1
	// TMDB rejects page numbers above 500.
	maxPages = 500
)

// Feed is a single entry of the feeds file.
type Feed struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	Type           string            `json:"type" yaml:"type"`
	Pages          int               `json:"pages" yaml:"pages"`
	PersonIDs      []int64           `json:"person_ids" yaml:"person_ids"`
	Resources      []string          `json:"resources" yaml:"resources"`
	Parameters     map[string]any    `json:"parameters" yaml:"parameters"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	RequestDelayMs int               `json:"request_delay_ms" yaml:"request_delay_ms"`
}

// RequestDelay returns the pause between two TMDB calls made for this feed.
func (f Feed) RequestDelay() time.Duration {
	if f.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(f.RequestDelayMs) * time.Millisecond
}

// PersonResources returns the configured resources as typed names. Unknown
// names are dropped; LoadRegistry already rejects them.
func (f Feed) PersonResources() []tmdb.PersonResource {
	out := make([]tmdb.PersonResource, 0, len(f.Resources))
	for _, name := range f.Resources {
		if res, ok := tmdb.ParseResource(name); ok {
			out = append(out, res)
		}
	}
	return out
}

type feedsFile struct {
	Feeds []Feed `json:"feeds" yaml:"feeds"`
}

// Registry holds the feeds loaded from a file, in file order.
type Registry struct {
	feeds []Feed
	idx   map[string]Feed
}

// NewRegistry validates feeds and builds a registry from them.
func NewRegistry(feeds []Feed) (*Registry, error) {
	reg := &Registry{
		feeds: make([]Feed, 0, len(feeds)),
		idx:   make(map[string]Feed, len(feeds)),
	}
	for i := range feeds {
		f := sanitizeFeed(feeds[i])
		if err := validateFeed(f); err != nil {
			return nil, fmt.Errorf("feeds[%d]: %w", i, err)
		}
		if _, exists := reg.idx[f.ID]; exists {
			return nil, fmt.Errorf("duplicate feed id %q", f.ID)
		}
		reg.feeds = append(reg.feeds, f)
		reg.idx[f.ID] = f
	}
	return reg, nil
}

// LoadRegistry loads feeds from a YAML or JSON file.
func LoadRegistry(path string) (*Registry, error) {
	var parsed feedsFile
	if err := configfile.Load(path, "feeds", &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Feeds) == 0 {
		return nil, errors.New("feeds file contains no feeds entries")
	}
	return NewRegistry(parsed.Feeds)
}

// All returns a copy of the registered feeds.
func (r *Registry) All() []Feed {
	if r == nil || len(r.feeds) == 0 {
		return nil
	}
	out := make([]Feed, len(r.feeds))
	copy(out, r.feeds)
	return out
}

// ByID returns the feed registered under id.
func (r *Registry) ByID(id string) (Feed, bool) {
	if r == nil {
		return Feed{}, false
	}
	f, ok := r.idx[strings.TrimSpace(id)]
	return f, ok
}

// IDs returns the feed ids in file order.
func (r *Registry) IDs() []string {
	return lo.Map(r.All(), func(f Feed, _ int) string { return f.ID })
}

func sanitizeFeed(f Feed) Feed {
	f.ID = strings.TrimSpace(f.ID)
	f.Name = strings.TrimSpace(f.Name)
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	if f.Name == "" {
		f.Name = f.ID
	}

	resources := make([]string, 0, len(f.Resources))
	for _, r := range f.Resources {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			resources = append(resources, r)
		}
	}
	f.Resources = lo.Uniq(resources)
	if len(f.Resources) == 0 {
		f.Resources = []string{string(tmdb.ResourceDetails)}
	}

	f.PersonIDs = lo.Uniq(lo.Filter(f.PersonIDs, func(id int64, _ int) bool { return id > 0 }))
	if f.Pages <= 0 {
		f.Pages = defaultPages
	}
	if f.RequestDelayMs <= 0 {
		f.RequestDelayMs = defaultRequestDelayMs
	}
	if f.Parameters == nil {
		f.Parameters = map[string]any{}
	}
	if f.Headers == nil {
		f.Headers = map[string]string{}
	}
	return f
}

func validateFeed(f Feed) error {
	if f.ID == "" {
		return errors.New("id is required")
	}
	switch f.Type {
	case TypePopular:
		if f.Pages > maxPages {
			return fmt.Errorf("pages must be <= %d for feed %q", maxPages, f.ID)
		}
	case TypeWatchlist:
		if len(f.PersonIDs) == 0 {
			return fmt.Errorf("person_ids are required for watchlist feed %q", f.ID)
		}
	case TypeLatest:
	case "":
		return fmt.Errorf("type is required for feed %q", f.ID)
	default:
		return fmt.Errorf("unsupported type %q for feed %q", f.Type, f.ID)
	}
	for _, r := range f.Resources {
		if _, ok := tmdb.ParseResource(r); !ok {
			return fmt.Errorf("unknown resource %q for feed %q", r, f.ID)
		}
	}
	return nil
}
