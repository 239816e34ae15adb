package publishers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Builder creates a Publisher from a config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Registry resolves a publisher config to a concrete Publisher by type.
type Registry interface {
	Register(typ string, builder Builder)
	PublisherFor(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)
}

type builderSet struct {
	mu sync.RWMutex
	by map[string]Builder
}

// NewRegistry returns a Registry seeded with builders.
func NewRegistry(builders map[string]Builder) Registry {
	set := &builderSet{by: make(map[string]Builder, len(builders))}
	for typ, b := range builders {
		set.Register(typ, b)
	}
	return set
}

// DefaultRegistry knows every publisher type a publishers file may name.
func DefaultRegistry() Registry {
	return NewRegistry(map[string]Builder{
		TypeHTTP:      newHTTPPublisher,
		TypeSQS:       newSQSPublisher,
		TypeSNS:       newSNSPublisher,
		TypeGCPPubSub: newGCPPubSubPublisher,
	})
}

func (s *builderSet) Register(typ string, builder Builder) {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "" || builder == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.by[typ] = builder
}

func (s *builderSet) PublisherFor(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	s.mu.RLock()
	build, ok := s.by[strings.ToLower(cfg.Type)]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no publisher registered for type %q", cfg.Type)
	}
	return build(ctx, cfg, ensureLogger(log))
}

// BuildAll builds one publisher per config. On failure the publishers already
// built are closed and no publishers are returned.
func BuildAll(ctx context.Context, reg Registry, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	if reg == nil {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var built []Publisher
	for _, cfg := range cfgs {
		pub, err := reg.PublisherFor(ctx, cfg, log)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("build publisher %q: %w", cfg.ID, err), closeAll(built))
		}
		built = append(built, pub)
	}
	return built, nil
}

func closeAll(pubs []Publisher) error {
	var errs []error
	for _, p := range pubs {
		c, ok := p.(closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher %q: %w", p.ID(), err))
		}
	}
	return errors.Join(errs...)
}
