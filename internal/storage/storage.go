package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage remembers which person records were already published.

// Store tracks record fingerprints per feed so unchanged people are not republished.
type Store interface {
	Close() error
	SeenRecord(feedID, fingerprint string) (bool, error)
	MarkRecord(feedID, fingerprint string) error
	// Count returns the number of live (unexpired) entries for feedID.
	Count(feedID string) (int, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	RecordTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	TypeBBolt = "bbolt"
	TypeNone  = "none"

	defaultRecordTTL       = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.RecordTTL <= 0 {
		opts.RecordTTL = defaultRecordTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                            { return nil }
func (noopStore) SeenRecord(string, string) (bool, error) { return false, nil }
func (noopStore) MarkRecord(string, string) error         { return nil }
func (noopStore) Count(string) (int, error)               { return 0, nil }
