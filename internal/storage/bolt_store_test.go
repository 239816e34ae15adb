package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestBoltStoreMarksAndExpiresRecords(t *testing.T) {
	opts := Options{
		RecordTTL:       time.Hour,
		CleanupInterval: time.Minute,
	}

	store, err := openBolt(filepath.Join(t.TempDir(), "people.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer store.Close()

	clock := time.Now()
	store.now = func() time.Time { return clock }

	seen, err := store.SeenRecord("popular", "fp1")
	if err != nil || seen {
		t.Fatalf("expected unseen record, seen=%v err=%v", seen, err)
	}

	if err := store.MarkRecord("popular", "fp1"); err != nil {
		t.Fatalf("MarkRecord: %v", err)
	}

	seen, err = store.SeenRecord("popular", "fp1")
	if err != nil || !seen {
		t.Fatalf("expected record marked as seen, got seen=%v err=%v", seen, err)
	}

	seen, err = store.SeenRecord("watchlist", "fp1")
	if err != nil || seen {
		t.Fatalf("records must be scoped per feed, seen=%v err=%v", seen, err)
	}

	if n, err := store.Count("popular"); err != nil || n != 1 {
		t.Fatalf("Count = %d err=%v, want 1", n, err)
	}

	// Jump past the TTL; the cleanup sweep removes the entry.
	clock = clock.Add(2 * time.Hour)

	seen, err = store.SeenRecord("popular", "fp1")
	if err != nil {
		t.Fatalf("SeenRecord after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire")
	}
	if n, err := store.Count("popular"); err != nil || n != 0 {
		t.Fatalf("Count after expiry = %d err=%v, want 0", n, err)
	}
}

func TestBoltStoreRejectsEmptyFeed(t *testing.T) {
	store, err := openBolt(filepath.Join(t.TempDir(), "people.db"), normalizeOptions(Options{}))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer store.Close()

	if err := store.MarkRecord(" ", "fp"); err == nil {
		t.Fatalf("expected error for empty feed id")
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkRecord("feed", "x"); err != nil {
		t.Fatalf("noop store MarkRecord: %v", err)
	}
	if seen, _ := store.SeenRecord("feed", "x"); seen {
		t.Fatalf("noop store must never report seen")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore(TypeBBolt, "", Options{}); err == nil {
		t.Fatalf("expected error for missing bbolt path")
	}
}
