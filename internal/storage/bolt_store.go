package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const feedBucketPrefix = "feed:"

// boltStore keeps one bucket per feed. Keys are record fingerprints and values
// the big-endian unix second at which the entry expires.
type boltStore struct {
	db        *bolt.DB
	ttl       time.Duration
	sweepEach time.Duration
	now       func() time.Time

	sweepMu   sync.Mutex
	nextSweep time.Time
}

// openBolt opens (or creates) the database at path.
func openBolt(path string, opts Options) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}

	s := &boltStore{
		db:        db,
		ttl:       opts.RecordTTL,
		sweepEach: opts.CleanupInterval,
		now:       time.Now,
	}
	s.nextSweep = s.now().Add(s.sweepEach)
	return s, nil
}

func bucketName(feedID string) ([]byte, error) {
	if feedID = strings.TrimSpace(feedID); feedID == "" {
		return nil, errors.New("feed id is empty")
	}
	return []byte(feedBucketPrefix + feedID), nil
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SeenRecord reports whether fingerprint holds a live entry for feedID.
func (b *boltStore) SeenRecord(feedID, fingerprint string) (bool, error) {
	name, err := bucketName(feedID)
	if err != nil {
		return false, err
	}
	now := b.now()
	if err := b.sweepIfDue(now); err != nil {
		return false, err
	}

	var seen bool
	err = b.db.View(func(tx *bolt.Tx) error {
		if bucket := tx.Bucket(name); bucket != nil {
			seen = live(bucket.Get([]byte(fingerprint)), now)
		}
		return nil
	})
	return seen, err
}

// MarkRecord records fingerprint for feedID; the entry lives for the configured TTL.
func (b *boltStore) MarkRecord(feedID, fingerprint string) error {
	name, err := bucketName(feedID)
	if err != nil {
		return err
	}
	now := b.now()
	if err := b.sweepIfDue(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(name)
		if err != nil {
			return fmt.Errorf("create feed bucket: %w", err)
		}
		return bucket.Put([]byte(fingerprint), encodeExpiry(now.Add(b.ttl)))
	})
}

func (b *boltStore) Count(feedID string) (int, error) {
	name, err := bucketName(feedID)
	if err != nil {
		return 0, err
	}
	now := b.now()

	n := 0
	err = b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(name)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, v []byte) error {
			if live(v, now) {
				n++
			}
			return nil
		})
	})
	return n, err
}

// sweepIfDue drops expired entries from every feed bucket once per cleanup interval.
func (b *boltStore) sweepIfDue(now time.Time) error {
	b.sweepMu.Lock()
	defer b.sweepMu.Unlock()
	if now.Before(b.nextSweep) {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, bucket *bolt.Bucket) error {
			if !strings.HasPrefix(string(name), feedBucketPrefix) {
				return nil
			}
			return sweepBucket(bucket, now)
		})
	})
	if err != nil {
		return fmt.Errorf("sweep expired records: %w", err)
	}
	b.nextSweep = now.Add(b.sweepEach)
	return nil
}

func sweepBucket(bucket *bolt.Bucket, now time.Time) error {
	c := bucket.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		if live(v, now) {
			continue
		}
		if err := c.Delete(); err != nil {
			return err
		}
	}
	return nil
}

func encodeExpiry(t time.Time) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(t.Unix()))
}

// live reports whether value is a well-formed expiry later than now.
func live(value []byte, now time.Time) bool {
	if len(value) != 8 {
		return false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	return unix > 0 && time.Unix(unix, 0).After(now)
}
