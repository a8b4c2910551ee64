// Package state manages the persistent release journal using BoltDB.
// All writes are transactional; reads use read-only transactions.
package state

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	v1 "github.com/lsalehar/aero-data-fe/api/v1"
)

// Bucket names
var (
	bucketReleases = []byte("releases")
)

// DB wraps a BoltDB instance with typed accessor methods.
type DB struct {
	bolt *bbolt.DB
}

// Open opens (or creates) the journal database at the given path.
func Open(path string) (*DB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open journal db %q: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketReleases); err != nil {
			return fmt.Errorf("create bucket %q: %w", bucketReleases, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &DB{bolt: db}, nil
}

// Close closes the underlying BoltDB file.
func (db *DB) Close() error {
	return db.bolt.Close()
}

// AppendRelease appends a release record to the journal and returns its
// assigned journal ID. Records are keyed by a zero-padded bucket sequence so
// cursor order equals chronological order.
func (db *DB) AppendRelease(rec v1.ReleaseRecord) (string, error) {
	var id string
	err := db.bolt.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketReleases)
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		id = fmt.Sprintf("%08d", seq)
		rec.ID = id

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal release record: %w", err)
		}
		return b.Put([]byte(id), data)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetRelease retrieves a release record by ID. Returns nil, nil if not found.
func (db *DB) GetRelease(id string) (*v1.ReleaseRecord, error) {
	var rec v1.ReleaseRecord
	var found bool
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketReleases).Get([]byte(id))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &rec, nil
}

// ListReleases returns up to limit release records, newest first.
// A non-positive limit returns everything.
func (db *DB) ListReleases(limit int) ([]v1.ReleaseRecord, error) {
	var recs []v1.ReleaseRecord
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketReleases).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var r v1.ReleaseRecord
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("unmarshal release %q: %w", k, err)
			}
			recs = append(recs, r)
			if limit > 0 && len(recs) >= limit {
				return nil
			}
		}
		return nil
	})
	return recs, err
}

// LastRelease returns the most recent release record, or nil when the
// journal is empty.
func (db *DB) LastRelease() (*v1.ReleaseRecord, error) {
	recs, err := db.ListReleases(1)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}
