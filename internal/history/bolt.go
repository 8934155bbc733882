package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/handiism/tunegrab/internal/model"
)

const (
	downloadsBucket = "downloads"
	sessionsBucket  = "sessions"
	metadataBucket  = "metadata"
	schemaVersion   = 1
)

// BoltStore keeps history in a bbolt database file.
type BoltStore struct {
	db  *bbolt.DB
	now func() time.Time
}

// NewBoltStore opens or creates the database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	options := &bbolt.Options{
		Timeout: 1 * time.Second,
	}

	db, err := bbolt.Open(path, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &BoltStore{
		db:  db,
		now: time.Now,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initialize sets up buckets and schema
func (s *BoltStore) initialize() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{downloadsBucket, sessionsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}

		meta, err := tx.CreateBucketIfNotExists([]byte(metadataBucket))
		if err != nil {
			return fmt.Errorf("failed to create metadata bucket: %w", err)
		}

		versionBytes := []byte(fmt.Sprintf("%d", schemaVersion))
		if err := meta.Put([]byte("schema_version"), versionBytes); err != nil {
			return fmt.Errorf("failed to store schema version: %w", err)
		}

		return nil
	})
}

// Record upserts the outcome under its query. A skipped outcome never
// replaces an existing record.
func (s *BoltStore) Record(_ context.Context, outcome model.Outcome) error {
	if outcome.Query == "" {
		return fmt.Errorf("cannot record outcome without query")
	}

	data, err := json.Marshal(newRecord(outcome, s.now()))
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(downloadsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", downloadsBucket)
		}

		key := []byte(outcome.Query)
		if outcome.Status == model.StatusSkipped && bucket.Get(key) != nil {
			return nil
		}

		return bucket.Put(key, data)
	})
}

// RecordSession appends a batch summary.
func (s *BoltStore) RecordSession(_ context.Context, session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", sessionsBucket)
		}

		// Sequence keys keep sessions in insertion order.
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}

		return bucket.Put([]byte(fmt.Sprintf("%020d", seq)), data)
	})
}

// FailedTracks returns tracks whose latest outcome is failed, ordered by query.
func (s *BoltStore) FailedTracks(_ context.Context) ([]model.Track, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	return failedTracks(records), nil
}

// Stats computes statistics over the whole database.
func (s *BoltStore) Stats(_ context.Context, now time.Time) (Stats, error) {
	records, err := s.records()
	if err != nil {
		return Stats{}, err
	}

	sessions, err := s.sessions()
	if err != nil {
		return Stats{}, err
	}

	return computeStats(records, sessions, now), nil
}

func (s *BoltStore) records() ([]Record, error) {
	var records []Record

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(downloadsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", downloadsBucket)
		}

		return bucket.ForEach(func(_, v []byte) error {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("failed to unmarshal record: %w", err)
			}
			records = append(records, r)
			return nil
		})
	})

	return records, err
}

func (s *BoltStore) sessions() ([]Session, error) {
	var sessions []Session

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", sessionsBucket)
		}

		return bucket.ForEach(func(_, v []byte) error {
			var sess Session
			if err := json.Unmarshal(v, &sess); err != nil {
				return fmt.Errorf("failed to unmarshal session: %w", err)
			}
			sessions = append(sessions, sess)
			return nil
		})
	})

	return sessions, err
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}
