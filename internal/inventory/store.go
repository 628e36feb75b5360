// Package inventory persists scan observations between runs.
package inventory

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/yairfalse/vahti/pkg/instance"
)

// Bucket names in bbolt
var (
	bucketObservations = []byte("observations")
	bucketMeta         = []byte("meta")
)

var keyRevision = []byte("revision")

// Observation tracks when an instance was first and last seen.
type Observation struct {
	Instance  instance.Instance `json:"instance"`
	FirstSeen time.Time         `json:"first_seen"`
	LastSeen  time.Time         `json:"last_seen"`
	LastRev   int64             `json:"last_rev"`
}

// Store is a bbolt-backed observation store keyed by instance ID.
type Store struct {
	mu         sync.Mutex
	db         *bbolt.DB
	currentRev int64
}

// Open opens (or creates) the store under dir.
func Open(dir string) (*Store, error) {
	dbPath := filepath.Join(dir, "vahti.db")

	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{bucketObservations, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &Store{db: db}
	store.loadRevision()
	return store, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Revision returns the current scan revision.
func (s *Store) Revision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentRev
}

// RecordScan records one full scan, bumping the revision. Instances seen for
// the first time get FirstSeen set; known instances keep theirs.
func (s *Store) RecordScan(instances []instance.Instance) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentRev++
	rev := s.currentRev
	now := time.Now().UTC()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketObservations)

		for _, inst := range instances {
			obs := Observation{
				Instance:  inst,
				FirstSeen: now,
				LastSeen:  now,
				LastRev:   rev,
			}

			if existing := bucket.Get([]byte(inst.ID)); existing != nil {
				var prev Observation
				if err := json.Unmarshal(existing, &prev); err == nil {
					obs.FirstSeen = prev.FirstSeen
				}
			}

			value, err := json.Marshal(obs)
			if err != nil {
				return err
			}
			if err := bucket.Put([]byte(inst.ID), value); err != nil {
				return err
			}
		}

		return tx.Bucket(bucketMeta).Put(keyRevision, encodeRevision(rev))
	})
	if err != nil {
		s.currentRev--
		return 0, fmt.Errorf("record scan: %w", err)
	}

	return rev, nil
}

// Get returns the observation for an instance, or nil if never seen.
func (s *Store) Get(instanceID string) (*Observation, error) {
	var obs *Observation

	err := s.db.View(func(tx *bbolt.Tx) error {
		value := tx.Bucket(bucketObservations).Get([]byte(instanceID))
		if value == nil {
			return nil
		}
		var o Observation
		if err := json.Unmarshal(value, &o); err != nil {
			return err
		}
		obs = &o
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get observation %s: %w", instanceID, err)
	}

	return obs, nil
}

// ListCurrent returns observations from the latest scan, in instance-ID order.
func (s *Store) ListCurrent() ([]Observation, error) {
	s.mu.Lock()
	rev := s.currentRev
	s.mu.Unlock()

	var observations []Observation

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketObservations).ForEach(func(_, value []byte) error {
			var obs Observation
			if err := json.Unmarshal(value, &obs); err != nil {
				return err
			}
			if obs.LastRev == rev {
				observations = append(observations, obs)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list current observations: %w", err)
	}

	return observations, nil
}

// ListAll returns every observation ever recorded, in instance-ID order.
func (s *Store) ListAll() ([]Observation, error) {
	var observations []Observation

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketObservations).ForEach(func(_, value []byte) error {
			var obs Observation
			if err := json.Unmarshal(value, &obs); err != nil {
				return err
			}
			observations = append(observations, obs)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list observations: %w", err)
	}

	return observations, nil
}

func (s *Store) loadRevision() {
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if value := tx.Bucket(bucketMeta).Get(keyRevision); value != nil {
			s.currentRev = decodeRevision(value)
		}
		return nil
	})
}

func encodeRevision(rev int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(rev)) // #nosec G115 -- revision is never negative
	return buf
}

func decodeRevision(value []byte) int64 {
	if len(value) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(value)) // #nosec G115
}
