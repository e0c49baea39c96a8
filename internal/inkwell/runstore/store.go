package runstore

import (
	"fmt"
	"sort"
	"time"

	"github.com/boltdb/bolt"
	"github.com/lithammer/shortuuid/v4"

	"github.com/inkwell-ai/inkwell/internal/inkwell/entity"
	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
	"github.com/inkwell-ai/inkwell/pkg/utils/json"
)

// runIDLength is the length of generated run identifiers. shortuuid's
// base57 alphabet at 8 characters gives ~57^8 (~1.1e14) values, plenty
// for the expected run volume.
const runIDLength = 8

// Store is the BoltDB-backed run store. Append durability comes from
// bolt's transactional commit (fsync before return), and bolt's single
// writer lock serializes concurrent appends to the same id.
type Store struct {
	db *bolt.DB
}

// NewStore creates a Store over an open database.
func NewStore(db *DB) *Store {
	return &Store{db: db.Bolt()}
}

// GenerateID returns a new short opaque run identifier.
func (s *Store) GenerateID() string {
	return shortuuid.New()[:runIDLength]
}

// Exists reports whether a run record exists for id.
func (s *Store) Exists(id string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(bucketRuns).Get([]byte(id)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("check run %q: %w", id, err)
	}
	return found, nil
}

// Load returns the full run record for id. A missing record yields
// errno.ErrRunNotFound and an unreadable one errno.ErrRunCorrupted; the
// two are deliberately distinct and never repaired silently.
func (s *Store) Load(id string) (*entity.ConversationRun, error) {
	var run entity.ConversationRun
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketRuns).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("run %q: %w", id, errno.ErrRunNotFound)
		}
		if err := json.Unmarshal(data, &run); err != nil {
			return fmt.Errorf("run %q: %v: %w", id, err, errno.ErrRunCorrupted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Append atomically extends a run's history and usage counters. The
// record is created when id is new; existing turns are never rewritten.
// The agent name is recorded on creation and left untouched afterwards.
func (s *Store) Append(id, agent string, turns []*entity.Turn, usage entity.Usage) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)

		run := &entity.ConversationRun{
			ID:        id,
			Agent:     agent,
			CreatedAt: time.Now(),
		}
		if data := b.Get([]byte(id)); data != nil {
			run = &entity.ConversationRun{}
			if err := json.Unmarshal(data, run); err != nil {
				return fmt.Errorf("run %q: %v: %w", id, err, errno.ErrRunCorrupted)
			}
		}

		run.Turns = append(run.Turns, turns...)
		run.Usage.Add(usage)
		run.UpdatedAt = time.Now()

		data, err := json.Marshal(run)
		if err != nil {
			return fmt.Errorf("encode run %q: %w", id, err)
		}
		return b.Put([]byte(id), data)
	})
}

// List returns all run records, most recently updated first.
func (s *Store) List() ([]*entity.ConversationRun, error) {
	var runs []*entity.ConversationRun
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRuns).ForEach(func(k, v []byte) error {
			var run entity.ConversationRun
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("run %q: %v: %w", k, err, errno.ErrRunCorrupted)
			}
			runs = append(runs, &run)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].UpdatedAt.After(runs[j].UpdatedAt) })
	return runs, nil
}
